package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/config"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/services"
)

const sessionContextKey = "session"

// CasdoorAuthMiddleware validates bearer tokens against Casdoor and loads
// the caller's session document, overlay included.
type CasdoorAuthMiddleware struct {
	client  *casdoorsdk.Client
	session services.SessionService
	config  config.CasdoorConfig
}

func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig, session services.SessionService) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)

	return &CasdoorAuthMiddleware{
		client:  client,
		session: session,
		config:  cfg,
	}
}

// AuthMiddleware returns a Gin middleware function for Casdoor authentication
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authorization header missing",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := cam.client.ParseJwtToken(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": fmt.Sprintf("invalid token: %v", err),
			})
			c.Abort()
			return
		}
		if claims.Id == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "token carries no user id",
			})
			c.Abort()
			return
		}

		resp, err := cam.session.Resolve(c.Request.Context(), claims.Id)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "failed to resolve session",
			})
			c.Abort()
			return
		}

		c.Set("user_id", resp.Session.UserID)
		c.Set(sessionContextKey, resp.Session)

		c.Next()
	}
}

// RequireRealRoleMiddleware gates on the authenticated account's real
// role. Simulation and view-role toggles never change what passes here;
// this is the financial/administrative gate.
func (cam *CasdoorAuthMiddleware) RequireRealRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSessionFromContext(c)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "session not found in context",
			})
			c.Abort()
			return
		}

		for _, role := range requiredRoles {
			if session.RealRole == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
		})
		c.Abort()
	}
}

// RequirePageMiddleware gates on the VIEW role through the page table. An
// admin previewing as a student loses admin-only pages here even though
// the real-role gates above would still let the data through. That
// asymmetry is the intended behavior, not an oversight.
func (cam *CasdoorAuthMiddleware) RequirePageMiddleware(page models.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSessionFromContext(c)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "session not found in context",
			})
			c.Abort()
			return
		}

		if !models.CanView(page, session.EffectiveViewRole()) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "access_restricted",
				"message": fmt.Sprintf("your current role cannot view the %s page", page),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetSessionFromContext extracts the resolved session from Gin context
func GetSessionFromContext(c *gin.Context) (*models.SessionIdentity, error) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, fmt.Errorf("session not found in context")
	}

	session, ok := value.(*models.SessionIdentity)
	if !ok {
		return nil, fmt.Errorf("invalid session type in context")
	}
	return session, nil
}

// GetUserIDFromContext extracts the authenticated user id from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}
	return id, nil
}
