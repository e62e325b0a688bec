package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// GetSession returns the caller's current session and menu
// @Summary Current session
// @Tags session
// @Produce json
// @Success 200 {object} services.SessionResponse
// @Router /session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	resp, err := h.sessionService.Resolve(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to resolve session")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetViewRole changes which role's UI the admin previews
// @Summary Toggle view role
// @Tags session
// @Accept json
// @Produce json
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse "Not an admin, or currently simulating"
// @Router /session/view-role [put]
func (h *SessionHandler) SetViewRole(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.ViewRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	resp, err := h.sessionService.SetViewRole(c.Request.Context(), userID, req.ViewRole)
	if err != nil {
		h.handleServiceError(c, err, "Failed to set view role")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Simulate starts viewing the portal as a specific user
// @Summary Start simulation
// @Tags session
// @Accept json
// @Produce json
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse "Not an admin"
// @Router /session/simulate [post]
func (h *SessionHandler) Simulate(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	resp, err := h.sessionService.Simulate(c.Request.Context(), userID, req.UserID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to start simulation")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExitSimulation drops the overlay and returns to the real identity
// @Summary Exit simulation
// @Tags session
// @Produce json
// @Success 200 {object} services.SessionResponse
// @Router /session/simulate/exit [post]
func (h *SessionHandler) ExitSimulation(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	resp, err := h.sessionService.ExitSimulation(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to exit simulation")
		return
	}
	c.JSON(http.StatusOK, resp)
}
