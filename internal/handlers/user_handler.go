package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// InviteUser pre-creates a pending account for later activation
// @Summary Invite user
// @Tags users
// @Accept json
// @Produce json
// @Success 201 {object} models.User
// @Failure 403 {object} ErrorResponse "Not an admin"
// @Router /users/invite [post]
func (h *UserHandler) InviteUser(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.userService.InviteUser(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to invite user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListUsers lists users with optional filtering
func (h *UserHandler) ListUsers(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	filters := repositories.UserFilters{
		Query: c.Query("q"),
	}
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		filters.Role = &role
	}
	if raw := c.Query("class"); raw != "" {
		class := raw
		filters.Class = &class
	}
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filters.Limit = parsed
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filters.Offset = parsed
		}
	}

	resp, err := h.userService.ListUsers(c.Request.Context(), session, filters)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUser returns one user by id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), session, c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
