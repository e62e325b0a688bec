package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Login signs a user in with email and password
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} services.SessionResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to sign in")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SignupOwner creates the founding admin account
// @Summary Owner signup
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} services.SessionResponse
// @Failure 401 {object} ErrorResponse "Invalid license code"
// @Router /auth/signup/owner [post]
func (h *AuthHandler) SignupOwner(c *gin.Context) {
	var req validator.OwnerSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	resp, err := h.authService.SignupOwner(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create owner account")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActivateInvite completes signup for an invited user
// @Summary Activate invitation
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} services.SessionResponse
// @Failure 401 {object} ErrorResponse "No invitation found"
// @Router /auth/signup/activate [post]
func (h *AuthHandler) ActivateInvite(c *gin.Context) {
	var req validator.InviteSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	resp, err := h.authService.ActivateInvite(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to activate invitation")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Logout clears the caller's session document
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err, "Failed to sign out")
		return
	}
	c.Status(http.StatusNoContent)
}
