package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
)

// ErrorResponse is the wire shape of every failed request.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// BaseHandler carries the shared handler plumbing.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c.Request.Context(), h.logger).Error(msg, args...)
}

// handleServiceError maps service-layer errors to HTTP responses. Every
// error is terminal for the triggering request; nothing is retried.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	var (
		validationErr *services.ValidationError
		permissionErr *services.PermissionError
		notFoundErr   *services.NotFoundError
		authErr       *services.AuthError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: validationErr.Error(),
		})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: authErr.Message,
		})
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: permissionErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: notFoundErr.Error(),
		})
	default:
		h.LogError(c, err, fallback)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: fallback,
		})
	}
}
