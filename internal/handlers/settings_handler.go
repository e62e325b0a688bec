package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type SettingsHandler struct {
	BaseHandler
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService, logger utils.Logger) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler:     NewBaseHandler(logger),
		settingsService: settingsService,
	}
}

// Get returns the school config singleton (defaults when never saved)
func (h *SettingsHandler) Get(c *gin.Context) {
	cfg, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to load school config")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Save replaces the school config singleton
func (h *SettingsHandler) Save(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.SettingsSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	cfg, err := h.settingsService.Save(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to save school config")
		return
	}
	c.JSON(http.StatusOK, cfg)
}
