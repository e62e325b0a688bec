package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type RemarkHandler struct {
	BaseHandler
	remarkService services.RemarkService
}

func NewRemarkHandler(remarkService services.RemarkService, logger utils.Logger) *RemarkHandler {
	return &RemarkHandler{
		BaseHandler:   NewBaseHandler(logger),
		remarkService: remarkService,
	}
}

// Add appends a teacher-to-student remark
func (h *RemarkHandler) Add(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.RemarkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	remark, err := h.remarkService.Add(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to add remark")
		return
	}
	c.JSON(http.StatusCreated, remark)
}

// ListForStudent returns a student's remarks, newest first
func (h *RemarkHandler) ListForStudent(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	remarks, err := h.remarkService.ListForStudent(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list remarks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"remarks": remarks, "total": len(remarks)})
}

// MarkRead flags a remark as read
func (h *RemarkHandler) MarkRead(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	if err := h.remarkService.MarkRead(c.Request.Context(), session, c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to mark remark read")
		return
	}
	c.Status(http.StatusNoContent)
}
