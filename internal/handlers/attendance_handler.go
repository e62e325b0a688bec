package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(attendanceService services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
	}
}

// SaveSheet replaces one class's register for one day
// @Summary Save attendance sheet
// @Tags attendance
// @Accept json
// @Produce json
// @Success 200 {object} models.AttendanceSheet
// @Router /attendance [put]
func (h *AttendanceHandler) SaveSheet(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.AttendanceSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	sheet, err := h.attendanceService.SaveSheet(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to save attendance")
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// GetSheet returns the register for one class and day
func (h *AttendanceHandler) GetSheet(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	sheet, err := h.attendanceService.GetSheet(c.Request.Context(), session, c.Param("class"), c.Param("date"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to load attendance")
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// ListByClass returns recent registers for a class
func (h *AttendanceHandler) ListByClass(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	sheets, err := h.attendanceService.ListByClass(c.Request.Context(), session, c.Param("class"), limit)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list attendance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheets": sheets, "total": len(sheets)})
}
