package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type GradeHandler struct {
	BaseHandler
	gradeService services.GradeService
}

func NewGradeHandler(gradeService services.GradeService, logger utils.Logger) *GradeHandler {
	return &GradeHandler{
		BaseHandler:  NewBaseHandler(logger),
		gradeService: gradeService,
	}
}

// SaveStructuredGrade upserts one student-subject grade record
// @Summary Save structured grade
// @Tags grades
// @Accept json
// @Produce json
// @Success 200 {object} models.StructuredGrade
// @Success 204 "Nothing entered, nothing saved"
// @Router /grades/structured [post]
func (h *GradeHandler) SaveStructuredGrade(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.StructuredGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	grade, err := h.gradeService.SaveStructuredGrade(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to save grade")
		return
	}
	if grade == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, grade)
}

// GetStructuredGrade returns one student-subject record for form prefill
func (h *GradeHandler) GetStructuredGrade(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	studentID := c.Param("studentId")
	subject := c.Param("subject")
	grade, err := h.gradeService.GetStructuredGrade(c.Request.Context(), session, studentID, subject)
	if err != nil {
		h.handleServiceError(c, err, "Failed to load grade")
		return
	}
	c.JSON(http.StatusOK, grade)
}

// ListStructuredGrades lists gradebook rows, optionally filtered
func (h *GradeHandler) ListStructuredGrades(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	filters := repositories.GradeFilters{}
	if class := c.Query("class"); class != "" {
		filters.Class = &class
	}
	if subject := c.Query("subject"); subject != "" {
		filters.Subject = &subject
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}

	grades, err := h.gradeService.ListStructuredGrades(c.Request.Context(), session, filters)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list grades")
		return
	}
	c.JSON(http.StatusOK, gin.H{"grades": grades, "total": len(grades)})
}

// AppendFreeformGrade appends a single-score gradebook entry
// @Summary Append freeform grade
// @Tags grades
// @Accept json
// @Produce json
// @Success 201 {object} models.FreeformGrade
// @Failure 400 {object} ErrorResponse "Score missing"
// @Router /grades/freeform [post]
func (h *GradeHandler) AppendFreeformGrade(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.FreeformGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	grade, err := h.gradeService.AppendFreeformGrade(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to append grade")
		return
	}
	c.JSON(http.StatusCreated, grade)
}

// StudentResults returns everything the results page shows for a student
func (h *GradeHandler) StudentResults(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	studentID := c.Param("id")
	results, err := h.gradeService.StudentResults(c.Request.Context(), session, studentID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to load results")
		return
	}
	c.JSON(http.StatusOK, results)
}

// ExportGradebook streams the structured gradebook as an xlsx file
func (h *GradeHandler) ExportGradebook(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	class := c.Query("class")
	data, err := h.gradeService.ExportGradebook(c.Request.Context(), session, class)
	if err != nil {
		h.handleServiceError(c, err, "Failed to export gradebook")
		return
	}

	filename := "gradebook.xlsx"
	if class != "" {
		filename = fmt.Sprintf("gradebook-%s.xlsx", class)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
