package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Rex-a25/money-biz-server/internal/models"
)

// DefaultFeedback fills the freeform feedback column when a teacher
// submits a score without comments.
const DefaultFeedback = "No feedback provided"

// ParseComponent turns raw grid input into a score. Anything that does not
// parse coerces to zero; a save is never rejected over a bad component.
func ParseComponent(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// ComputeScore derives the total and letter grade from the components.
// There is no upper bound: suggested maxima are advisory only.
func ComputeScore(test, assignment, exam float64) (total float64, grade models.LetterGrade) {
	total = test + assignment + exam
	return total, letterForTotal(total)
}

func letterForTotal(total float64) models.LetterGrade {
	switch {
	case total >= 70:
		return models.GradeA
	case total >= 60:
		return models.GradeB
	case total >= 50:
		return models.GradeC
	case total >= 45:
		return models.GradeD
	default:
		return models.GradeF
	}
}

// buildGradebookWorkbook renders structured grades into a spreadsheet, one
// row per student-subject record.
func buildGradebookWorkbook(class string, grades []*models.StructuredGrade) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Gradebook"
	if class != "" {
		sheet = class
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"Student", "Class", "Subject", "Test", "Assignment", "Exam", "Total", "Grade"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, g := range grades {
		values := []interface{}{g.StudentName, g.Class, g.Subject, g.Test, g.Assignment, g.Exam, g.Total, string(g.Grade)}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	return f, nil
}
