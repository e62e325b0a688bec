package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type gradeService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGradeService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) GradeService {
	return &gradeService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// SaveStructuredGrade computes total and letter grade from raw component
// input and upserts the (student, subject) record. Submitting a row with
// every component blank is a no-op: nothing was ever entered, so nothing
// is written.
func (s *gradeService) SaveStructuredGrade(ctx context.Context, actor *models.SessionIdentity, req *validator.StructuredGradeRequest) (*models.StructuredGrade, error) {
	if err := s.requireGradingRole(actor, "grade", "save"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	if strings.TrimSpace(req.Test) == "" &&
		strings.TrimSpace(req.Assignment) == "" &&
		strings.TrimSpace(req.Exam) == "" {
		return nil, nil
	}

	student, err := s.repo.User().GetByID(ctx, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("student", req.StudentID)
		}
		return nil, err
	}

	test := ParseComponent(req.Test)
	assignment := ParseComponent(req.Assignment)
	exam := ParseComponent(req.Exam)
	total, letter := ComputeScore(test, assignment, exam)

	grade := &models.StructuredGrade{
		ID:          models.GradeKey(req.StudentID, req.Subject),
		StudentID:   req.StudentID,
		StudentName: student.Name,
		Class:       student.ClassAssigned,
		Subject:     req.Subject,
		Test:        test,
		Assignment:  assignment,
		Exam:        exam,
		Total:       total,
		Grade:       letter,
	}
	if err := s.repo.Grade().UpsertStructured(ctx, grade); err != nil {
		return nil, err
	}

	s.publishGradeUpdated(ctx, grade.ID)
	s.logger.InfoContext(ctx, "Structured grade saved",
		"student_id", req.StudentID,
		"subject", req.Subject,
		"total", total,
		"grade", letter)
	return grade, nil
}

// GetStructuredGrade fetches one (student, subject) record so the grade
// form can prefill the components already on file.
func (s *gradeService) GetStructuredGrade(ctx context.Context, actor *models.SessionIdentity, studentID, subject string) (*models.StructuredGrade, error) {
	if err := s.requireGradingRole(actor, "grade", "read"); err != nil {
		return nil, err
	}
	grade, err := s.repo.Grade().GetStructured(ctx, studentID, subject)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("grade", models.GradeKey(studentID, subject))
		}
		return nil, err
	}
	return grade, nil
}

func (s *gradeService) ListStructuredGrades(ctx context.Context, actor *models.SessionIdentity, filters repositories.GradeFilters) ([]*models.StructuredGrade, error) {
	if err := s.requireGradingRole(actor, "grade", "list"); err != nil {
		return nil, err
	}
	return s.repo.Grade().ListStructured(ctx, filters)
}

// AppendFreeformGrade always inserts a new record. Score is required;
// blank feedback falls back to the sentinel string.
func (s *gradeService) AppendFreeformGrade(ctx context.Context, actor *models.SessionIdentity, req *validator.FreeformGradeRequest) (*models.FreeformGrade, error) {
	if err := s.requireGradingRole(actor, "grade", "append"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}
	if strings.TrimSpace(req.Score) == "" {
		return nil, NewValidationError("score", "is required")
	}

	student, err := s.repo.User().GetByID(ctx, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("student", req.StudentID)
		}
		return nil, err
	}

	feedback := strings.TrimSpace(req.Feedback)
	if feedback == "" {
		feedback = DefaultFeedback
	}

	grade := &models.FreeformGrade{
		StudentID:   req.StudentID,
		StudentName: student.Name,
		Subject:     req.Subject,
		Score:       ParseComponent(req.Score),
		Feedback:    feedback,
		TeacherName: actor.DisplayName(),
		Term:        req.Term,
		Date:        time.Now().UTC(),
	}
	if err := s.repo.Grade().AppendFreeform(ctx, grade); err != nil {
		return nil, err
	}

	s.publishGradeUpdated(ctx, fmt.Sprintf("%s_%s", req.StudentID, req.Subject))
	s.logger.InfoContext(ctx, "Freeform grade appended",
		"student_id", req.StudentID,
		"subject", req.Subject)
	return grade, nil
}

// StudentResults returns everything the results page shows. Students only
// ever see their own; the effective identity covers admins simulating one.
func (s *gradeService) StudentResults(ctx context.Context, actor *models.SessionIdentity, studentID string) (*StudentResults, error) {
	if actor.BaseRole() == models.RoleStudent && actor.EffectiveID() != studentID {
		return nil, NewPermissionError(actor.UserID, studentID, "results", "read", "students can only view their own results")
	}

	structured, err := s.repo.Grade().ListStructured(ctx, repositories.GradeFilters{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	freeform, err := s.repo.Grade().ListFreeformByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	remarks, err := s.repo.Remark().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &StudentResults{
		Structured: structured,
		Freeform:   freeform,
		Remarks:    remarks,
	}, nil
}

// ExportGradebook renders a class's structured grades as an xlsx download.
func (s *gradeService) ExportGradebook(ctx context.Context, actor *models.SessionIdentity, class string) ([]byte, error) {
	if err := s.requireGradingRole(actor, "gradebook", "export"); err != nil {
		return nil, err
	}

	filters := repositories.GradeFilters{}
	if class != "" {
		filters.Class = &class
	}
	grades, err := s.repo.Grade().ListStructured(ctx, filters)
	if err != nil {
		return nil, err
	}

	workbook, err := buildGradebookWorkbook(class, grades)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *gradeService) requireGradingRole(actor *models.SessionIdentity, resource, action string) error {
	role := actor.BaseRole()
	if role != models.RoleTeacher && role != models.RoleAdmin {
		return NewPermissionError(actor.UserID, "", resource, action, "grading requires a teacher or admin role")
	}
	return nil
}

func (s *gradeService) publishGradeUpdated(ctx context.Context, gradeID string) {
	event := events.NewEvent(events.EventGradeUpdated, map[string]string{"grade_id": gradeID})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish grade event",
			"error", err,
			"grade_id", gradeID)
	}
}
