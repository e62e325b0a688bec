package services

import (
	"context"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type attendanceService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttendanceService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) AttendanceService {
	return &attendanceService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// SaveSheet writes one class's register for one day. The submitted map is
// the whole truth for that key: whatever was stored before is replaced,
// never merged. Students absent from the map are simply unmarked.
func (s *attendanceService) SaveSheet(ctx context.Context, actor *models.SessionIdentity, req *validator.AttendanceSaveRequest) (*models.AttendanceSheet, error) {
	if err := s.requireMarkingRole(actor, "save"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	sheet := &models.AttendanceSheet{
		ID:       models.AttendanceKey(req.Class, req.Date),
		Class:    req.Class,
		Date:     req.Date,
		Term:     req.Term,
		Records:  datatypes.NewJSONType(req.Records),
		MarkedBy: actor.DisplayName(),
	}
	if err := s.repo.Attendance().UpsertSheet(ctx, sheet); err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventAttendanceUpdated, map[string]string{"sheet_id": sheet.ID})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish attendance event",
			"error", err,
			"sheet_id", sheet.ID)
	}

	s.logger.InfoContext(ctx, "Attendance sheet saved",
		"class", req.Class,
		"date", req.Date,
		"marked", len(req.Records))
	return sheet, nil
}

func (s *attendanceService) GetSheet(ctx context.Context, actor *models.SessionIdentity, class, date string) (*models.AttendanceSheet, error) {
	if err := s.requireMarkingRole(actor, "read"); err != nil {
		return nil, err
	}

	sheet, err := s.repo.Attendance().GetSheet(ctx, class, date)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("attendance sheet", models.AttendanceKey(class, date))
		}
		return nil, err
	}
	return sheet, nil
}

func (s *attendanceService) ListByClass(ctx context.Context, actor *models.SessionIdentity, class string, limit int) ([]*models.AttendanceSheet, error) {
	if err := s.requireMarkingRole(actor, "list"); err != nil {
		return nil, err
	}
	return s.repo.Attendance().ListByClass(ctx, class, limit)
}

func (s *attendanceService) requireMarkingRole(actor *models.SessionIdentity, action string) error {
	role := actor.BaseRole()
	if role != models.RoleTeacher && role != models.RoleAdmin {
		return NewPermissionError(actor.UserID, "", "attendance", action, "attendance requires a teacher or admin role")
	}
	return nil
}
