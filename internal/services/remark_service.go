package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type remarkService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewRemarkService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) RemarkService {
	return &remarkService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *remarkService) Add(ctx context.Context, actor *models.SessionIdentity, req *validator.RemarkCreateRequest) (*models.Remark, error) {
	role := actor.BaseRole()
	if role != models.RoleTeacher && role != models.RoleAdmin {
		return nil, NewPermissionError(actor.UserID, "", "remark", "add", "remarks require a teacher or admin role")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	student, err := s.repo.User().GetByID(ctx, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("student", req.StudentID)
		}
		return nil, err
	}

	remark := &models.Remark{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		StudentName: student.Name,
		TeacherName: actor.DisplayName(),
		Message:     req.Message,
	}
	if err := s.repo.Remark().Append(ctx, remark); err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventRemarkAdded, map[string]string{"remark_id": remark.ID})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish remark event",
			"error", err,
			"remark_id", remark.ID)
	}

	s.logger.InfoContext(ctx, "Remark added",
		"remark_id", remark.ID,
		"student_id", req.StudentID)
	return remark, nil
}

func (s *remarkService) ListForStudent(ctx context.Context, actor *models.SessionIdentity, studentID string) ([]*models.Remark, error) {
	if actor.BaseRole() == models.RoleStudent && actor.EffectiveID() != studentID {
		return nil, NewPermissionError(actor.UserID, studentID, "remark", "list", "students can only read their own remarks")
	}
	return s.repo.Remark().ListByStudent(ctx, studentID)
}

func (s *remarkService) MarkRead(ctx context.Context, actor *models.SessionIdentity, id string) error {
	if err := s.repo.Remark().MarkRead(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("remark", id)
		}
		return err
	}
	return nil
}
