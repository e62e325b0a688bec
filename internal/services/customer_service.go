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

type customerService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCustomerService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) CustomerService {
	return &customerService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *customerService) Create(ctx context.Context, actor *models.SessionIdentity, req *validator.CustomerCreateRequest) (*models.Customer, error) {
	if actor.RealRole != models.RoleAdmin {
		return nil, NewPermissionError(actor.UserID, "", "customer", "create", "requires an admin account")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	customer := &models.Customer{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Class: req.Class,
	}
	if err := s.repo.Customer().Create(ctx, customer); err != nil {
		return nil, err
	}

	s.publishChanged(ctx, customer.ID)
	s.logger.InfoContext(ctx, "Customer created", "customer_id", customer.ID)
	return customer, nil
}

// List is readable by teachers as well: the customers page doubles as the
// all-students roster.
func (s *customerService) List(ctx context.Context, actor *models.SessionIdentity, query string) ([]*models.Customer, error) {
	role := actor.BaseRole()
	if role != models.RoleAdmin && role != models.RoleTeacher {
		return nil, NewPermissionError(actor.UserID, "", "customer", "list", "requires a teacher or admin role")
	}
	return s.repo.Customer().List(ctx, query)
}

func (s *customerService) Delete(ctx context.Context, actor *models.SessionIdentity, id string) error {
	if actor.RealRole != models.RoleAdmin {
		return NewPermissionError(actor.UserID, id, "customer", "delete", "requires an admin account")
	}

	if err := s.repo.Customer().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("customer", id)
		}
		return err
	}

	s.publishChanged(ctx, id)
	s.logger.InfoContext(ctx, "Customer deleted", "customer_id", id)
	return nil
}

func (s *customerService) publishChanged(ctx context.Context, id string) {
	event := events.NewEvent(events.EventCustomerChanged, map[string]string{"customer_id": id})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish customer event",
			"error", err,
			"customer_id", id)
	}
}
