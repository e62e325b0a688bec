package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Rex-a25/money-biz-server/internal/cache"
	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	cache     *cache.CacheManager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, publisher events.EventPublisher, cm *cache.CacheManager, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		publisher: publisher,
		cache:     cm,
		logger:    logger,
		validator: v,
	}
}

// InviteUser pre-creates an account row with a synthetic id and pending
// status. The invitee later activates it through signup, which inserts a
// second row keyed by their authenticated identity.
func (s *userService) InviteUser(ctx context.Context, actor *models.SessionIdentity, req *validator.InviteUserRequest) (*models.User, error) {
	if err := s.requireAdmin(actor, "user", "invite"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError("email", "a user with this email already exists")
	}

	classAssigned := req.ClassAssigned
	if classAssigned == "" {
		classAssigned = "Unassigned"
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		ClassAssigned: classAssigned,
		SchoolName:    req.SchoolName,
		Title:         req.Title,
		Status:        models.UserPending,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, err
	}

	s.publishUserChanged(ctx, user.ID)
	s.logger.InfoContext(ctx, "User invited",
		"invite_id", user.ID,
		"role", req.Role,
		"invited_by", actor.UserID)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	if s.cache != nil {
		var cached models.User
		if err := s.cache.User.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", id)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.User.Set(ctx, cacheKey, user, cache.UserCacheConfig.TTL); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache user", "error", err, "user_id", id)
		}
	}
	return user, nil
}

// ListUsers serves both the staff page (admin) and the my-students page
// (teacher, scoped to their class).
func (s *userService) ListUsers(ctx context.Context, actor *models.SessionIdentity, filters repositories.UserFilters) (*UserListResponse, error) {
	switch actor.BaseRole() {
	case models.RoleAdmin:
		// unrestricted
	case models.RoleTeacher:
		role := models.RoleStudent
		filters.Role = &role
	default:
		return nil, NewPermissionError(actor.UserID, "", "user", "list", "students cannot list users")
	}

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return &UserListResponse{Users: users, Total: total}, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *models.SessionIdentity, id string) error {
	if err := s.requireAdmin(actor, "user", "delete"); err != nil {
		return err
	}
	if id == actor.UserID {
		return NewValidationError("id", "you cannot delete your own account")
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("user", id)
		}
		return err
	}

	if s.cache != nil {
		cache.InvalidateUserCache(ctx, s.cache, id)
	}
	s.publishUserChanged(ctx, id)
	s.logger.InfoContext(ctx, "User deleted",
		"user_id", id,
		"deleted_by", actor.UserID)
	return nil
}

// requireAdmin gates account administration on the REAL role. A previewing
// or simulating admin keeps these powers; a non-admin never gains them.
func (s *userService) requireAdmin(actor *models.SessionIdentity, resource, action string) error {
	if actor.RealRole != models.RoleAdmin {
		return NewPermissionError(actor.UserID, "", resource, action, "requires an admin account")
	}
	return nil
}

func (s *userService) publishUserChanged(ctx context.Context, userID string) {
	event := events.NewEvent(events.EventUserChanged, map[string]string{"user_id": userID})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish user change event",
			"error", err,
			"user_id", userID)
	}
}
