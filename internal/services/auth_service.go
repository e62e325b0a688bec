package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type authService struct {
	repo        repositories.Repository
	identity    repositories.IdentityStore
	store       SessionStore
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator
	licenseCode string
}

func NewAuthService(
	repo repositories.Repository,
	identity repositories.IdentityStore,
	store SessionStore,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
	licenseCode string,
) AuthService {
	return &authService{
		repo:        repo,
		identity:    identity,
		store:       store,
		publisher:   publisher,
		logger:      logger,
		validator:   v,
		licenseCode: licenseCode,
	}
}

// Login exchanges credentials for a fresh session document. Any overlay
// from a previous session is discarded.
func (s *authService) Login(ctx context.Context, req *validator.LoginRequest) (*SessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	identity, err := s.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrInvalidCredential), errors.Is(err, repositories.ErrNotFound):
			return nil, NewAuthError("Invalid email or password.")
		case errors.Is(err, repositories.ErrTooManyRequests):
			return nil, NewAuthError("Too many failed attempts. Please try again later.")
		default:
			return nil, fmt.Errorf("sign-in failed: %w", err)
		}
	}

	user, err := s.repo.User().GetByID(ctx, identity.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthError("User record not found in database.")
		}
		return nil, err
	}

	session := &models.SessionIdentity{
		UserID:   user.ID,
		RealRole: user.Role,
		UserName: user.Name,
		Title:    user.Title,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User signed in",
		"user_id", user.ID,
		"role", user.Role)
	return &SessionResponse{Session: session, Menu: models.MenuFor(session.EffectiveViewRole())}, nil
}

// SignupOwner provisions the founding admin. The license code is checked
// before anything is created, so a bad code never leaves a stray identity.
func (s *authService) SignupOwner(ctx context.Context, req *validator.OwnerSignupRequest) (*SessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	if req.LicenseCode != s.licenseCode {
		return nil, NewAuthError("Invalid license code.")
	}
	if err := s.requireFreshEmail(ctx, req.Email); err != nil {
		return nil, err
	}

	identity, err := s.identity.CreateIdentity(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailInUse) {
			return nil, NewAuthError("An account with this email already exists.")
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:          identity.ID,
		Name:        req.Name,
		Email:       req.Email,
		Role:        models.RoleAdmin,
		SchoolName:  req.SchoolName,
		Status:      models.UserActive,
		Title:       "Business Owner",
		ActivatedAt: &now,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, err
	}

	s.publishUserChanged(ctx, user.ID)
	s.logger.InfoContext(ctx, "Owner account created",
		"user_id", user.ID,
		"school", req.SchoolName)

	return s.startSession(ctx, user)
}

// ActivateInvite turns a pending invite row into a signed-in account. The
// invite is matched by email and must exist before any identity is created.
// Activation inserts a new row keyed by the identity provider's uid and
// leaves the invite row in place.
func (s *authService) ActivateInvite(ctx context.Context, req *validator.InviteSignupRequest) (*SessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	invite, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthError("No invitation found for this email address. Please contact your administrator.")
		}
		return nil, err
	}
	if invite.Status != models.UserPending {
		return nil, NewAuthError("This invitation has already been used.")
	}
	if err := s.requireFreshEmail(ctx, req.Email); err != nil {
		return nil, err
	}

	identity, err := s.identity.CreateIdentity(ctx, req.Email, req.Password, invite.Name)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailInUse) {
			return nil, NewAuthError("An account with this email already exists.")
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:            identity.ID,
		Name:          invite.Name,
		Email:         invite.Email,
		Role:          invite.Role,
		ClassAssigned: invite.ClassAssigned,
		SchoolName:    invite.SchoolName,
		Status:        models.UserActive,
		Title:         invite.Title,
		ActivatedAt:   &now,
	}
	// Re-check the invite inside the transaction so two concurrent
	// activations of the same email cannot both insert an active row.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		current, err := tx.User().GetByID(ctx, invite.ID)
		if err != nil {
			return err
		}
		if current.Status != models.UserPending {
			return NewAuthError("This invitation has already been used.")
		}
		return tx.User().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.publishUserChanged(ctx, user.ID)
	s.logger.InfoContext(ctx, "Invite activated",
		"user_id", user.ID,
		"invite_id", invite.ID,
		"role", user.Role)

	return s.startSession(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User signed out", "user_id", userID)
	return nil
}

// requireFreshEmail rejects signup attempts for emails the identity
// provider already knows. CreateIdentity would fail anyway, but checking
// first gives the caller a clear "log in instead" answer.
func (s *authService) requireFreshEmail(ctx context.Context, email string) error {
	exists, err := s.identity.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check identity: %w", err)
	}
	if exists {
		return NewAuthError("An account with this email already exists. Please log in instead.")
	}
	return nil
}

func (s *authService) startSession(ctx context.Context, user *models.User) (*SessionResponse, error) {
	session := &models.SessionIdentity{
		UserID:   user.ID,
		RealRole: user.Role,
		UserName: user.Name,
		Title:    user.Title,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return &SessionResponse{Session: session, Menu: models.MenuFor(session.EffectiveViewRole())}, nil
}

func (s *authService) publishUserChanged(ctx context.Context, userID string) {
	event := events.NewEvent(events.EventUserChanged, map[string]string{"user_id": userID})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish user change event",
			"error", err,
			"user_id", userID)
	}
}
