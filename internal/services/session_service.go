package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rex-a25/money-biz-server/internal/cache"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
)

// SessionStore is the persistence surface sessionService needs. The Redis
// implementation lives in internal/cache; tests supply their own.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*models.SessionIdentity, error)
	Save(ctx context.Context, session *models.SessionIdentity) error
	Delete(ctx context.Context, userID string) error
}

type sessionService struct {
	repo   repositories.Repository
	store  SessionStore
	logger *slog.Logger
}

func NewSessionService(repo repositories.Repository, store SessionStore, logger *slog.Logger) SessionService {
	return &sessionService{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// Resolve loads the session document for an authenticated user, rebuilding
// it from the user row when none exists yet.
func (s *sessionService) Resolve(ctx context.Context, userID string) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, cache.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to resolve session: %w", err)
		}
		session, err = s.buildSession(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := s.store.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return s.respond(session), nil
}

// SetViewRole flips the rendering role. Only a real admin who is not
// simulating may preview as another role; data gates keep using RealRole.
func (s *sessionService) SetViewRole(ctx context.Context, userID string, viewRole models.UserRole) (*SessionResponse, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if session.RealRole != models.RoleAdmin {
		return nil, NewPermissionError(userID, "", "session", "set_view_role", "only admins can preview other roles")
	}
	if session.Simulating() {
		return nil, NewPermissionError(userID, "", "session", "set_view_role", "view role is fixed while simulating a user")
	}
	if !viewRole.Valid() {
		return nil, NewValidationError("view_role", "unknown role")
	}

	session.ViewRole = viewRole
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "View role changed",
		"user_id", userID,
		"view_role", viewRole)
	return s.respond(session), nil
}

// Simulate starts viewing the portal as target. The overlay replaces the
// base role for rendering and data scoping, but RealRole stays admin, so
// financial operations remain available underneath.
func (s *sessionService) Simulate(ctx context.Context, adminID, targetUserID string) (*SessionResponse, error) {
	session, err := s.load(ctx, adminID)
	if err != nil {
		return nil, err
	}

	if session.RealRole != models.RoleAdmin {
		return nil, NewPermissionError(adminID, targetUserID, "session", "simulate", "only admins can view as another user")
	}

	target, err := s.repo.User().GetByID(ctx, targetUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", targetUserID)
		}
		return nil, err
	}

	session.SimulatedID = target.ID
	session.SimulatedRole = target.Role
	session.SimulatedName = target.Name
	session.ViewRole = "" // falls back to the simulated role
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Simulation started",
		"admin_id", adminID,
		"target_id", target.ID,
		"target_role", target.Role)
	return s.respond(session), nil
}

// ExitSimulation drops the overlay and bumps the generation so the client
// rebuilds from the real identity.
func (s *sessionService) ExitSimulation(ctx context.Context, userID string) (*SessionResponse, error) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	session.SimulatedID = ""
	session.SimulatedRole = ""
	session.SimulatedName = ""
	session.ViewRole = ""
	session.Generation++
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Simulation ended", "user_id", userID)
	return s.respond(session), nil
}

func (s *sessionService) CanViewPage(session *models.SessionIdentity, page models.Page) bool {
	return models.CanView(page, session.EffectiveViewRole())
}

func (s *sessionService) load(ctx context.Context, userID string) (*models.SessionIdentity, error) {
	session, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, NewAuthError("Session expired. Please sign in again.")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (s *sessionService) buildSession(ctx context.Context, userID string) (*models.SessionIdentity, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", userID)
		}
		return nil, err
	}

	return &models.SessionIdentity{
		UserID:   user.ID,
		RealRole: user.Role,
		UserName: user.Name,
		Title:    user.Title,
	}, nil
}

func (s *sessionService) respond(session *models.SessionIdentity) *SessionResponse {
	return &SessionResponse{
		Session: session,
		Menu:    models.MenuFor(session.EffectiveViewRole()),
	}
}
