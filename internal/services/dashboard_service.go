package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Rex-a25/money-biz-server/internal/cache"
	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
)

// dashboardService keeps the admin overview hot. It subscribes to the
// change-event topic and recomputes the whole snapshot on every relevant
// event; each recompute replaces the previous snapshot outright. Events
// arrive in no guaranteed order, which is fine: every recompute reads the
// current store state, so the last replace always wins.
type dashboardService struct {
	repo       repositories.Repository
	subscriber message.Subscriber
	cache      *cache.CacheManager
	logger     *slog.Logger

	mu       sync.RWMutex
	snapshot *DashboardStats
}

func NewDashboardService(repo repositories.Repository, subscriber message.Subscriber, cm *cache.CacheManager, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:       repo,
		subscriber: subscriber,
		cache:      cm,
		logger:     logger,
	}
}

// Stats serves the overview. Gated on the REAL role: a non-admin never
// receives financial figures, no matter what view role is active.
func (s *dashboardService) Stats(ctx context.Context, actor *models.SessionIdentity) (*DashboardStats, error) {
	if actor.RealRole != models.RoleAdmin {
		return nil, NewPermissionError(actor.UserID, "", "dashboard", "stats", "financial data requires an admin account")
	}

	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	return s.recompute(ctx)
}

// Run consumes change events until the context is cancelled. Start it in
// its own goroutine.
func (s *dashboardService) Run(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *dashboardService) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	eventType := msg.Metadata.Get("event_type")
	switch eventType {
	case events.EventTransactionChanged, events.EventCustomerChanged, events.EventUserChanged:
		// Drop the stale cached copy first so a failed recompute never
		// leaves old figures behind.
		if s.cache != nil {
			cache.InvalidateFinanceCache(ctx, s.cache)
		}
		if _, err := s.recompute(ctx); err != nil {
			s.logger.WarnContext(ctx, "Dashboard recompute failed",
				"error", err,
				"event_type", eventType)
		}
	}
}

func (s *dashboardService) recompute(ctx context.Context) (*DashboardStats, error) {
	finance, err := s.repo.Transaction().FinanceStats(ctx)
	if err != nil {
		return nil, err
	}

	students, err := s.countByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	teachers, err := s.countByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	snapshot := &DashboardStats{
		Finance:  finance,
		Students: students,
		Teachers: teachers,
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Stats.Set(ctx, "finance", snapshot, cache.StatsCacheConfig.TTL); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache dashboard stats", "error", err)
		}
	}
	return snapshot, nil
}

func (s *dashboardService) countByRole(ctx context.Context, role models.UserRole) (int64, error) {
	_, total, err := s.repo.User().List(ctx, repositories.UserFilters{Role: &role, Limit: 1})
	return total, err
}
