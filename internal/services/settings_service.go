package services

import (
	"context"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/Rex-a25/money-biz-server/internal/cache"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type settingsService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSettingsService(repo repositories.Repository, cm *cache.CacheManager, logger *slog.Logger, v *validator.Validator) SettingsService {
	return &settingsService{
		repo:      repo,
		cache:     cm,
		logger:    logger,
		validator: v,
	}
}

// Get serves the school config singleton, cache-first. Every page needs
// the class and subject lists, so this is the hottest read in the portal.
func (s *settingsService) Get(ctx context.Context) (*models.SchoolConfig, error) {
	if s.cache != nil {
		var cached models.SchoolConfig
		if err := s.cache.Settings.Get(ctx, models.SchoolConfigID, &cached); err == nil {
			return &cached, nil
		}
	}

	cfg, err := s.repo.Settings().Get(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Settings.Set(ctx, models.SchoolConfigID, cfg, cache.SettingsCacheConfig.TTL); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache school config", "error", err)
		}
	}
	return cfg, nil
}

// Save replaces the singleton outright and drops the cached copy.
func (s *settingsService) Save(ctx context.Context, actor *models.SessionIdentity, req *validator.SettingsSaveRequest) (*models.SchoolConfig, error) {
	if actor.RealRole != models.RoleAdmin {
		return nil, NewPermissionError(actor.UserID, "", "settings", "save", "requires an admin account")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	cfg := &models.SchoolConfig{
		ID:          models.SchoolConfigID,
		Classes:     datatypes.NewJSONSlice(dedupe(req.Classes)),
		Subjects:    datatypes.NewJSONSlice(dedupe(req.Subjects)),
		CurrentTerm: req.CurrentTerm,
	}
	if err := s.repo.Settings().Save(ctx, cfg); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cache.SafeDelete(ctx, s.cache.Settings, models.SchoolConfigID)
	}

	s.logger.InfoContext(ctx, "School config saved",
		"classes", len(cfg.Classes),
		"subjects", len(cfg.Subjects),
		"term", req.CurrentTerm)
	return cfg, nil
}

// dedupe drops repeated entries, keeping first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
