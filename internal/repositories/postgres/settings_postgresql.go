package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
)

type SettingsPostgreSQL struct {
	db *gorm.DB
}

func NewSettingsPostgreSQL(db *gorm.DB) repositories.SettingsRepository {
	return &SettingsPostgreSQL{db: db}
}

// Get returns the singleton settings row, or the shipped defaults when
// nothing has been saved yet.
func (r *SettingsPostgreSQL) Get(ctx context.Context) (*models.SchoolConfig, error) {
	var cfg models.SchoolConfig
	err := r.db.WithContext(ctx).First(&cfg, "id = ?", models.SchoolConfigID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultSchoolConfig(), nil
		}
		return nil, fmt.Errorf("failed to get school config: %w", err)
	}
	return &cfg, nil
}

func (r *SettingsPostgreSQL) Save(ctx context.Context, cfg *models.SchoolConfig) error {
	cfg.ID = models.SchoolConfigID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(cfg).Error
	if err != nil {
		return fmt.Errorf("failed to save school config: %w", err)
	}
	return nil
}
