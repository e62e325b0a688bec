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

type AttendancePostgreSQL struct {
	db *gorm.DB
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{db: db}
}

// UpsertSheet writes the whole records map for a class/date pair. The stored
// map is replaced outright, so unmarking a student removes them from the sheet.
func (r *AttendancePostgreSQL) UpsertSheet(ctx context.Context, sheet *models.AttendanceSheet) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(sheet).Error
	if err != nil {
		return fmt.Errorf("failed to upsert attendance sheet: %w", err)
	}
	return nil
}

func (r *AttendancePostgreSQL) GetSheet(ctx context.Context, class, date string) (*models.AttendanceSheet, error) {
	var sheet models.AttendanceSheet
	err := r.db.WithContext(ctx).First(&sheet, "id = ?", models.AttendanceKey(class, date)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attendance sheet: %w", err)
	}
	return &sheet, nil
}

func (r *AttendancePostgreSQL) ListByClass(ctx context.Context, class string, limit int) ([]*models.AttendanceSheet, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var sheets []*models.AttendanceSheet
	err := r.db.WithContext(ctx).
		Where("class = ?", class).
		Order("date DESC").
		Limit(limit).
		Find(&sheets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance sheets: %w", err)
	}
	return sheets, nil
}
