package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
)

type RemarkPostgreSQL struct {
	db *gorm.DB
}

func NewRemarkPostgreSQL(db *gorm.DB) repositories.RemarkRepository {
	return &RemarkPostgreSQL{db: db}
}

func (r *RemarkPostgreSQL) Append(ctx context.Context, remark *models.Remark) error {
	if err := r.db.WithContext(ctx).Create(remark).Error; err != nil {
		return fmt.Errorf("failed to append remark: %w", err)
	}
	return nil
}

func (r *RemarkPostgreSQL) ListByStudent(ctx context.Context, studentID string) ([]*models.Remark, error) {
	var remarks []*models.Remark
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&remarks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list remarks: %w", err)
	}
	return remarks, nil
}

func (r *RemarkPostgreSQL) MarkRead(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Remark{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark remark read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
