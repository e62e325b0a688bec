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

type GradePostgreSQL struct {
	db *gorm.DB
}

func NewGradePostgreSQL(db *gorm.DB) repositories.GradeRepository {
	return &GradePostgreSQL{db: db}
}

// UpsertStructured writes the full grade row keyed by "<student_id>_<subject>".
// A record for the same student and subject is replaced, never duplicated.
func (r *GradePostgreSQL) UpsertStructured(ctx context.Context, grade *models.StructuredGrade) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(grade).Error
	if err != nil {
		return fmt.Errorf("failed to upsert grade: %w", err)
	}
	return nil
}

func (r *GradePostgreSQL) GetStructured(ctx context.Context, studentID, subject string) (*models.StructuredGrade, error) {
	var grade models.StructuredGrade
	err := r.db.WithContext(ctx).First(&grade, "id = ?", models.GradeKey(studentID, subject)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	return &grade, nil
}

func (r *GradePostgreSQL) ListStructured(ctx context.Context, filters repositories.GradeFilters) ([]*models.StructuredGrade, error) {
	query := r.db.WithContext(ctx).Model(&models.StructuredGrade{})

	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Class != nil {
		query = query.Where("class = ?", *filters.Class)
	}
	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}

	var grades []*models.StructuredGrade
	if err := query.Order("student_name ASC, subject ASC").Find(&grades).Error; err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

func (r *GradePostgreSQL) AppendFreeform(ctx context.Context, grade *models.FreeformGrade) error {
	if err := r.db.WithContext(ctx).Create(grade).Error; err != nil {
		return fmt.Errorf("failed to append freeform grade: %w", err)
	}
	return nil
}

func (r *GradePostgreSQL) ListFreeformByStudent(ctx context.Context, studentID string) ([]*models.FreeformGrade, error) {
	var grades []*models.FreeformGrade
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC, id DESC").
		Find(&grades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list freeform grades: %w", err)
	}
	return grades, nil
}
