package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
)

type TransactionPostgreSQL struct {
	db *gorm.DB
}

func NewTransactionPostgreSQL(db *gorm.DB) repositories.TransactionRepository {
	return &TransactionPostgreSQL{db: db}
}

func (r *TransactionPostgreSQL) Create(ctx context.Context, txn *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionPostgreSQL) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *TransactionPostgreSQL) Update(ctx context.Context, txn *models.Transaction) error {
	// Select the mutable columns explicitly so zero values (e.g. a note
	// cleared to "") are written instead of skipped.
	result := r.db.WithContext(ctx).Model(txn).Where("id = ?", txn.ID).
		Select("status", "note", "date").Updates(txn)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *TransactionPostgreSQL) List(ctx context.Context, filters repositories.TransactionFilters) ([]*models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})

	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}
	if filters.Query != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txns []*models.Transaction
	query = applyPagination(query.Order("date DESC"), filters.Limit, filters.Offset)
	if err := query.Find(&txns).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txns, total, nil
}

// FinanceStats aggregates the admin dashboard snapshot in one round trip
// per figure. Revenue sums all income, pending only income still Pending,
// profit is revenue minus expenses.
func (r *TransactionPostgreSQL) FinanceStats(ctx context.Context) (*repositories.FinanceStats, error) {
	stats := &repositories.FinanceStats{}

	sum := func(dest *float64, conds string, args ...interface{}) error {
		return r.db.WithContext(ctx).
			Model(&models.Transaction{}).
			Where(conds, args...).
			Select("COALESCE(SUM(amount), 0)").
			Scan(dest).Error
	}

	if err := sum(&stats.Revenue, "type = ?", models.TransactionIncome); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if err := sum(&stats.Pending, "type = ? AND status = ?", models.TransactionIncome, models.TransactionPending); err != nil {
		return nil, fmt.Errorf("failed to sum pending income: %w", err)
	}
	if err := sum(&stats.Expenses, "type = ?", models.TransactionExpense); err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}
	stats.Profit = stats.Revenue - stats.Expenses

	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&stats.Customers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	return stats, nil
}
