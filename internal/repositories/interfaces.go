package repositories

import (
	"time"

	"github.com/Rex-a25/money-biz-server/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Class  *string          `json:"class"`
	Query  string           `json:"query"` // matches name or email
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type TransactionFilters struct {
	Type     *models.TransactionType   `json:"type"`
	Status   *models.TransactionStatus `json:"status"`
	DateFrom *time.Time                `json:"date_from"`
	DateTo   *time.Time                `json:"date_to"`
	Query    string                    `json:"query"` // matches name
	Limit    int                       `json:"limit"`
	Offset   int                       `json:"offset"`
}

type GradeFilters struct {
	StudentID *string `json:"student_id"`
	Class     *string `json:"class"`
	Subject   *string `json:"subject"`
	Term      *string `json:"term"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// FinanceStats is the admin dashboard money snapshot. Pending counts only
// income entries still marked Pending; profit is income minus expenses.
type FinanceStats struct {
	Revenue   float64 `json:"revenue"`
	Pending   float64 `json:"pending"`
	Expenses  float64 `json:"expenses"`
	Profit    float64 `json:"profit"`
	Customers int64   `json:"customers"`
}
