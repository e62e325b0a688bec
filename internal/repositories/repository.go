package repositories

import (
	"context"

	"github.com/Rex-a25/money-biz-server/internal/models"
)

// UserRepository owns portal user rows, invite rows included.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// GradeRepository owns both gradebook shapes. Upsert replaces the row for
// the (student, subject) key; Append always inserts.
type GradeRepository interface {
	UpsertStructured(ctx context.Context, grade *models.StructuredGrade) error
	GetStructured(ctx context.Context, studentID, subject string) (*models.StructuredGrade, error)
	ListStructured(ctx context.Context, filters GradeFilters) ([]*models.StructuredGrade, error)
	AppendFreeform(ctx context.Context, grade *models.FreeformGrade) error
	ListFreeformByStudent(ctx context.Context, studentID string) ([]*models.FreeformGrade, error)
}

// AttendanceRepository stores one sheet per class per day, full-replace.
type AttendanceRepository interface {
	UpsertSheet(ctx context.Context, sheet *models.AttendanceSheet) error
	GetSheet(ctx context.Context, class, date string) (*models.AttendanceSheet, error)
	ListByClass(ctx context.Context, class string, limit int) ([]*models.AttendanceSheet, error)
}

// TransactionRepository owns finance entries.
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	Update(ctx context.Context, txn *models.Transaction) error
	List(ctx context.Context, filters TransactionFilters) ([]*models.Transaction, int64, error)
	FinanceStats(ctx context.Context) (*FinanceStats, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	List(ctx context.Context, query string) ([]*models.Customer, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// SettingsRepository holds the singleton school config row.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.SchoolConfig, error)
	Save(ctx context.Context, cfg *models.SchoolConfig) error
}

type RemarkRepository interface {
	Append(ctx context.Context, remark *models.Remark) error
	ListByStudent(ctx context.Context, studentID string) ([]*models.Remark, error)
	MarkRead(ctx context.Context, id string) error
}

// Repository aggregates all store access behind one handle.
type Repository interface {
	User() UserRepository
	Grade() GradeRepository
	Attendance() AttendanceRepository
	Transaction() TransactionRepository
	Customer() CustomerRepository
	Settings() SettingsRepository
	Remark() RemarkRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
