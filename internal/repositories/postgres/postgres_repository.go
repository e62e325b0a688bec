package postgres

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/Rex-a25/money-biz-server/internal/repositories"
)

// PostgreSQLRepository aggregates all table-level repositories over one
// gorm handle so services depend on a single repositories.Repository.
type PostgreSQLRepository struct {
	db *gorm.DB

	user        repositories.UserRepository
	grade       repositories.GradeRepository
	attendance  repositories.AttendanceRepository
	transaction repositories.TransactionRepository
	customer    repositories.CustomerRepository
	settings    repositories.SettingsRepository
	remark      repositories.RemarkRepository
}

func NewPostgreSQLRepository(db *gorm.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:          db,
		user:        NewUserPostgreSQL(db),
		grade:       NewGradePostgreSQL(db),
		attendance:  NewAttendancePostgreSQL(db),
		transaction: NewTransactionPostgreSQL(db),
		customer:    NewCustomerPostgreSQL(db),
		settings:    NewSettingsPostgreSQL(db),
		remark:      NewRemarkPostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository               { return r.user }
func (r *PostgreSQLRepository) Grade() repositories.GradeRepository             { return r.grade }
func (r *PostgreSQLRepository) Attendance() repositories.AttendanceRepository   { return r.attendance }
func (r *PostgreSQLRepository) Transaction() repositories.TransactionRepository { return r.transaction }
func (r *PostgreSQLRepository) Customer() repositories.CustomerRepository       { return r.customer }
func (r *PostgreSQLRepository) Settings() repositories.SettingsRepository       { return r.settings }
func (r *PostgreSQLRepository) Remark() repositories.RemarkRepository           { return r.remark }

// WithTransaction runs fn against a repository bound to a database
// transaction. Any error from fn rolls the whole unit back.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPostgreSQLRepository(tx))
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database handle: %w", err)
	}
	return sqlDB.Close()
}

// ===== REPOSITORY MANAGER =====

type RepositoryManagerConfig struct {
	DB *gorm.DB
}

type repositoryManager struct {
	mu         sync.RWMutex
	config     RepositoryManagerConfig
	repository *PostgreSQLRepository
}

func NewRepositoryManager(config RepositoryManagerConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config.DB == nil {
		return fmt.Errorf("database handle is required")
	}
	m.repository = NewPostgreSQLRepository(m.config.DB)
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.repository
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.repository == nil {
		return fmt.Errorf("repository not initialized")
	}
	return m.repository.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.repository == nil {
		return nil
	}
	err := m.repository.Close()
	m.repository = nil
	return err
}
