package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rex-a25/money-biz-server/internal/cache"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
)

// In-memory repository doubles shared by the service tests.

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{}}
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *models.User
	for _, user := range m.users {
		if user.Email != email {
			continue
		}
		if found == nil || user.CreatedAt.Before(found.CreatedAt) {
			found = user
		}
	}
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *found
	return &copied, nil
}

func (m *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, user := range m.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		if filters.Class != nil && user.ClassAssigned != *filters.Class {
			continue
		}
		if filters.Query != "" && !strings.Contains(user.Name, filters.Query) && !strings.Contains(user.Email, filters.Query) {
			continue
		}
		copied := *user
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type mockGradeRepo struct {
	mu         sync.Mutex
	structured map[string]*models.StructuredGrade
	freeform   []*models.FreeformGrade
	nextID     uint
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{structured: map[string]*models.StructuredGrade{}}
}

func (m *mockGradeRepo) UpsertStructured(ctx context.Context, grade *models.StructuredGrade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *grade
	m.structured[grade.ID] = &copied
	return nil
}

func (m *mockGradeRepo) GetStructured(ctx context.Context, studentID, subject string) (*models.StructuredGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grade, ok := m.structured[models.GradeKey(studentID, subject)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *grade
	return &copied, nil
}

func (m *mockGradeRepo) ListStructured(ctx context.Context, filters repositories.GradeFilters) ([]*models.StructuredGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.StructuredGrade
	for _, grade := range m.structured {
		if filters.StudentID != nil && grade.StudentID != *filters.StudentID {
			continue
		}
		if filters.Class != nil && grade.Class != *filters.Class {
			continue
		}
		if filters.Subject != nil && grade.Subject != *filters.Subject {
			continue
		}
		copied := *grade
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockGradeRepo) AppendFreeform(ctx context.Context, grade *models.FreeformGrade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	copied := *grade
	copied.ID = m.nextID
	m.freeform = append(m.freeform, &copied)
	return nil
}

func (m *mockGradeRepo) ListFreeformByStudent(ctx context.Context, studentID string) ([]*models.FreeformGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.FreeformGrade
	for _, grade := range m.freeform {
		if grade.StudentID == studentID {
			copied := *grade
			out = append(out, &copied)
		}
	}
	return out, nil
}

type mockAttendanceRepo struct {
	mu     sync.Mutex
	sheets map[string]*models.AttendanceSheet
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{sheets: map[string]*models.AttendanceSheet{}}
}

func (m *mockAttendanceRepo) UpsertSheet(ctx context.Context, sheet *models.AttendanceSheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *sheet
	m.sheets[sheet.ID] = &copied
	return nil
}

func (m *mockAttendanceRepo) GetSheet(ctx context.Context, class, date string) (*models.AttendanceSheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sheet, ok := m.sheets[models.AttendanceKey(class, date)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *sheet
	return &copied, nil
}

func (m *mockAttendanceRepo) ListByClass(ctx context.Context, class string, limit int) ([]*models.AttendanceSheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.AttendanceSheet
	for _, sheet := range m.sheets {
		if sheet.Class == class {
			copied := *sheet
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockTransactionRepo struct {
	mu   sync.Mutex
	txns map[string]*models.Transaction
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{txns: map[string]*models.Transaction{}}
}

func (m *mockTransactionRepo) Create(ctx context.Context, txn *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *txn
	m.txns[txn.ID] = &copied
	return nil
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *txn
	return &copied, nil
}

func (m *mockTransactionRepo) Update(ctx context.Context, txn *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[txn.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *txn
	m.txns[txn.ID] = &copied
	return nil
}

func (m *mockTransactionRepo) List(ctx context.Context, filters repositories.TransactionFilters) ([]*models.Transaction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Transaction
	for _, txn := range m.txns {
		if filters.Type != nil && txn.Type != *filters.Type {
			continue
		}
		if filters.Status != nil && txn.Status != *filters.Status {
			continue
		}
		copied := *txn
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockTransactionRepo) FinanceStats(ctx context.Context) (*repositories.FinanceStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &repositories.FinanceStats{}
	for _, txn := range m.txns {
		switch txn.Type {
		case models.TransactionIncome:
			stats.Revenue += txn.Amount
			if txn.Status == models.TransactionPending {
				stats.Pending += txn.Amount
			}
		case models.TransactionExpense:
			stats.Expenses += txn.Amount
		}
	}
	stats.Profit = stats.Revenue - stats.Expenses
	return stats, nil
}

type mockCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*models.Customer
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: map[string]*models.Customer{}}
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *customer
	m.customers[customer.ID] = &copied
	return nil
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *customer
	return &copied, nil
}

func (m *mockCustomerRepo) List(ctx context.Context, query string) ([]*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Customer
	for _, customer := range m.customers {
		if query != "" && !strings.Contains(customer.Name, query) {
			continue
		}
		copied := *customer
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *mockCustomerRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.customers)), nil
}

type mockSettingsRepo struct {
	mu  sync.Mutex
	cfg *models.SchoolConfig
}

func (m *mockSettingsRepo) Get(ctx context.Context) (*models.SchoolConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return models.DefaultSchoolConfig(), nil
	}
	copied := *m.cfg
	return &copied, nil
}

func (m *mockSettingsRepo) Save(ctx context.Context, cfg *models.SchoolConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *cfg
	m.cfg = &copied
	return nil
}

type mockRemarkRepo struct {
	mu      sync.Mutex
	remarks []*models.Remark
}

func (m *mockRemarkRepo) Append(ctx context.Context, remark *models.Remark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *remark
	m.remarks = append(m.remarks, &copied)
	return nil
}

func (m *mockRemarkRepo) ListByStudent(ctx context.Context, studentID string) ([]*models.Remark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Remark
	for _, remark := range m.remarks {
		if remark.StudentID == studentID {
			copied := *remark
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRemarkRepo) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, remark := range m.remarks {
		if remark.ID == id {
			remark.Read = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

// mockRepository aggregates the doubles behind repositories.Repository.
type mockRepository struct {
	user        *mockUserRepo
	grade       *mockGradeRepo
	attendance  *mockAttendanceRepo
	transaction *mockTransactionRepo
	customer    *mockCustomerRepo
	settings    *mockSettingsRepo
	remark      *mockRemarkRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		user:        newMockUserRepo(),
		grade:       newMockGradeRepo(),
		attendance:  newMockAttendanceRepo(),
		transaction: newMockTransactionRepo(),
		customer:    newMockCustomerRepo(),
		settings:    &mockSettingsRepo{},
		remark:      &mockRemarkRepo{},
	}
}

func (m *mockRepository) User() repositories.UserRepository               { return m.user }
func (m *mockRepository) Grade() repositories.GradeRepository             { return m.grade }
func (m *mockRepository) Attendance() repositories.AttendanceRepository   { return m.attendance }
func (m *mockRepository) Transaction() repositories.TransactionRepository { return m.transaction }
func (m *mockRepository) Customer() repositories.CustomerRepository       { return m.customer }
func (m *mockRepository) Settings() repositories.SettingsRepository       { return m.settings }
func (m *mockRepository) Remark() repositories.RemarkRepository           { return m.remark }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// mockSessionStore is a map-backed SessionStore.
type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.SessionIdentity
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[string]*models.SessionIdentity{}}
}

func (m *mockSessionStore) Get(ctx context.Context, userID string) (*models.SessionIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if !ok {
		return nil, cache.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *mockSessionStore) Save(ctx context.Context, session *models.SessionIdentity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.UserID] = &copied
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

// mockIdentityStore records identity provisioning so tests can assert
// that failure paths never create one.
type mockIdentityStore struct {
	mu         sync.Mutex
	identities map[string]*repositories.Identity // keyed by email
	created    []string
	nextID     int
}

func newMockIdentityStore() *mockIdentityStore {
	return &mockIdentityStore{identities: map[string]*repositories.Identity{}}
}

func (m *mockIdentityStore) SignIn(ctx context.Context, email, password string) (*repositories.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	identity, ok := m.identities[email]
	if !ok {
		return nil, repositories.ErrInvalidCredential
	}
	copied := *identity
	return &copied, nil
}

func (m *mockIdentityStore) CreateIdentity(ctx context.Context, email, password, displayName string) (*repositories.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.identities[email]; ok {
		return nil, repositories.ErrEmailInUse
	}
	m.nextID++
	identity := &repositories.Identity{
		ID:          fmt.Sprintf("uid-%03d", m.nextID),
		Email:       email,
		DisplayName: displayName,
	}
	m.identities[email] = identity
	m.created = append(m.created, email)
	copied := *identity
	return &copied, nil
}

func (m *mockIdentityStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.identities[email]
	return ok, nil
}

func (m *mockIdentityStore) CreatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}
