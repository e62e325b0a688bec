package services

import (
	"context"

	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

// ===== RESPONSE DTOS =====

// SessionResponse is what the client rebuilds its UI from after login or
// any session mutation.
type SessionResponse struct {
	Session *models.SessionIdentity `json:"session"`
	Menu    []models.MenuItem       `json:"menu"`
}

// UserListResponse pairs a page of users with the unfiltered total.
type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
}

// TransactionListResponse pairs a page of entries with the total.
type TransactionListResponse struct {
	Transactions []*models.Transaction `json:"transactions"`
	Total        int64                 `json:"total"`
}

// DashboardStats is the admin overview snapshot.
type DashboardStats struct {
	Finance  *repositories.FinanceStats `json:"finance"`
	Students int64                      `json:"students"`
	Teachers int64                      `json:"teachers"`
}

// StudentResults bundles everything the results page shows for one student.
type StudentResults struct {
	Structured []*models.StructuredGrade `json:"structured"`
	Freeform   []*models.FreeformGrade   `json:"freeform"`
	Remarks    []*models.Remark          `json:"remarks"`
}

// ===== SERVICE INTERFACES =====

// AuthService covers credential sign-in and the two signup paths.
type AuthService interface {
	Login(ctx context.Context, req *validator.LoginRequest) (*SessionResponse, error)
	SignupOwner(ctx context.Context, req *validator.OwnerSignupRequest) (*SessionResponse, error)
	ActivateInvite(ctx context.Context, req *validator.InviteSignupRequest) (*SessionResponse, error)
	Logout(ctx context.Context, userID string) error
}

// SessionService owns the role overlay on top of an authenticated identity.
type SessionService interface {
	Resolve(ctx context.Context, userID string) (*SessionResponse, error)
	SetViewRole(ctx context.Context, userID string, viewRole models.UserRole) (*SessionResponse, error)
	Simulate(ctx context.Context, adminID, targetUserID string) (*SessionResponse, error)
	ExitSimulation(ctx context.Context, userID string) (*SessionResponse, error)
	CanViewPage(session *models.SessionIdentity, page models.Page) bool
}

// GradeService owns both gradebook shapes and the xlsx export.
type GradeService interface {
	SaveStructuredGrade(ctx context.Context, actor *models.SessionIdentity, req *validator.StructuredGradeRequest) (*models.StructuredGrade, error)
	GetStructuredGrade(ctx context.Context, actor *models.SessionIdentity, studentID, subject string) (*models.StructuredGrade, error)
	ListStructuredGrades(ctx context.Context, actor *models.SessionIdentity, filters repositories.GradeFilters) ([]*models.StructuredGrade, error)
	AppendFreeformGrade(ctx context.Context, actor *models.SessionIdentity, req *validator.FreeformGradeRequest) (*models.FreeformGrade, error)
	StudentResults(ctx context.Context, actor *models.SessionIdentity, studentID string) (*StudentResults, error)
	ExportGradebook(ctx context.Context, actor *models.SessionIdentity, class string) ([]byte, error)
}

// AttendanceService owns the daily class registers.
type AttendanceService interface {
	SaveSheet(ctx context.Context, actor *models.SessionIdentity, req *validator.AttendanceSaveRequest) (*models.AttendanceSheet, error)
	GetSheet(ctx context.Context, actor *models.SessionIdentity, class, date string) (*models.AttendanceSheet, error)
	ListByClass(ctx context.Context, actor *models.SessionIdentity, class string, limit int) ([]*models.AttendanceSheet, error)
}

// UserService owns account administration: invites, listing, deletion.
type UserService interface {
	InviteUser(ctx context.Context, actor *models.SessionIdentity, req *validator.InviteUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, actor *models.SessionIdentity, filters repositories.UserFilters) (*UserListResponse, error)
	DeleteUser(ctx context.Context, actor *models.SessionIdentity, id string) error
}

// TransactionService owns finance entries. Every operation is gated on the
// actor's real role, never the view role.
type TransactionService interface {
	Create(ctx context.Context, actor *models.SessionIdentity, req *validator.TransactionCreateRequest) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, actor *models.SessionIdentity, id string, req *validator.TransactionStatusRequest) (*models.Transaction, error)
	List(ctx context.Context, actor *models.SessionIdentity, filters repositories.TransactionFilters) (*TransactionListResponse, error)
}

// CustomerService owns fee-paying accounts.
type CustomerService interface {
	Create(ctx context.Context, actor *models.SessionIdentity, req *validator.CustomerCreateRequest) (*models.Customer, error)
	List(ctx context.Context, actor *models.SessionIdentity, query string) ([]*models.Customer, error)
	Delete(ctx context.Context, actor *models.SessionIdentity, id string) error
}

// SettingsService owns the school config singleton.
type SettingsService interface {
	Get(ctx context.Context) (*models.SchoolConfig, error)
	Save(ctx context.Context, actor *models.SessionIdentity, req *validator.SettingsSaveRequest) (*models.SchoolConfig, error)
}

// RemarkService owns teacher-to-student remarks.
type RemarkService interface {
	Add(ctx context.Context, actor *models.SessionIdentity, req *validator.RemarkCreateRequest) (*models.Remark, error)
	ListForStudent(ctx context.Context, actor *models.SessionIdentity, studentID string) ([]*models.Remark, error)
	MarkRead(ctx context.Context, actor *models.SessionIdentity, id string) error
}

// DashboardService serves the admin overview. It listens for change events
// and replaces its snapshot, so reads are cheap.
type DashboardService interface {
	Stats(ctx context.Context, actor *models.SessionIdentity) (*DashboardStats, error)
	Run(ctx context.Context) error
}

// ServiceManager bundles all services behind one lifecycle.
type ServiceManager interface {
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error

	Auth() AuthService
	Session() SessionService
	Grade() GradeService
	Attendance() AttendanceService
	User() UserService
	Transaction() TransactionService
	Customer() CustomerService
	Settings() SettingsService
	Remark() RemarkService
	Dashboard() DashboardService
}
