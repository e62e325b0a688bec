package validator

import "github.com/Rex-a25/money-biz-server/internal/models"

// LoginRequest is the credential sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OwnerSignupRequest creates the founding admin account. The license code
// is checked before any identity is provisioned.
type OwnerSignupRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	SchoolName  string `json:"school_name" validate:"required,min=2,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	LicenseCode string `json:"license_code" validate:"required"`
}

// InviteSignupRequest activates a pre-created invite row.
type InviteSignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// InviteUserRequest is an admin pre-creating a staff or student account.
type InviteUserRequest struct {
	Name          string          `json:"name" validate:"required,min=2,max=100"`
	Email         string          `json:"email" validate:"required,email"`
	Role          models.UserRole `json:"role" validate:"required,user_role"`
	ClassAssigned string          `json:"class_assigned" validate:"omitempty,max=50"`
	SchoolName    string          `json:"school_name" validate:"omitempty,max=200"`
	Title         string          `json:"title" validate:"omitempty,max=100"`
}

// StructuredGradeRequest carries raw score text from the gradebook grid.
// Components are strings on purpose: non-numeric input coerces to zero
// rather than rejecting the whole row.
type StructuredGradeRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	Subject    string `json:"subject" validate:"required,max=100"`
	Test       string `json:"test"`
	Assignment string `json:"assignment"`
	Exam       string `json:"exam"`
}

// FreeformGradeRequest appends one freeform gradebook entry.
type FreeformGradeRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Subject   string `json:"subject" validate:"required,max=100"`
	Score     string `json:"score" validate:"required"`
	Feedback  string `json:"feedback" validate:"omitempty,max=2000"`
	Term      string `json:"term" validate:"omitempty,max=100"`
}

// AttendanceSaveRequest replaces the whole sheet for one class and date.
type AttendanceSaveRequest struct {
	Class   string                             `json:"class" validate:"required,max=50"`
	Date    string                             `json:"date" validate:"required,date_ymd"`
	Term    string                             `json:"term" validate:"omitempty,max=100"`
	Records map[string]models.AttendanceStatus `json:"records" validate:"required,dive,attendance_status"`
}

// TransactionCreateRequest records one finance entry.
type TransactionCreateRequest struct {
	Type         models.TransactionType `json:"type" validate:"required,transaction_type"`
	Name         string                 `json:"name" validate:"required,max=200"`
	Description  string                 `json:"description" validate:"omitempty,max=500"`
	Amount       float64                `json:"amount" validate:"required,gt=0"`
	Note         string                 `json:"note" validate:"omitempty,max=2000"`
	CustomerID   *string                `json:"customer_id"`
	CustomerName string                 `json:"customer_name" validate:"omitempty,max=200"`
	Date         string                 `json:"date" validate:"omitempty,date_ymd"`
}

// TransactionStatusRequest flips an entry between Pending and Completed,
// optionally amending the note or date in the same edit.
type TransactionStatusRequest struct {
	Status models.TransactionStatus `json:"status" validate:"required,oneof=Pending Completed"`
	Note   *string                  `json:"note" validate:"omitempty,max=2000"`
	Date   *string                  `json:"date" validate:"omitempty,date_ymd"`
}

// CustomerCreateRequest adds a fee-paying account.
type CustomerCreateRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=50"`
	Class string `json:"class" validate:"omitempty,max=50"`
}

// SettingsSaveRequest replaces the school config singleton.
type SettingsSaveRequest struct {
	Classes     []string `json:"classes" validate:"required,min=1,dive,required,max=50"`
	Subjects    []string `json:"subjects" validate:"required,min=1,dive,required,max=100"`
	CurrentTerm string   `json:"current_term" validate:"required,max=100"`
}

// RemarkCreateRequest appends a teacher-to-student remark.
type RemarkCreateRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Message   string `json:"message" validate:"required,max=2000"`
}

// ViewRoleRequest toggles the admin preview role.
type ViewRoleRequest struct {
	ViewRole models.UserRole `json:"view_role" validate:"required,user_role"`
}

// SimulateRequest starts viewing the portal as another user.
type SimulateRequest struct {
	UserID string `json:"user_id" validate:"required"`
}
