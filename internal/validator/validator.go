package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Rex-a25/money-biz-server/internal/models"
)

// ValidationError describes a single failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates all failed fields of one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// Validator wraps go-playground validation with the portal's custom rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	v := validator.New()

	v.RegisterValidation("user_role", validateUserRole)
	v.RegisterValidation("attendance_status", validateAttendanceStatus)
	v.RegisterValidation("transaction_type", validateTransactionType)
	v.RegisterValidation("date_ymd", validateDateYMD)
	v.RegisterValidation("page_name", validatePageName)

	return &Validator{validate: v}
}

// Validate runs struct validation and converts failures into ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var errs ValidationErrors
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "user_role":
		return "must be one of: student, teacher, admin"
	case "attendance_status":
		return "must be one of: present, absent, late"
	case "transaction_type":
		return "must be income or expense"
	case "date_ymd":
		return "must be a date in YYYY-MM-DD format"
	case "page_name":
		return "is not a known page"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

func validateAttendanceStatus(fl validator.FieldLevel) bool {
	return models.AttendanceStatus(fl.Field().String()).Valid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	t := models.TransactionType(fl.Field().String())
	return t == models.TransactionIncome || t == models.TransactionExpense
}

func validateDateYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validatePageName(fl validator.FieldLevel) bool {
	return models.KnownPage(models.Page(fl.Field().String()))
}
