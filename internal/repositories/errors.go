package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by point reads that match nothing.
var ErrNotFound = errors.New("record not found")

// Identity store failure classes. The user-facing messages for these live
// in the handlers; services only branch on the class.
var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrTooManyRequests   = errors.New("too many requests")
	ErrEmailInUse        = errors.New("email already in use")
)

// IsNotFoundError reports whether err means "no such record", from either
// this package or gorm directly.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
