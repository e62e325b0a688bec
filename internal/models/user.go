package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// ValidRoles lists every role the portal knows about. New roles must be
// added to the page-gating and menu tables before anything renders for them.
var ValidRoles = []UserRole{RoleAdmin, RoleTeacher, RoleStudent}

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	// UserPending marks an invite row created by an admin before the
	// invitee has an authenticated identity.
	UserPending UserStatus = "pending"
	UserActive  UserStatus = "active"
)

// User is a portal account. Invite rows carry a synthetic uuid ID and
// status=pending; activation inserts a second row keyed by the identity
// provider's uid while the invite row is left in place.
type User struct {
	ID            string     `json:"id" gorm:"primaryKey;size:255"`
	Name          string     `json:"name" gorm:"not null;size:100"`
	Email         string     `json:"email" gorm:"index;not null;size:255"`
	Role          UserRole   `json:"role" gorm:"not null;size:20;index"`
	ClassAssigned string     `json:"class_assigned" gorm:"size:50;index"`
	SchoolName    string     `json:"school_name" gorm:"size:200"`
	Status        UserStatus `json:"status" gorm:"size:20;default:pending"`
	Title         string     `json:"title" gorm:"size:100"`

	ActivatedAt *time.Time `json:"activated_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
