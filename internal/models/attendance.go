package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// AttendanceSheet is one class's register for one day. Records maps student
// id to status; students never marked are simply absent from the map. A save
// replaces the whole map rather than merging with what was stored before.
type AttendanceSheet struct {
	ID       string                                          `json:"id" gorm:"primaryKey;size:255"` // "<class>_<date>"
	Class    string                                          `json:"class" gorm:"not null;size:50;index"`
	Date     string                                          `json:"date" gorm:"not null;size:10;index"` // YYYY-MM-DD
	Term     string                                          `json:"term" gorm:"size:50"`
	Records  datatypes.JSONType[map[string]AttendanceStatus] `json:"records"`
	MarkedBy string                                          `json:"marked_by" gorm:"size:100"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (AttendanceSheet) TableName() string {
	return "attendance"
}

// AttendanceKey builds the upsert key for a class register on a given day.
func AttendanceKey(class, date string) string {
	return class + "_" + date
}
