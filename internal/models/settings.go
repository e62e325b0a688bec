package models

import (
	"time"

	"gorm.io/datatypes"
)

// SchoolConfigID is the fixed key of the singleton settings row.
const SchoolConfigID = "schoolConfig"

// SchoolConfig is the school-wide singleton: class list, subject list and
// the current academic term. Saves are full replaces.
type SchoolConfig struct {
	ID          string                      `json:"id" gorm:"primaryKey;size:50"`
	Classes     datatypes.JSONSlice[string] `json:"classes"`
	Subjects    datatypes.JSONSlice[string] `json:"subjects"`
	CurrentTerm string                      `json:"current_term" gorm:"size:100"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (SchoolConfig) TableName() string {
	return "settings"
}

// DefaultSchoolConfig mirrors the defaults the portal shipped with, used
// when no settings row has been saved yet.
func DefaultSchoolConfig() *SchoolConfig {
	return &SchoolConfig{
		ID:          SchoolConfigID,
		Classes:     datatypes.NewJSONSlice([]string{"JSS 1", "JSS 2", "JSS 3", "SSS 1", "SSS 2", "SSS 3"}),
		Subjects:    datatypes.NewJSONSlice([]string{"Mathematics", "English", "Physics", "Biology"}),
		CurrentTerm: "First Term 2025/2026",
	}
}
