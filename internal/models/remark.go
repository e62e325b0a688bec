package models

import "time"

// Remark is a teacher-to-student message. Append-only.
type Remark struct {
	ID          string    `json:"id" gorm:"primaryKey;size:512"`
	StudentID   string    `json:"student_id" gorm:"not null;size:255;index"`
	StudentName string    `json:"student_name" gorm:"size:100"`
	TeacherName string    `json:"teacher_name" gorm:"size:100"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	Read        bool      `json:"read" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Remark) TableName() string {
	return "remarks"
}
