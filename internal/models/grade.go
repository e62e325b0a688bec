package models

import "time"

type LetterGrade string

const (
	GradeA LetterGrade = "A"
	GradeB LetterGrade = "B"
	GradeC LetterGrade = "C"
	GradeD LetterGrade = "D"
	GradeF LetterGrade = "F"
)

// StructuredGrade is the class gradebook record: per-component scores for
// one student in one subject. The (student_id, subject) pair is the record
// identity; saving again for the same pair replaces the previous row.
type StructuredGrade struct {
	ID          string      `json:"id" gorm:"primaryKey;size:512"` // "<student_id>_<subject>"
	StudentID   string      `json:"student_id" gorm:"not null;size:255;index"`
	StudentName string      `json:"student_name" gorm:"size:100"`
	Class       string      `json:"class" gorm:"size:50;index"`
	Subject     string      `json:"subject" gorm:"not null;size:100;index"`
	Test        float64     `json:"test"`
	Assignment  float64     `json:"assignment"`
	Exam        float64     `json:"exam"`
	Total       float64     `json:"total"`
	Grade       LetterGrade `json:"grade" gorm:"size:2"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (StructuredGrade) TableName() string {
	return "grades"
}

// GradeKey builds the upsert key for a structured grade.
func GradeKey(studentID, subject string) string {
	return studentID + "_" + subject
}

// FreeformGrade is the single-score gradebook record. There is no
// uniqueness constraint: every save appends a new row.
type FreeformGrade struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	StudentID   string    `json:"student_id" gorm:"not null;size:255;index"`
	StudentName string    `json:"student_name" gorm:"size:100"`
	Subject     string    `json:"subject" gorm:"not null;size:100"`
	Score       float64   `json:"score"`
	Feedback    string    `json:"feedback" gorm:"type:text"`
	TeacherName string    `json:"teacher_name" gorm:"size:100"`
	Term        string    `json:"term" gorm:"size:50"`
	Date        time.Time `json:"date" gorm:"index"`
}

func (FreeformGrade) TableName() string {
	return "freeform_grades"
}
