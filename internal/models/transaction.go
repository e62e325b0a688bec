package models

import (
	"time"

	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "Pending"
	TransactionCompleted TransactionStatus = "Completed"
)

// Transaction is a school finance entry. Income entries reference the
// paying customer; expenses carry only a description.
type Transaction struct {
	ID           string            `json:"id" gorm:"primaryKey;size:255"`
	Type         TransactionType   `json:"type" gorm:"not null;size:10;index"`
	Name         string            `json:"name" gorm:"size:200"`
	Description  string            `json:"description" gorm:"size:500"`
	Amount       float64           `json:"amount" gorm:"not null"`
	Status       TransactionStatus `json:"status" gorm:"size:20;default:Pending;index"`
	Note         string            `json:"note" gorm:"type:text"`
	CustomerID   *string           `json:"customer_id" gorm:"size:255;index"`
	CustomerName string            `json:"customer_name" gorm:"size:200"`
	Date         time.Time         `json:"date" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Customer is a fee-paying account (in practice, a student's household).
type Customer struct {
	ID    string `json:"id" gorm:"primaryKey;size:255"`
	Name  string `json:"name" gorm:"not null;size:200;index"`
	Email string `json:"email" gorm:"size:255"`
	Phone string `json:"phone" gorm:"size:50"`
	Class string `json:"class" gorm:"size:50"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Customer) TableName() string {
	return "customers"
}
