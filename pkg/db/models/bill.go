package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill aggregates the garments a customer ordered in one visit.
type Bill struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BillNumber   int64           `gorm:"column:billnumberinput2" json:"billnumberinput2"`
	CustomerName string          `gorm:"column:customer_name" json:"customer_name"`
	MobileNumber string          `gorm:"column:mobile_number" json:"mobile_number"`
	TotalAmount  decimal.Decimal `gorm:"column:total_amt;type:numeric(12,2)" json:"total_amt"`
	IssueDate    string          `gorm:"column:today_date" json:"today_date"`
	DueDate      string          `gorm:"column:due_date" json:"due_date"`
	Status       string          `gorm:"column:bill_status;default:'active'" json:"bill_status"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Bill) TableName() string { return "bills" }

// BillCounter is the single-row monotonic bill number allocator.
type BillCounter struct {
	ID         int64 `gorm:"column:id;primaryKey;autoIncrement"`
	BillNumber int64 `gorm:"column:billno"`
}

func (BillCounter) TableName() string { return "billno" }
