package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkerExpense is a payout to a worker on a given date.
type WorkerExpense struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	WorkerID   *int64          `gorm:"column:worker_id" json:"worker_id"`
	WorkerName string          `gorm:"column:worker_name" json:"worker_name"`
	Date       string          `gorm:"column:date" json:"date"`
	AmountPaid decimal.Decimal `gorm:"column:Amt_Paid;type:numeric(12,2)" json:"Amt_Paid"`
	Notes      string          `gorm:"column:notes" json:"notes"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WorkerExpense) TableName() string { return "Worker_Expense" }
