package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Worker is a tailor on the shop's payroll. The per-garment columns carry the
// stitching rate for that garment; Rate is the fallback for everything else.
type Worker struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"column:name;not null" json:"name"`
	MobileNumber string          `gorm:"column:mobile_number" json:"mobile_number"`
	Rate         decimal.Decimal `gorm:"column:Rate;type:numeric(12,2)" json:"Rate"`
	SuitRate     decimal.Decimal `gorm:"column:Suit;type:numeric(12,2)" json:"Suit"`
	JacketRate   decimal.Decimal `gorm:"column:Jacket;type:numeric(12,2)" json:"Jacket"`
	SadriRate    decimal.Decimal `gorm:"column:Sadri;type:numeric(12,2)" json:"Sadri"`
	JoinedAt     string          `gorm:"column:joined_at" json:"joined_at"`
	IsActive     bool            `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// RateFor returns the stitching rate for the given garment type.
func (w Worker) RateFor(garmentType string) decimal.Decimal {
	switch garmentType {
	case "Suit":
		if !w.SuitRate.IsZero() {
			return w.SuitRate
		}
	case "Jacket":
		if !w.JacketRate.IsZero() {
			return w.JacketRate
		}
	case "Sadri":
		if !w.SadriRate.IsZero() {
			return w.SadriRate
		}
	}
	return w.Rate
}

func (Worker) TableName() string { return "workers" }

// WorkerAssignment links a worker to an order they are stitching.
type WorkerAssignment struct {
	ID       int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID  int64 `gorm:"column:order_id;not null" json:"order_id"`
	WorkerID int64 `gorm:"column:worker_id;not null" json:"worker_id"`
}

func (WorkerAssignment) TableName() string { return "order_worker_association" }
