package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
)

// RevenueEntry is one immutable row in the revenue_tracking ledger. Advance
// entries are recognized on the bill's creation date; final entries on the day
// the order's payment status flipped to paid. Rows are never updated or
// deleted in normal operation.
type RevenueEntry struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID              int64             `gorm:"column:order_id;not null" json:"order_id"`
	BillID               *int64            `gorm:"column:bill_id" json:"bill_id"`
	CustomerName         string            `gorm:"column:customer_name" json:"customer_name"`
	PaymentType          enums.PaymentType `gorm:"column:payment_type;not null" json:"payment_type"`
	Amount               decimal.Decimal   `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	TotalBillAmount      decimal.Decimal   `gorm:"column:total_bill_amount;type:numeric(12,2)" json:"total_bill_amount"`
	RemainingBalance     decimal.Decimal   `gorm:"column:remaining_balance;type:numeric(12,2)" json:"remaining_balance"`
	PaymentDate          string            `gorm:"column:payment_date;not null" json:"payment_date"`
	RecordedAt           time.Time         `gorm:"column:recorded_at;autoCreateTime" json:"recorded_at"`
	Status               string            `gorm:"column:status;default:'completed'" json:"status"`
	AdvancePaymentAmount *decimal.Decimal  `gorm:"column:advance_payment_amount;type:numeric(12,2)" json:"advance_payment_amount,omitempty"`
	Notes                string            `gorm:"column:notes" json:"notes"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RevenueEntry) TableName() string { return "revenue_tracking" }
