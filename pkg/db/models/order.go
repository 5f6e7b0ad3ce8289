package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
)

// Order is one garment inside a bill. Column names follow the legacy shop
// schema (billnumberinput2, total_amt, Work_pay) that the mobile clients and
// historical rows already use.
type Order struct {
	ID            int64                `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BillID        *int64               `gorm:"column:bill_id" json:"bill_id"`
	BillNumber    int64                `gorm:"column:billnumberinput2" json:"billnumberinput2"`
	CustomerName  string               `gorm:"column:customer_name" json:"customer_name"`
	GarmentType   string               `gorm:"column:garment_type" json:"garment_type"`
	Status        enums.DeliveryStatus `gorm:"column:status;default:'pending'" json:"status"`
	PaymentMode   string               `gorm:"column:payment_mode" json:"payment_mode"`
	PaymentStatus string               `gorm:"column:payment_status;default:'pending'" json:"payment_status"`
	TotalAmount   decimal.Decimal      `gorm:"column:total_amt;type:numeric(12,2)" json:"total_amt"`
	AdvanceAmount decimal.Decimal      `gorm:"column:payment_amount;type:numeric(12,2)" json:"payment_amount"`
	WorkPay       decimal.Decimal      `gorm:"column:Work_pay;type:numeric(12,2)" json:"Work_pay"`
	OrderDate     string               `gorm:"column:order_date" json:"order_date"`
	DueDate       string               `gorm:"column:due_date" json:"due_date"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// IsPaid compares the raw payment_status case-insensitively, matching how
// legacy rows were written ("Paid", "PAID", "paid" all count).
func (o Order) IsPaid() bool {
	return enums.NormalizePaymentStatus(o.PaymentStatus) == enums.PaymentStatusPaid
}

// RemainingBalance is total_amt minus the advance already collected. Negative
// values (overpayment) are reported as-is; callers clamp to zero for revenue.
func (o Order) RemainingBalance() decimal.Decimal {
	return o.TotalAmount.Sub(o.AdvanceAmount)
}

func (Order) TableName() string { return "orders" }
