package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyExpense is one day's shop running costs. Mixed-case columns come from
// the legacy spreadsheet-era schema and are kept verbatim.
type DailyExpense struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Date              string          `gorm:"column:Date" json:"Date"`
	MaterialCost      decimal.Decimal `gorm:"column:material_cost;type:numeric(12,2)" json:"material_cost"`
	MiscellaneousCost decimal.Decimal `gorm:"column:miscellaneous_Cost;type:numeric(12,2)" json:"miscellaneous_Cost"`
	ChaiPaniCost      decimal.Decimal `gorm:"column:chai_pani_cost;type:numeric(12,2)" json:"chai_pani_cost"`
	Notes             string          `gorm:"column:notes" json:"notes"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Total sums the three cost buckets for the day.
func (e DailyExpense) Total() decimal.Decimal {
	return e.MaterialCost.Add(e.MiscellaneousCost).Add(e.ChaiPaniCost)
}

func (DailyExpense) TableName() string { return "Daily_Expenses" }
