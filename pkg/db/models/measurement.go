package models

import "time"

// Measurement stores a customer's recorded sizes, looked up by mobile number.
// The measurement blobs are free-form text the tailors fill in.
type Measurement struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PhoneNumber       string    `gorm:"column:phone_number;not null" json:"phone_number"`
	CustomerName      string    `gorm:"column:customer_name" json:"customer_name"`
	PantMeasurements  string    `gorm:"column:pant_measurements" json:"pant_measurements"`
	ShirtMeasurements string    `gorm:"column:shirt_measurements" json:"shirt_measurements"`
	ExtraMeasurements string    `gorm:"column:extra_measurements" json:"extra_measurements"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Measurement) TableName() string { return "measurements" }
