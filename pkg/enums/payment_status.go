package enums

import (
	"fmt"
	"strings"
)

// PaymentStatus is the canonical payment state of an order. Legacy rows carry
// arbitrary casing ("Paid", "PENDING"), so comparisons go through Normalize.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
}

// Normalize lower-cases the raw column value for comparison.
func NormalizePaymentStatus(value string) PaymentStatus {
	return PaymentStatus(strings.ToLower(strings.TrimSpace(value)))
}

// IsValid reports whether the value matches the canonical payment status enum.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts the raw string to PaymentStatus, case-insensitively.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	normalized := NormalizePaymentStatus(value)
	for _, candidate := range validPaymentStatuses {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
