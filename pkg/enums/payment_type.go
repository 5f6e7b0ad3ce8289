package enums

import "fmt"

// PaymentType distinguishes the two revenue recognition events in the ledger.
type PaymentType string

const (
	PaymentTypeAdvance PaymentType = "advance"
	PaymentTypeFinal   PaymentType = "final"
)

var validPaymentTypes = []PaymentType{
	PaymentTypeAdvance,
	PaymentTypeFinal,
}

// IsValid reports whether the value matches the canonical payment type enum.
func (p PaymentType) IsValid() bool {
	for _, candidate := range validPaymentTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentType converts the raw string to PaymentType.
func ParsePaymentType(value string) (PaymentType, error) {
	for _, candidate := range validPaymentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment type %q", value)
}
