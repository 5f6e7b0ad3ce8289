package enums

// CalculationMethod marks which path produced a profit summary.
type CalculationMethod string

const (
	CalculationMethodTwoStage CalculationMethod = "two_stage"
	CalculationMethodLegacy   CalculationMethod = "legacy"
)
