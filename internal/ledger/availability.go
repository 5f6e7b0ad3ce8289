package ledger

// Availability is the result of probing for the revenue_tracking table. Every
// profit calculation dispatches on it exactly once, so a calculation never
// mixes ledger sums with legacy sums.
type Availability int

const (
	// AvailabilityUnknown means no probe has run yet.
	AvailabilityUnknown Availability = iota
	// AvailabilityAvailable means the ledger table exists and can be queried.
	AvailabilityAvailable
	// AvailabilityUnavailable means the table is missing or the probe failed.
	AvailabilityUnavailable
)

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}
