package metrics

import "github.com/prometheus/client_golang/prometheus"

// LedgerMetrics counts revenue ledger activity and the failure modes that are
// deliberately swallowed (best-effort writes, legacy fallback) so they stay
// visible on a dashboard even though they never surface as request errors.
type LedgerMetrics struct {
	entriesWritten  *prometheus.CounterVec
	writeFailures   *prometheus.CounterVec
	legacyFallbacks prometheus.Counter
	repairedEntries prometheus.Counter
	anomalies       *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	entriesWritten := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_ledger_entries_written",
		Help: "Ledger entries written, by payment type.",
	}, []string{"payment_type"})
	writeFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_ledger_write_failures",
		Help: "Best-effort ledger writes that failed, by payment type.",
	}, []string{"payment_type"})
	legacyFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "profit_legacy_fallbacks",
		Help: "Profit calculations served by the legacy path because the ledger was unavailable.",
	})
	repairedEntries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revenue_ledger_repaired_entries",
		Help: "Advance entries synthesized retroactively for pre-ledger orders.",
	})
	anomalies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_ledger_anomalies",
		Help: "Data-quality anomalies coerced to safe defaults, by kind.",
	}, []string{"kind"})
	reg.MustRegister(entriesWritten, writeFailures, legacyFallbacks, repairedEntries, anomalies)
	return &LedgerMetrics{
		entriesWritten:  entriesWritten,
		writeFailures:   writeFailures,
		legacyFallbacks: legacyFallbacks,
		repairedEntries: repairedEntries,
		anomalies:       anomalies,
	}
}

// IncEntryWritten counts a successful ledger append.
func (m *LedgerMetrics) IncEntryWritten(paymentType string) {
	if m == nil || m.entriesWritten == nil {
		return
	}
	m.entriesWritten.WithLabelValues(paymentType).Inc()
}

// IncWriteFailure counts a swallowed ledger write error.
func (m *LedgerMetrics) IncWriteFailure(paymentType string) {
	if m == nil || m.writeFailures == nil {
		return
	}
	m.writeFailures.WithLabelValues(paymentType).Inc()
}

// IncLegacyFallback counts a calculation that fell back to the legacy path.
func (m *LedgerMetrics) IncLegacyFallback() {
	if m == nil || m.legacyFallbacks == nil {
		return
	}
	m.legacyFallbacks.Inc()
}

// IncRepairedEntry counts a retroactively synthesized advance entry.
func (m *LedgerMetrics) IncRepairedEntry() {
	if m == nil || m.repairedEntries == nil {
		return
	}
	m.repairedEntries.Inc()
}

// IncAnomaly counts a coerced data-quality anomaly such as an overpayment.
func (m *LedgerMetrics) IncAnomaly(kind string) {
	if m == nil || m.anomalies == nil {
		return
	}
	m.anomalies.WithLabelValues(kind).Inc()
}
