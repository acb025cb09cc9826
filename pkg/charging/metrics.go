package charging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Charge outcomes, used as the "outcome" metric label.
const (
	outcomeAccepted   = "accepted"
	outcomeTruncated  = "truncated"
	outcomeRejected   = "rejected"
	outcomeNoop       = "noop"
	outcomeNotMetered = "not_metered"
)

// Metrics contains Prometheus metrics for the charging package.
type Metrics struct {
	// Charge calls
	chargeCalls  *prometheus.CounterVec
	chargedUnits *prometheus.CounterVec
	chargedUSD   *prometheus.CounterVec

	// Budget state
	budgetUsage prometheus.Gauge

	// External reporting
	reportFailures *prometheus.CounterVec

	// Push truncation
	pushTruncations *prometheus.CounterVec

	// Charge latency
	chargeDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with Prometheus collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		chargeCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tollgate_charging_calls_total",
				Help: "Total number of charge calls by event and outcome",
			},
			[]string{"event_name", "outcome"},
		),

		chargedUnits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tollgate_charging_units_total",
				Help: "Total number of event occurrences accepted for charging",
			},
			[]string{"event_name"},
		),

		chargedUSD: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tollgate_charging_usd_total",
				Help: "Total USD charged, approximated as float for observability",
			},
			[]string{"event_name"},
		),

		budgetUsage: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tollgate_charging_budget_usage_ratio",
				Help: "Charged total as a fraction of the maximum total charge (0.0-1.0)",
			},
		),

		reportFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tollgate_charging_report_failures_total",
				Help: "Total number of failed charge reports to the platform",
			},
			[]string{"event_name"},
		),

		pushTruncations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tollgate_charging_push_truncations_total",
				Help: "Total number of pushes truncated by the remaining budget",
			},
			[]string{"event_name"},
		),

		chargeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tollgate_charging_charge_duration_seconds",
				Help:    "Duration of charge calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),
	}
}

// RecordCharge records the outcome of a charge call.
func (m *Metrics) RecordCharge(eventName, outcome string, units int64, usd float64) {
	m.chargeCalls.WithLabelValues(eventName, outcome).Inc()
	if units > 0 {
		m.chargedUnits.WithLabelValues(eventName).Add(float64(units))
		m.chargedUSD.WithLabelValues(eventName).Add(usd)
	}
}

// UpdateBudgetUsage updates the budget usage ratio.
func (m *Metrics) UpdateBudgetUsage(ratio float64) {
	m.budgetUsage.Set(ratio)
}

// RecordReportFailure records a failed charge report.
func (m *Metrics) RecordReportFailure(eventName string) {
	m.reportFailures.WithLabelValues(eventName).Inc()
}

// RecordPushTruncation records a push limited by the remaining budget.
func (m *Metrics) RecordPushTruncation(eventName string) {
	m.pushTruncations.WithLabelValues(eventName).Inc()
}

// RecordChargeDuration records the duration of a charge call.
func (m *Metrics) RecordChargeDuration(seconds float64) {
	m.chargeDuration.Observe(seconds)
}
