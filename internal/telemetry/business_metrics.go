package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes used as the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

// BusinessMetrics holds Prometheus metrics for the lookup and address book flows.
// A nil *BusinessMetrics is valid and records nothing.
type BusinessMetrics struct {
	// Lookups
	LookupRequests *prometheus.CounterVec
	LookupResults  prometheus.Histogram
	LookupLatency  *prometheus.HistogramVec

	// Address book
	EntriesAdded    prometheus.Counter
	EntriesRejected *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
}

// NewBusinessMetrics creates the business metrics and registers them with reg.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "addressbook"
	}

	subsystem := "business"
	factory := promauto.With(reg)

	return &BusinessMetrics{
		// =======================================================================
		// Lookups
		// =======================================================================
		LookupRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "lookup_requests_total",
				Help:      "Total address lookups by outcome",
			},
			[]string{"outcome"}, // ok, invalid, not_found, unavailable
		),
		LookupResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "lookup_results",
				Help:      "Number of candidate addresses returned by successful lookups",
				Buckets:   []float64{1, 2, 3, 5, 10},
			},
		),
		LookupLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "lookup_duration_seconds",
				Help:      "Address lookup duration including the artificial delay",
				Buckets:   []float64{.001, .01, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"outcome"},
		),

		// =======================================================================
		// Address book
		// =======================================================================
		EntriesAdded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "addressbook_entries_added_total",
				Help:      "Total entries appended to session address books",
			},
		),
		EntriesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "addressbook_entries_rejected_total",
				Help:      "Address book submissions rejected before storage",
			},
			[]string{"reason"}, // domain error code: invalid, not_found
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_sessions",
				Help:      "Browser sessions currently holding an address book",
			},
		),
	}
}

// ObserveLookup records one finished lookup.
func (m *BusinessMetrics) ObserveLookup(outcome string, results int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.LookupRequests.WithLabelValues(outcome).Inc()
	m.LookupLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.LookupResults.Observe(float64(results))
	}
}

// EntryAdded records a stored address book entry.
func (m *BusinessMetrics) EntryAdded() {
	if m == nil {
		return
	}
	m.EntriesAdded.Inc()
}

// EntryRejected records a refused address book submission.
func (m *BusinessMetrics) EntryRejected(reason string) {
	if m == nil {
		return
	}
	m.EntriesRejected.WithLabelValues(reason).Inc()
}

// SetActiveSessions reports the current session count.
func (m *BusinessMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
