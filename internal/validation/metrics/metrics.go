package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation module.
type Metrics struct {
	// Submission outcomes by status
	SubmissionOutcome *prometheus.CounterVec

	// Findings by severity and category
	Findings *prometheus.CounterVec

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram

	// Drivers per submission
	DriversPerSubmission prometheus.Histogram
}

// New creates a new Metrics instance with all validation module metrics registered.
func New() *Metrics {
	return &Metrics{
		SubmissionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteguard_submission_outcomes_total",
			Help: "Total submission validation outcomes by status",
		}, []string{"status"}),

		Findings: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteguard_findings_total",
			Help: "Total findings produced by severity and category",
		}, []string{"severity", "category"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "quoteguard_evaluate_duration_seconds",
			Help:    "Duration of full submission evaluation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		DriversPerSubmission: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "quoteguard_drivers_per_submission",
			Help:    "Number of drivers per validated submission",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 20},
		}),
	}
}

// IncrementOutcome records a submission outcome.
func (m *Metrics) IncrementOutcome(status string) {
	if m != nil {
		m.SubmissionOutcome.WithLabelValues(status).Inc()
	}
}

// IncrementFinding records one finding.
func (m *Metrics) IncrementFinding(severity, category string) {
	if m != nil {
		m.Findings.WithLabelValues(severity, category).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// ObserveDriverCount records the submission's driver count.
func (m *Metrics) ObserveDriverCount(n int) {
	if m != nil {
		m.DriversPerSubmission.Observe(float64(n))
	}
}
