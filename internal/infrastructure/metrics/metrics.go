package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	Predictions         *prometheus.CounterVec
	PredictionDuration  prometheus.Histogram
	ClassifierFailures  *prometheus.CounterVec
	RuleFallbacks       prometheus.Counter
	KeywordFallbacks    prometheus.Counter
	PersistenceFailures prometheus.Counter
	URLResolutions      *prometheus.CounterVec
	RateLimited         *prometheus.CounterVec
	RecordsCleaned      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hoax",
			Name:      "predictions_total",
			Help:      "Predictions served, by label.",
		}, []string{"label"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hoax",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent in the prediction pipeline.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ClassifierFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hoax",
			Name:      "classifier_failures_total",
			Help:      "Classifier backend failures, by backend.",
		}, []string{"backend"}),
		RuleFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hoax",
			Name:      "rule_fallbacks_total",
			Help:      "Predictions answered by the rule-based classifier.",
		}),
		KeywordFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hoax",
			Name:      "keyword_fallbacks_total",
			Help:      "Keyword extractions padded by frequency ranking.",
		}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hoax",
			Name:      "persistence_failures_total",
			Help:      "Predictions that could not be stored.",
		}),
		URLResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hoax",
			Name:      "url_resolutions_total",
			Help:      "Article fetches, by outcome.",
		}, []string{"outcome"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hoax",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter, by route.",
		}, []string{"route"}),
		RecordsCleaned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hoax",
			Name:      "records_cleaned_total",
			Help:      "Rows removed by retention cleanup, by table.",
		}, []string{"table"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Predictions,
			m.PredictionDuration,
			m.ClassifierFailures,
			m.RuleFallbacks,
			m.KeywordFallbacks,
			m.PersistenceFailures,
			m.URLResolutions,
			m.RateLimited,
			m.RecordsCleaned,
		)
	}
	return m
}

// PredictionServed counts a served prediction and observes its duration
func (m *Metrics) PredictionServed(label string, took time.Duration) {
	m.Predictions.WithLabelValues(label).Inc()
	m.PredictionDuration.Observe(took.Seconds())
}

// ClassifierFailed counts a failed classifier backend call
func (m *Metrics) ClassifierFailed(backend string) {
	m.ClassifierFailures.WithLabelValues(backend).Inc()
}

func (m *Metrics) RuleFallback() {
	m.RuleFallbacks.Inc()
}

func (m *Metrics) KeywordFallback() {
	m.KeywordFallbacks.Inc()
}

func (m *Metrics) PersistenceFailed() {
	m.PersistenceFailures.Inc()
}

// URLResolved counts an article fetch by outcome
func (m *Metrics) URLResolved(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.URLResolutions.WithLabelValues(outcome).Inc()
}

// Throttled counts a request rejected by the rate limiter
func (m *Metrics) Throttled(route string) {
	m.RateLimited.WithLabelValues(route).Inc()
}

// CleanedRecords adds n removed rows for table
func (m *Metrics) CleanedRecords(table string, n int64) {
	m.RecordsCleaned.WithLabelValues(table).Add(float64(n))
}
