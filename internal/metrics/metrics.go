// Package metrics holds the Prometheus collectors exported by the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes recorded by PasswordsGenerated.
const (
	ResultOK         = "ok"
	ResultEmptyPool  = "empty_pool"
	ResultOutOfRange = "out_of_range"
	ResultError      = "error"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	PasswordsGenerated *prometheus.CounterVec
	PasswordLength     prometheus.Histogram
	ThemeChanges       *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PasswordsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "passgen",
			Name:      "passwords_generated_total",
			Help:      "Password generation attempts by result.",
		}, []string{"result"}),
		PasswordLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "passgen",
			Name:      "password_length",
			Help:      "Length of generated passwords.",
			Buckets:   prometheus.LinearBuckets(4, 4, 8),
		}),
		ThemeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "passgen",
			Name:      "theme_changes_total",
			Help:      "Saved theme preferences by theme.",
		}, []string{"theme"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "passgen",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status class.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.PasswordsGenerated, m.PasswordLength, m.ThemeChanges, m.RequestDuration)
	return m
}

// ObserveGeneration records one generation attempt.
func (m *Metrics) ObserveGeneration(result string, length int) {
	if m == nil {
		return
	}
	m.PasswordsGenerated.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.PasswordLength.Observe(float64(length))
	}
}

// ObserveThemeChange records a saved theme.
func (m *Metrics) ObserveThemeChange(theme string) {
	if m == nil {
		return
	}
	m.ThemeChanges.WithLabelValues(theme).Inc()
}
