package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics records outcomes of booking engine operations.
type BookingMetrics struct {
	duration    *prometheus.HistogramVec
	creations   *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewBookingMetrics registers the booking engine metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "booking_operation_duration_seconds",
		Help:    "Duration of booking engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	creations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_creations_total",
		Help: "Booking creation attempts by outcome.",
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Booking status transitions by target status.",
	}, []string{"status"})
	reg.MustRegister(duration, creations, transitions)
	return &BookingMetrics{
		duration:    duration,
		creations:   creations,
		transitions: transitions,
	}
}

// ObserveDuration records the duration for the named operation.
func (b *BookingMetrics) ObserveDuration(operation string, duration time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	b.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncCreation increments the creation counter for the given outcome.
func (b *BookingMetrics) IncCreation(outcome string) {
	if b == nil || b.creations == nil {
		return
	}
	b.creations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncTransition increments the transition counter for the target status.
func (b *BookingMetrics) IncTransition(status string) {
	if b == nil || b.transitions == nil {
		return
	}
	b.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
