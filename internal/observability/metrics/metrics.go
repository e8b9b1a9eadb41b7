package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the public booking funnel and the
// token-gated flows.
type BookingMetrics struct {
	draftsStarted      prometheus.Counter
	submitsTotal       *prometheus.CounterVec
	availabilityTotal  *prometheus.CounterVec
	publicCancelsTotal *prometheus.CounterVec
	reschedulesTotal   *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		draftsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "booking",
			Name:      "drafts_started_total",
			Help:      "Booking wizards started",
		}),
		submitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "booking",
			Name:      "submits_total",
			Help:      "Booking submit attempts by outcome",
		}, []string{"outcome"}),
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "booking",
			Name:      "availability_fetches_total",
			Help:      "Availability fetches by result",
		}, []string{"result"}),
		publicCancelsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "booking",
			Name:      "public_cancels_total",
			Help:      "Token-gated cancellations by outcome",
		}, []string{"outcome"}),
		reschedulesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "booking",
			Name:      "reschedules_total",
			Help:      "Reschedules by flow and outcome",
		}, []string{"flow", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.draftsStarted,
		m.submitsTotal,
		m.availabilityTotal,
		m.publicCancelsTotal,
		m.reschedulesTotal,
	)
	return m
}

func (m *BookingMetrics) ObserveDraftStarted() {
	if m == nil {
		return
	}
	m.draftsStarted.Inc()
}

// ObserveSubmit records a booking submit attempt. outcome is one of
// "confirmed", "conflict", "error".
func (m *BookingMetrics) ObserveSubmit(outcome string) {
	if m == nil {
		return
	}
	m.submitsTotal.WithLabelValues(outcome).Inc()
}

// ObserveAvailability records a resolved availability fetch. result is one of
// "applied", "superseded", "error".
func (m *BookingMetrics) ObserveAvailability(result string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(result).Inc()
}

// ObservePublicCancel records a token-gated cancel. outcome is one of
// "cancelled", "already_cancelled", "invalid_link", "error".
func (m *BookingMetrics) ObservePublicCancel(outcome string) {
	if m == nil {
		return
	}
	m.publicCancelsTotal.WithLabelValues(outcome).Inc()
}

// ObserveReschedule records a reschedule. flow is "staff" or "public".
func (m *BookingMetrics) ObserveReschedule(flow, outcome string) {
	if m == nil {
		return
	}
	m.reschedulesTotal.WithLabelValues(flow, outcome).Inc()
}
