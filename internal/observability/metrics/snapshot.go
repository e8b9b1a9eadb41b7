package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// FunnelSnapshot summarizes the booking funnel counters for the ops section
// of the dashboard, without requiring a Prometheus server.
type FunnelSnapshot struct {
	DraftsStarted         int64 `json:"drafts_started"`
	BookingsConfirmed     int64 `json:"bookings_confirmed"`
	SubmitConflicts       int64 `json:"submit_conflicts"`
	AvailabilityErrors    int64 `json:"availability_errors"`
	SupersededResponses   int64 `json:"superseded_responses"`
	PublicCancels         int64 `json:"public_cancels"`
	PublicCancelsRepeated int64 `json:"public_cancels_repeated"`
}

// Snapshot gathers the booking counter families from a registry.
func Snapshot(g prometheus.Gatherer) (*FunnelSnapshot, error) {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("metrics: gather: %w", err)
	}

	snap := &FunnelSnapshot{}
	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), "frontdesk_booking_") {
			continue
		}
		switch family.GetName() {
		case "frontdesk_booking_drafts_started_total":
			snap.DraftsStarted = sumCounters(family, nil)
		case "frontdesk_booking_submits_total":
			snap.BookingsConfirmed = sumCounters(family, map[string]string{"outcome": "confirmed"})
			snap.SubmitConflicts = sumCounters(family, map[string]string{"outcome": "conflict"})
		case "frontdesk_booking_availability_fetches_total":
			snap.AvailabilityErrors = sumCounters(family, map[string]string{"result": "error"})
			snap.SupersededResponses = sumCounters(family, map[string]string{"result": "superseded"})
		case "frontdesk_booking_public_cancels_total":
			snap.PublicCancels = sumCounters(family, map[string]string{"outcome": "cancelled"})
			snap.PublicCancelsRepeated = sumCounters(family, map[string]string{"outcome": "already_cancelled"})
		}
	}
	return snap, nil
}

// sumCounters totals a counter family, optionally filtered by label values.
func sumCounters(family *dto.MetricFamily, labels map[string]string) int64 {
	var total float64
metric:
	for _, m := range family.GetMetric() {
		for name, want := range labels {
			if labelValue(m, name) != want {
				continue metric
			}
		}
		if c := m.GetCounter(); c != nil {
			total += c.GetValue()
		}
	}
	return int64(total)
}

func labelValue(m *dto.Metric, name string) string {
	for _, pair := range m.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}
