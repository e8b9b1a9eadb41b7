package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/careops/frontdesk/internal/availability"
	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/internal/observability/metrics"
	"github.com/careops/frontdesk/internal/wizard"
	"github.com/careops/frontdesk/pkg/logging"
)

// PublicLinkHandler serves the cancel and reschedule pages reached from
// confirmation emails. Access is granted by the booking id plus its link
// token; there is no session.
type PublicLinkHandler struct {
	client  *backend.Client
	fetcher *availability.Fetcher
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

func NewPublicLinkHandler(client *backend.Client, fetcher *availability.Fetcher, m *metrics.BookingMetrics, logger *logging.Logger) *PublicLinkHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PublicLinkHandler{
		client:  client,
		fetcher: fetcher,
		metrics: m,
		logger:  logger.Component("links"),
	}
}

// linkParams extracts booking id and token from the query. When either is
// missing or malformed the link is invalid on its face and no backend call
// is made.
func linkParams(r *http.Request) (int, string, bool) {
	token := r.URL.Query().Get("token")
	raw := r.URL.Query().Get("booking")
	id, err := strconv.Atoi(raw)
	if token == "" || raw == "" || err != nil || id < 1 {
		return 0, "", false
	}
	return id, token, true
}

func invalidLink(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"status": "invalid_link",
		"error":  "This link is invalid or has expired.",
	})
}

// CancelView loads the booking behind a cancellation link.
// GET /booking/{workspace}/cancel?booking=&token=
func (h *PublicLinkHandler) CancelView(w http.ResponseWriter, r *http.Request) {
	id, token, ok := linkParams(r)
	if !ok {
		invalidLink(w)
		return
	}
	booking, err := h.client.PublicBooking(r.Context(), id, token)
	if err != nil {
		h.renderLinkError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

// Cancel cancels the booking. Cancelling an already-cancelled booking is a
// success outcome, not an error.
// POST /booking/{workspace}/cancel?booking=&token=
func (h *PublicLinkHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, token, ok := linkParams(r)
	if !ok {
		h.metrics.ObservePublicCancel("invalid_link")
		invalidLink(w)
		return
	}
	err := h.client.PublicCancelBooking(r.Context(), id, token)
	switch {
	case err == nil:
		h.metrics.ObservePublicCancel("cancelled")
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	case errors.Is(err, backend.ErrAlreadyCancelled):
		h.metrics.ObservePublicCancel("already_cancelled")
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_cancelled"})
	default:
		h.metrics.ObservePublicCancel("error")
		h.renderLinkError(w, err)
	}
}

// rescheduleView carries the booking plus the date the slot picker should
// open on. The current start seeds the date only while it is still ahead.
type rescheduleView struct {
	Booking     *backend.PublicBooking `json:"booking"`
	DefaultDate string                 `json:"default_date"`
}

// RescheduleView loads the booking behind a reschedule link.
// GET /booking/{workspace}/reschedule?booking=&token=
func (h *PublicLinkHandler) RescheduleView(w http.ResponseWriter, r *http.Request) {
	id, token, ok := linkParams(r)
	if !ok {
		invalidLink(w)
		return
	}
	booking, err := h.client.PublicBooking(r.Context(), id, token)
	if err != nil {
		h.renderLinkError(w, err)
		return
	}
	defaultDate := time.Now().UTC().Format("2006-01-02")
	if booking.StartTime.After(time.Now()) {
		defaultDate = booking.StartTime.UTC().Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, rescheduleView{Booking: booking, DefaultDate: defaultDate})
}

// RescheduleSlots fetches availability for the booking's service on a date.
// GET /booking/{workspace}/reschedule/slots?booking=&token=&date=
func (h *PublicLinkHandler) RescheduleSlots(w http.ResponseWriter, r *http.Request) {
	id, token, ok := linkParams(r)
	if !ok {
		invalidLink(w)
		return
	}
	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid date")
		return
	}
	booking, err := h.client.PublicBooking(r.Context(), id, token)
	if err != nil {
		h.renderLinkError(w, err)
		return
	}

	key := "reschedule:" + strconv.Itoa(id)
	res := h.fetcher.Refresh(r.Context(), key, booking.ServiceID, date)
	if res.Superseded {
		h.metrics.ObserveAvailability("superseded")
		writeJSON(w, http.StatusOK, map[string]any{"slots": []string{}, "stale": true})
		return
	}
	if res.Err != nil {
		h.metrics.ObserveAvailability("error")
		writeJSON(w, http.StatusOK, map[string]any{"slots": []string{}, "fetch_failed": true})
		return
	}
	h.metrics.ObserveAvailability("applied")
	slots := res.Slots
	if slots == nil {
		slots = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

type publicRescheduleRequest struct {
	Date     string `json:"date"`
	Slot     string `json:"slot"`
	TimeZone string `json:"time_zone"`
}

// Reschedule moves the booking to a new start.
// POST /booking/{workspace}/reschedule?booking=&token=
func (h *PublicLinkHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, token, ok := linkParams(r)
	if !ok {
		h.metrics.ObserveReschedule("public", "invalid_link")
		invalidLink(w)
		return
	}
	var req publicRescheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start, err := combineStart(req.Date, req.Slot, req.TimeZone)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid date or time")
		return
	}
	if err := h.client.PublicRescheduleBooking(r.Context(), id, token, start); err != nil {
		h.metrics.ObserveReschedule("public", "error")
		h.renderLinkError(w, err)
		return
	}
	h.metrics.ObserveReschedule("public", "rescheduled")
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "rescheduled",
		"new_start": start,
	})
}

// combineStart builds the absolute start instant from a date and slot in the
// viewer's zone.
func combineStart(date, slot, tz string) (string, error) {
	loc := time.UTC
	if tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return "", err
		}
		loc = parsed
	}
	return wizard.CombineStart(date, slot, loc)
}

func (h *PublicLinkHandler) renderLinkError(w http.ResponseWriter, err error) {
	var notFound *backend.NotFoundError
	var conflict *backend.ConflictError
	switch {
	case errors.As(err, &notFound), errors.Is(err, backend.ErrUnauthorized):
		invalidLink(w)
	case errors.As(err, &conflict):
		jsonError(w, http.StatusConflict, conflict.Message)
	default:
		h.logger.Error("link request failed", "error", err)
		jsonError(w, http.StatusBadGateway, backend.UserMessage(err))
	}
}
