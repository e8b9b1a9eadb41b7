package handlers

import (
	"net/http"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/internal/observability/metrics"
	"github.com/careops/frontdesk/pkg/logging"
)

// BookingsHandler serves the staff bookings page. Mutations never merge
// locally: after a cancel, restore, or reschedule the list is re-read from
// the backend and the fresh list is what the response carries.
type BookingsHandler struct {
	client    *backend.Client
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	loginPath string
}

func NewBookingsHandler(client *backend.Client, m *metrics.BookingMetrics, loginPath string, logger *logging.Logger) *BookingsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingsHandler{
		client:    client,
		metrics:   m,
		logger:    logger.Component("bookings"),
		loginPath: loginPath,
	}
}

type bookingListResponse struct {
	Bookings []backend.Booking `json:"bookings"`
}

// List returns all bookings for the workspace. Status and date filtering
// happen on the rendered list, not here.
// GET /app/bookings
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	h.respondWithList(w, r, token)
}

// Cancel cancels a booking and returns the re-read list.
// POST /app/bookings/{bookingID}/cancel
func (h *BookingsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	bookingID, ok := intParam(r, "bookingID")
	if !ok {
		jsonError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err := h.client.CancelBooking(r.Context(), token, bookingID); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token)
}

// Restore re-activates a cancelled booking and returns the re-read list.
// POST /app/bookings/{bookingID}/restore
func (h *BookingsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	bookingID, ok := intParam(r, "bookingID")
	if !ok {
		jsonError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err := h.client.RestoreBooking(r.Context(), token, bookingID); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token)
}

type rescheduleRequest struct {
	Date     string `json:"date"`
	Slot     string `json:"slot"`
	TimeZone string `json:"time_zone"`
}

// Reschedule moves a booking to a new start and returns the re-read list.
// POST /app/bookings/{bookingID}/reschedule
func (h *BookingsHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	bookingID, ok := intParam(r, "bookingID")
	if !ok {
		jsonError(w, http.StatusNotFound, "booking not found")
		return
	}
	var req rescheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start, err := combineStart(req.Date, req.Slot, req.TimeZone)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid date or time")
		return
	}
	if err := h.client.RescheduleBooking(r.Context(), token, bookingID, start); err != nil {
		h.metrics.ObserveReschedule("staff", "error")
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.metrics.ObserveReschedule("staff", "rescheduled")
	h.respondWithList(w, r, token)
}

// History returns a booking's audit trail.
// GET /app/bookings/{bookingID}/history
func (h *BookingsHandler) History(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	bookingID, ok := intParam(r, "bookingID")
	if !ok {
		jsonError(w, http.StatusNotFound, "booking not found")
		return
	}
	events, err := h.client.BookingHistory(r.Context(), token, bookingID)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	if events == nil {
		events = []backend.BookingEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *BookingsHandler) respondWithList(w http.ResponseWriter, r *http.Request, token string) {
	bookings, err := h.client.ListBookings(r.Context(), token)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	if bookings == nil {
		bookings = []backend.Booking{}
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Bookings: bookings})
}
