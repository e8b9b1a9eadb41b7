package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/internal/observability/metrics"
	"github.com/careops/frontdesk/internal/session"
	"github.com/careops/frontdesk/pkg/logging"
)

func newBookingsHandler(backendURL string) *BookingsHandler {
	client := backend.NewClient(backendURL)
	m := metrics.NewBookingMetrics(prometheus.NewRegistry())
	return NewBookingsHandler(client, m, "/login", logging.Default())
}

func staffSession() *session.Session {
	return &session.Session{
		Token:        "tok-staff",
		Role:         session.RoleStaff,
		Workspace:    "glow",
		Capabilities: session.NewSet(session.CapBookings),
	}
}

func TestCancelReturnsReReadList(t *testing.T) {
	cancelled := false
	be := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/bookings/12/cancel":
			assert.Equal(t, "Bearer tok-staff", r.Header.Get("Authorization"))
			cancelled = true
			fmt.Fprint(w, `{"status":"cancelled"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/bookings":
			status := "confirmed"
			if cancelled {
				status = "cancelled"
			}
			fmt.Fprintf(w, `[{"id": 12, "service_id": 42, "status": %q, "start_time": "2025-06-10T09:30:00Z", "end_time": "2025-06-10T10:00:00Z"}]`, status)
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		}
	})
	defer be.Close()
	h := newBookingsHandler(be.URL)

	req := httptest.NewRequest(http.MethodPost, "/app/bookings/12/cancel", nil)
	req = withSession(withRouteParams(req, map[string]string{"bookingID": "12"}), staffSession())
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp bookingListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Bookings, 1)

	// The response carries the backend's post-mutation state, not a local
	// merge: the list endpoint was hit after the cancel.
	assert.Equal(t, backend.StatusCancelled, resp.Bookings[0].Status)
	assert.Equal(t, 1, be.hits["GET /api/bookings"])
	assert.Equal(t, 1, be.hits["POST /api/bookings/12/cancel"])
}

func TestRescheduleReturnsReReadList(t *testing.T) {
	var gotStart string
	be := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/api/bookings/12":
			var payload struct {
				StartDateTime string `json:"start_datetime"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			gotStart = payload.StartDateTime
			fmt.Fprint(w, `{"status":"rescheduled"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/bookings":
			fmt.Fprint(w, `[]`)
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		}
	})
	defer be.Close()
	h := newBookingsHandler(be.URL)

	body := strings.NewReader(`{"date":"2025-06-11","slot":"10:00","time_zone":"UTC"}`)
	req := httptest.NewRequest(http.MethodPost, "/app/bookings/12/reschedule", body)
	req = withSession(withRouteParams(req, map[string]string{"bookingID": "12"}), staffSession())
	rec := httptest.NewRecorder()
	h.Reschedule(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-06-11T10:00:00.000Z", gotStart)
	assert.Equal(t, 1, be.hits["GET /api/bookings"])
}

func TestExpiredTokenRedirectsToLogin(t *testing.T) {
	be := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"Could not validate credentials"}`)
	})
	defer be.Close()
	h := newBookingsHandler(be.URL)

	req := httptest.NewRequest(http.MethodGet, "/app/bookings", nil)
	req = withSession(req, staffSession())
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "authentication required", body["error"])
	assert.Equal(t, "/login", body["redirect"])
}

func TestCancelConflictSurfacesServerDetail(t *testing.T) {
	be := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail":"Booking already completed"}`)
	})
	defer be.Close()
	h := newBookingsHandler(be.URL)

	req := httptest.NewRequest(http.MethodPost, "/app/bookings/12/cancel", nil)
	req = withSession(withRouteParams(req, map[string]string{"bookingID": "12"}), staffSession())
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Booking already completed", body["error"])
}

func TestHistoryReturnsEvents(t *testing.T) {
	be := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings/12/history", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": 1, "action": "created", "created_at": "2025-06-01T08:00:00Z"},
			{"id": 2, "action": "rescheduled", "created_at": "2025-06-02T09:00:00Z"}
		]`)
	})
	defer be.Close()
	h := newBookingsHandler(be.URL)

	req := httptest.NewRequest(http.MethodGet, "/app/bookings/12/history", nil)
	req = withSession(withRouteParams(req, map[string]string{"bookingID": "12"}), staffSession())
	rec := httptest.NewRecorder()
	h.History(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Events []backend.BookingEvent `json:"events"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Events, 2)
	assert.Equal(t, "created", body.Events[0].Action)
}
