package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/careops/frontdesk/internal/availability"
	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/internal/draft"
	"github.com/careops/frontdesk/internal/observability/metrics"
	"github.com/careops/frontdesk/internal/wizard"
	"github.com/careops/frontdesk/pkg/logging"
)

var bookingTracer = otel.Tracer("frontdesk.internal.http.handlers.booking")

// PublicBookingHandler drives the visitor-facing booking wizard. Wizard
// state lives in the draft store between requests; the handler only moves
// the state machine and talks to the backend.
type PublicBookingHandler struct {
	client  *backend.Client
	drafts  draft.Store
	fetcher *availability.Fetcher
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

func NewPublicBookingHandler(client *backend.Client, drafts draft.Store, fetcher *availability.Fetcher, m *metrics.BookingMetrics, logger *logging.Logger) *PublicBookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PublicBookingHandler{
		client:  client,
		drafts:  drafts,
		fetcher: fetcher,
		metrics: m,
		logger:  logger.Component("booking"),
	}
}

// draftView is the wizard state rendered to the visitor. SlotsFetched and
// SlotsError let the client distinguish "no availability" from "the fetch
// failed"; the two must never render the same.
type draftView struct {
	DraftID      string            `json:"draft_id"`
	Workspace    string            `json:"workspace"`
	Step         wizard.Step       `json:"step"`
	Services     []backend.Service `json:"services"`
	ServiceID    int               `json:"service_id,omitempty"`
	Date         string            `json:"date,omitempty"`
	Slot         string            `json:"slot,omitempty"`
	Slots        []string          `json:"slots"`
	SlotsFetched bool              `json:"slots_fetched"`
	SlotsError   bool              `json:"slots_error"`
	Contact      wizard.Contact    `json:"contact"`
	SubmitError  string            `json:"submit_error,omitempty"`
	CanSubmit    bool              `json:"can_submit"`
}

func viewOf(draftID string, wz *wizard.Wizard) draftView {
	slots := wz.Slots
	if slots == nil {
		slots = []string{}
	}
	return draftView{
		DraftID:      draftID,
		Workspace:    wz.Workspace,
		Step:         wz.Step,
		Services:     wz.Services,
		ServiceID:    wz.ServiceID,
		Date:         wz.Date,
		Slot:         wz.Slot,
		Slots:        slots,
		SlotsFetched: wz.SlotsFresh,
		SlotsError:   wz.SlotsErr,
		Contact:      wz.Contact,
		SubmitError:  wz.SubmitError,
		CanSubmit:    wz.CanSubmit(),
	}
}

// ListServices returns the workspace's bookable services.
// GET /book/{workspace}/services
func (h *PublicBookingHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	workspace := chi.URLParam(r, "workspace")
	services, err := h.client.ListPublicServices(r.Context(), workspace)
	if err != nil {
		writeBackendError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// StartDraft opens a new wizard for a workspace. A ?service= query
// preselects a service from the fetched list; an unknown id is ignored and
// the wizard starts at service selection.
// POST /book/{workspace}/drafts
func (h *PublicBookingHandler) StartDraft(w http.ResponseWriter, r *http.Request) {
	workspace := chi.URLParam(r, "workspace")
	services, err := h.client.ListPublicServices(r.Context(), workspace)
	if err != nil {
		writeBackendError(w, err, "")
		return
	}

	wz := wizard.New(workspace, services)
	if raw := r.URL.Query().Get("service"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			wz.Preselect(id)
		}
	}

	id, err := h.drafts.Create(r.Context(), wz)
	if err != nil {
		h.logger.Error("create draft", "workspace", workspace, "error", err)
		jsonError(w, http.StatusInternalServerError, "could not start booking")
		return
	}
	h.metrics.ObserveDraftStarted()
	writeJSON(w, http.StatusCreated, viewOf(id, wz))
}

// GetDraft renders the current wizard state.
// GET /book/{workspace}/drafts/{draftID}
func (h *PublicBookingHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, wz, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, wz))
}

type selectServiceRequest struct {
	ServiceID int `json:"service_id"`
}

// SelectService chooses a service and moves to slot selection.
// POST /book/{workspace}/drafts/{draftID}/service
func (h *PublicBookingHandler) SelectService(w http.ResponseWriter, r *http.Request) {
	id, wz, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	var req selectServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := wz.SelectService(req.ServiceID); err != nil {
		h.rejectTransition(w, err)
		return
	}
	h.saveAndRender(w, r, id, wz)
}

// Slots sets the date and fetches availability for the current service.
// A response that resolves after a newer fetch for the same draft was issued
// is discarded; the stored state only ever reflects the latest request.
// GET /book/{workspace}/drafts/{draftID}/slots?date=YYYY-MM-DD
func (h *PublicBookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	id, wz, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	ctx, span := bookingTracer.Start(r.Context(), "booking.slots")
	defer span.End()
	span.SetAttributes(
		attribute.String("frontdesk.workspace", wz.Workspace),
		attribute.String("frontdesk.draft_id", id),
	)
	r = r.WithContext(ctx)

	date := r.URL.Query().Get("date")
	if date == "" {
		jsonError(w, http.StatusBadRequest, "date is required")
		return
	}
	if wz.Service() == nil {
		jsonError(w, http.StatusConflict, "select a service first")
		return
	}
	if err := wz.SetDate(date); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid date")
		return
	}
	// Persist the cleared slot state before fetching so a concurrent read
	// never sees the old service/date slots.
	if err := h.drafts.Put(r.Context(), id, wz); err != nil {
		h.logger.Error("save draft", "draft_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "could not save booking state")
		return
	}

	res := h.fetcher.Refresh(r.Context(), id, wz.ServiceID, date)
	if res.Superseded {
		h.metrics.ObserveAvailability("superseded")
		current, err := h.drafts.Get(r.Context(), id)
		if err != nil {
			jsonError(w, http.StatusNotFound, "booking draft not found")
			return
		}
		writeJSON(w, http.StatusOK, viewOf(id, current))
		return
	}
	if res.Err != nil {
		h.metrics.ObserveAvailability("error")
	} else {
		h.metrics.ObserveAvailability("applied")
	}

	// Re-read in case another request advanced the draft while the fetch
	// was in flight, then apply only if the pair still matches.
	current, err := h.drafts.Get(r.Context(), id)
	if err != nil {
		jsonError(w, http.StatusNotFound, "booking draft not found")
		return
	}
	if current.ServiceID == res.ServiceID && current.Date == res.Date {
		current.ApplySlots(res.Slots, res.Err != nil)
	}
	h.saveAndRender(w, r, id, current)
}

type selectSlotRequest struct {
	Slot string `json:"slot"`
}

// SelectSlot picks a start time from the fetched availability and advances
// to the contact step.
// POST /book/{workspace}/drafts/{draftID}/slot
func (h *PublicBookingHandler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	id, wz, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	var req selectSlotRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := wz.SelectSlot(req.Slot); err != nil {
		h.rejectTransition(w, err)
		return
	}
	if err := wz.Next(); err != nil {
		h.rejectTransition(w, err)
		return
	}
	h.saveAndRender(w, r, id, wz)
}

type contactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SetContact records the visitor's details.
// POST /book/{workspace}/drafts/{draftID}/contact
func (h *PublicBookingHandler) SetContact(w http.ResponseWriter, r *http.Request) {
	id, wz, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	var req contactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := wz.SetContact(wizard.Contact{Name: req.Name, Email: req.Email, Phone: req.Phone}); err != nil {
		h.rejectTransition(w, err)
		return
	}
	h.saveAndRender(w, r, id, wz)
}

// Back steps the wizard backward, keeping prior selections.
// POST /book/{workspace}/drafts/{draftID}/back
func (h *PublicBookingHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, wz, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	wz.Back()
	h.saveAndRender(w, r, id, wz)
}

type submitRequest struct {
	TimeZone string `json:"time_zone"`
}

type confirmationResponse struct {
	BookingID   int    `json:"booking_id"`
	ServiceName string `json:"service_name"`
	Date        string `json:"date"`
	Slot        string `json:"slot"`
	Email       string `json:"email"`
}

// Submit creates the booking. On success the draft is deleted and a
// confirmation is returned. On a slot conflict the server's message is
// surfaced verbatim, the draft stays on the contact step, and availability
// is re-fetched so the visitor picks from current slots.
// POST /book/{workspace}/drafts/{draftID}/submit
func (h *PublicBookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, wz, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	ctx, span := bookingTracer.Start(r.Context(), "booking.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("frontdesk.workspace", wz.Workspace),
		attribute.String("frontdesk.draft_id", id),
		attribute.Int("frontdesk.service_id", wz.ServiceID),
	)
	r = r.WithContext(ctx)

	var req submitRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	if !wz.CanSubmit() {
		jsonError(w, http.StatusUnprocessableEntity, "booking details are incomplete")
		return
	}

	loc := time.UTC
	if req.TimeZone != "" {
		parsed, err := time.LoadLocation(req.TimeZone)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "unknown time zone")
			return
		}
		loc = parsed
	}
	start, err := wz.StartDateTime(loc)
	if err != nil {
		h.rejectTransition(w, err)
		return
	}

	service := wz.Service()
	booking, err := h.client.CreateBooking(r.Context(), backend.BookingRequest{
		ServiceID:     wz.ServiceID,
		StartDateTime: start,
		Name:          wz.Contact.Name,
		Email:         wz.Contact.Email,
		Phone:         wz.Contact.Phone,
	})
	if err != nil {
		var conflict *backend.ConflictError
		if errors.As(err, &conflict) {
			h.metrics.ObserveSubmit("conflict")
			wz.Fail(conflict.Message)
			res := h.fetcher.Refresh(r.Context(), id, wz.ServiceID, wz.Date)
			if !res.Superseded {
				wz.ApplySlots(res.Slots, res.Err != nil)
			}
			if err := h.drafts.Put(r.Context(), id, wz); err != nil {
				h.logger.Error("save draft", "draft_id", id, "error", err)
			}
			view := viewOf(id, wz)
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": conflict.Message,
				"draft": view,
			})
			return
		}
		h.metrics.ObserveSubmit("error")
		span.RecordError(err)
		h.logger.Error("create booking", "draft_id", id, "error", err)
		writeBackendError(w, err, "")
		return
	}

	h.metrics.ObserveSubmit("confirmed")
	wz.Confirm(booking.ID)
	if err := h.drafts.Delete(r.Context(), id); err != nil && !errors.Is(err, draft.ErrNotFound) {
		h.logger.Warn("delete draft", "draft_id", id, "error", err)
	}
	h.fetcher.Forget(id)

	writeJSON(w, http.StatusCreated, confirmationResponse{
		BookingID:   booking.ID,
		ServiceName: service.Name,
		Date:        wz.Date,
		Slot:        wz.Slot,
		Email:       wz.Contact.Email,
	})
}

func (h *PublicBookingHandler) loadDraft(w http.ResponseWriter, r *http.Request) (string, *wizard.Wizard, bool) {
	workspace := chi.URLParam(r, "workspace")
	id := chi.URLParam(r, "draftID")
	wz, err := h.drafts.Get(r.Context(), id)
	if err != nil || wz.Workspace != workspace {
		jsonError(w, http.StatusNotFound, "booking draft not found")
		return "", nil, false
	}
	return id, wz, true
}

func (h *PublicBookingHandler) saveAndRender(w http.ResponseWriter, r *http.Request, id string, wz *wizard.Wizard) {
	if err := h.drafts.Put(r.Context(), id, wz); err != nil {
		h.logger.Error("save draft", "draft_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "could not save booking state")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, wz))
}

func (h *PublicBookingHandler) rejectTransition(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrFinished):
		jsonError(w, http.StatusConflict, "booking already confirmed")
	case errors.Is(err, wizard.ErrUnknownService):
		jsonError(w, http.StatusUnprocessableEntity, "unknown service")
	case errors.Is(err, wizard.ErrSlotNotOffered):
		jsonError(w, http.StatusUnprocessableEntity, "that time is not offered")
	case errors.Is(err, wizard.ErrNoService), errors.Is(err, wizard.ErrNoSlot), errors.Is(err, wizard.ErrNotReady):
		jsonError(w, http.StatusConflict, "complete the previous step first")
	default:
		jsonError(w, http.StatusBadRequest, "invalid request")
	}
}
