package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/pkg/logging"
)

// PublicFormsHandler serves the unauthenticated form surfaces: the lead
// capture form, shareable public forms, and the pre-visit intake form tied
// to a booking.
type PublicFormsHandler struct {
	client *backend.Client
	logger *logging.Logger
}

func NewPublicFormsHandler(client *backend.Client, logger *logging.Logger) *PublicFormsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PublicFormsHandler{
		client: client,
		logger: logger.Component("forms"),
	}
}

// SubmitLeadForm captures a prospect from the workspace contact page.
// POST /forms/{workspace}/lead
func (h *PublicFormsHandler) SubmitLeadForm(w http.ResponseWriter, r *http.Request) {
	workspace := chi.URLParam(r, "workspace")
	var form backend.LeadForm
	if !decodeBody(w, r, &form) {
		return
	}
	if form.FirstName == "" || form.Email == "" {
		jsonError(w, http.StatusBadRequest, "first name and email are required")
		return
	}
	if err := h.client.SubmitLeadForm(r.Context(), workspace, form); err != nil {
		writeBackendError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "received"})
}

// GetForm returns a shareable form's fields.
// GET /forms/p/{formID}
func (h *PublicFormsHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	formID, ok := intParam(r, "formID")
	if !ok {
		jsonError(w, http.StatusNotFound, "form not found")
		return
	}
	form, err := h.client.PublicForm(r.Context(), formID)
	if err != nil {
		writeBackendError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, form)
}

type formSubmission struct {
	Answers map[string]any `json:"answers"`
}

// SubmitForm records a public form submission.
// POST /forms/p/{formID}
func (h *PublicFormsHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	formID, ok := intParam(r, "formID")
	if !ok {
		jsonError(w, http.StatusNotFound, "form not found")
		return
	}
	var sub formSubmission
	if !decodeBody(w, r, &sub) {
		return
	}
	if err := h.client.SubmitPublicForm(r.Context(), formID, sub.Answers); err != nil {
		writeBackendError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "received"})
}

// GetIntake returns the intake form attached to a booking.
// GET /forms/intake/{bookingID}
func (h *PublicFormsHandler) GetIntake(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := intParam(r, "bookingID")
	if !ok {
		jsonError(w, http.StatusNotFound, "booking not found")
		return
	}
	form, err := h.client.BookingIntake(r.Context(), bookingID)
	if err != nil {
		writeBackendError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// SubmitIntake records intake answers for a booking.
// POST /forms/intake/{bookingID}
func (h *PublicFormsHandler) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := intParam(r, "bookingID")
	if !ok {
		jsonError(w, http.StatusNotFound, "booking not found")
		return
	}
	var sub formSubmission
	if !decodeBody(w, r, &sub) {
		return
	}
	if err := h.client.SubmitBookingIntake(r.Context(), bookingID, sub.Answers); err != nil {
		writeBackendError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "received"})
}
