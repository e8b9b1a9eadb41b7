package handlers

import (
	"net/http"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/pkg/logging"
)

// FormsHandler manages the workspace's configurable forms.
type FormsHandler struct {
	client    *backend.Client
	logger    *logging.Logger
	loginPath string
}

func NewFormsHandler(client *backend.Client, loginPath string, logger *logging.Logger) *FormsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &FormsHandler{
		client:    client,
		logger:    logger.Component("forms"),
		loginPath: loginPath,
	}
}

// List returns the workspace's forms.
// GET /app/forms
func (h *FormsHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	h.respondWithList(w, r, token)
}

// Create adds a form and returns the re-read list.
// POST /app/forms
func (h *FormsHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	var req backend.FormRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := h.client.CreateForm(r.Context(), token, req); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token)
}

// Update edits a form and returns the re-read list.
// PUT /app/forms/{formID}
func (h *FormsHandler) Update(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	formID, ok := intParam(r, "formID")
	if !ok {
		jsonError(w, http.StatusNotFound, "form not found")
		return
	}
	var req backend.FormRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.client.UpdateForm(r.Context(), token, formID, req); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token)
}

// Delete removes a form and returns the re-read list.
// DELETE /app/forms/{formID}
func (h *FormsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	formID, ok := intParam(r, "formID")
	if !ok {
		jsonError(w, http.StatusNotFound, "form not found")
		return
	}
	if err := h.client.DeleteForm(r.Context(), token, formID); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token)
}

func (h *FormsHandler) respondWithList(w http.ResponseWriter, r *http.Request, token string) {
	forms, err := h.client.ListForms(r.Context(), token)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	if forms == nil {
		forms = []backend.Form{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"forms": forms})
}
