package handlers

import (
	"net/http"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/pkg/logging"
)

// LeadsHandler serves the leads page.
type LeadsHandler struct {
	client    *backend.Client
	logger    *logging.Logger
	loginPath string
}

func NewLeadsHandler(client *backend.Client, loginPath string, logger *logging.Logger) *LeadsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadsHandler{
		client:    client,
		logger:    logger.Component("leads"),
		loginPath: loginPath,
	}
}

// List returns the workspace's leads, optionally filtered by status.
// GET /app/leads?status=
func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	h.respondWithList(w, r, token, r.URL.Query().Get("status"))
}

type leadStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus changes a lead's status and returns the re-read list.
// POST /app/leads/{leadID}/status
func (h *LeadsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	leadID, ok := intParam(r, "leadID")
	if !ok {
		jsonError(w, http.StatusNotFound, "lead not found")
		return
	}
	var req leadStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		jsonError(w, http.StatusBadRequest, "status is required")
		return
	}
	if err := h.client.UpdateLeadStatus(r.Context(), token, leadID, req.Status); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token, "")
}

func (h *LeadsHandler) respondWithList(w http.ResponseWriter, r *http.Request, token, status string) {
	leads, err := h.client.ListLeads(r.Context(), token, status)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	if leads == nil {
		leads = []backend.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}
