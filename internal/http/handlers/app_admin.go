package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/internal/observability/metrics"
	"github.com/careops/frontdesk/internal/session"
	"github.com/careops/frontdesk/pkg/logging"
)

// AdminHandler serves the owner-side screens: service catalog, staff
// management, and the dashboard summary.
type AdminHandler struct {
	client    *backend.Client
	gatherer  prometheus.Gatherer
	logger    *logging.Logger
	loginPath string
}

func NewAdminHandler(client *backend.Client, gatherer prometheus.Gatherer, loginPath string, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &AdminHandler{
		client:    client,
		gatherer:  gatherer,
		logger:    logger.Component("admin"),
		loginPath: loginPath,
	}
}

// ListServices returns the service catalog.
// GET /app/services
func (h *AdminHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	h.respondWithServices(w, r, token)
}

// CreateService adds a service and returns the re-read catalog.
// POST /app/services
func (h *AdminHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	var req backend.ServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.DurationMinutes < 1 {
		jsonError(w, http.StatusBadRequest, "name and duration are required")
		return
	}
	if _, err := h.client.CreateService(r.Context(), token, req); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithServices(w, r, token)
}

// DeleteService removes a service and returns the re-read catalog.
// DELETE /app/services/{serviceID}
func (h *AdminHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	serviceID, ok := intParam(r, "serviceID")
	if !ok {
		jsonError(w, http.StatusNotFound, "service not found")
		return
	}
	if err := h.client.DeleteService(r.Context(), token, serviceID); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithServices(w, r, token)
}

// ListStaff returns the workspace's staff members.
// GET /app/staff
func (h *AdminHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	h.respondWithStaff(w, r, token)
}

type staffInviteRequest struct {
	Email       string          `json:"email"`
	Permissions map[string]bool `json:"permissions"`
}

// InviteStaff invites a staff member with a section permission map and
// returns the re-read staff list.
// POST /app/staff/invite
func (h *AdminHandler) InviteStaff(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	var req staffInviteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		jsonError(w, http.StatusBadRequest, "email is required")
		return
	}
	invite := backend.StaffInvite{Email: req.Email, Permissions: req.Permissions}
	if err := h.client.InviteStaff(r.Context(), token, invite); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithStaff(w, r, token)
}

// Dashboard combines the backend's workspace summary with the gateway's own
// booking funnel counters.
// GET /app/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	summary, err := h.client.DashboardSummary(r.Context(), token)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	funnel, err := metrics.Snapshot(h.gatherer)
	if err != nil {
		h.logger.Warn("gather funnel snapshot", "error", err)
		funnel = &metrics.FunnelSnapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"funnel":  funnel,
	})
}

// Nav returns the sections this session may navigate to. A section outside
// the session's capability set is never listed.
// GET /app/nav
func (h *AdminHandler) Nav(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, "no session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": sess.Sections()})
}

func (h *AdminHandler) respondWithServices(w http.ResponseWriter, r *http.Request, token string) {
	services, err := h.client.ListServices(r.Context(), token)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	if services == nil {
		services = []backend.Service{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (h *AdminHandler) respondWithStaff(w http.ResponseWriter, r *http.Request, token string) {
	staff, err := h.client.ListStaff(r.Context(), token)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	if staff == nil {
		staff = []backend.StaffMember{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"staff": staff})
}
