package handlers

import (
	"net/http"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/internal/session"
	"github.com/careops/frontdesk/pkg/logging"
)

// AuthHandler exchanges workspace credentials for a session cookie. The
// backend stays the source of truth for passwords and permissions; the
// gateway only holds the resulting bearer token inside the signed cookie.
type AuthHandler struct {
	client *backend.Client
	codec  *session.Codec
	logger *logging.Logger
}

func NewAuthHandler(client *backend.Client, codec *session.Codec, logger *logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthHandler{
		client: client,
		codec:  codec,
		logger: logger.Component("auth"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Role      string               `json:"role"`
	Workspace string               `json:"workspace"`
	Sections  []session.Capability `json:"sections"`
}

// Login proxies the credential check to the backend and mints the session
// cookie from the result.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.client.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", "email", req.Email, "error", err)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess := &session.Session{
		Token:        result.AccessToken,
		Role:         session.Role(result.Role),
		Workspace:    result.WorkspaceSlug,
		Capabilities: session.ParsePermissions(result.Permissions),
	}
	cookie, err := h.codec.Issue(sess)
	if err != nil {
		h.logger.Error("issue session cookie", "error", err)
		jsonError(w, http.StatusInternalServerError, "could not establish session")
		return
	}
	http.SetCookie(w, cookie)

	writeJSON(w, http.StatusOK, sessionResponse{
		Role:      string(sess.Role),
		Workspace: sess.Workspace,
		Sections:  sess.Sections(),
	})
}

// Logout clears the session cookie.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.codec.Clear())
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Session reports the current session's role, workspace, and reachable
// sections. Requires RequireSession.
// GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, "no session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Role:      string(sess.Role),
		Workspace: sess.Workspace,
		Sections:  sess.Sections(),
	})
}
