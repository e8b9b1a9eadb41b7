package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// sessionToken returns the backend bearer token from the request's session.
// Routes using it sit behind RequireSession, so a missing session is a
// wiring bug rather than a user error.
func sessionToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, "no session")
		return "", false
	}
	return sess.Token, true
}

func intParam(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// writeBackendError translates a backend client error into the gateway's
// response contract. A backend 401 means the bearer token is no longer
// accepted, so the caller is told to re-authenticate; in-flight state is
// abandoned rather than retried.
func writeBackendError(w http.ResponseWriter, err error, loginPath string) {
	var notFound *backend.NotFoundError
	var conflict *backend.ConflictError
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":    "authentication required",
			"redirect": loginPath,
		})
	case errors.As(err, &notFound):
		jsonError(w, http.StatusNotFound, notFound.Message)
	case errors.As(err, &conflict):
		jsonError(w, http.StatusConflict, conflict.Message)
	case errors.As(err, &apiErr):
		jsonError(w, http.StatusBadGateway, backend.UserMessage(err))
	default:
		jsonError(w, http.StatusBadGateway, backend.UserMessage(err))
	}
}
