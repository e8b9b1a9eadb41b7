package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/careops/frontdesk/internal/session"
)

// authRequired is the body returned whenever a request lacks a valid
// session. Clients are expected to follow the redirect to re-authenticate.
type authRequired struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

func denyUnauthenticated(w http.ResponseWriter, loginPath string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(authRequired{
		Error:    "authentication required",
		Redirect: loginPath,
	})
}

// RequireSession decodes the session cookie and stores the session on the
// request context. Requests without a valid, unexpired cookie get 401 with
// a redirect hint to the login page.
func RequireSession(codec *session.Codec, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := codec.Decode(r)
			if err != nil {
				denyUnauthenticated(w, loginPath)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// RequireCapability gates a route on a workspace capability. Owners pass
// regardless of the capability list. Must run after RequireSession.
func RequireCapability(capability session.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				http.Error(w, "no session", http.StatusUnauthorized)
				return
			}
			if !sess.Allows(capability) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "section not permitted"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner restricts a route to workspace owners. Must run after
// RequireSession.
func RequireOwner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				http.Error(w, "no session", http.StatusUnauthorized)
				return
			}
			if !sess.IsOwner() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "owner access required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
