package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/careops/frontdesk/pkg/logging"
)

// RequestLogger emits a structured completion log for every HTTP request.
// Booking routes carry the workspace slug and draft id as URL params; when
// present they are attached so funnel traffic can be filtered per workspace.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			// Route params are only populated after chi has matched, so they
			// are read post-handler.
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if workspace := rctx.URLParam("workspace"); workspace != "" {
					fields = append(fields, "workspace", workspace)
				}
				if draftID := rctx.URLParam("draftID"); draftID != "" {
					fields = append(fields, "draft_id", draftID)
				}
			}
			logger.Info("request completed", fields...)
		})
	}
}
