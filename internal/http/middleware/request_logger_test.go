package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/careops/frontdesk/pkg/logging"
)

func captureLog(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("could not parse log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestRequestLoggerBookingRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("info", &buf)

	router := chi.NewRouter()
	router.Use(RequestLogger(logger))
	router.Get("/book/{workspace}/drafts/{draftID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/book/glow/drafts/d-123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	entry := captureLog(t, &buf)
	if entry["msg"] != "request completed" {
		t.Fatalf("unexpected message %v", entry["msg"])
	}
	if entry["workspace"] != "glow" {
		t.Errorf("expected workspace field, got %v", entry["workspace"])
	}
	if entry["draft_id"] != "d-123" {
		t.Errorf("expected draft_id field, got %v", entry["draft_id"])
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("expected status 200, got %v", entry["status"])
	}
	if entry["method"] != http.MethodGet {
		t.Errorf("expected method GET, got %v", entry["method"])
	}
}

func TestRequestLoggerPlainRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("info", &buf)

	router := chi.NewRouter()
	router.Use(RequestLogger(logger))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	entry := captureLog(t, &buf)
	if _, ok := entry["workspace"]; ok {
		t.Error("workspace field should be absent off booking routes")
	}
	if entry["status"] != float64(http.StatusNoContent) {
		t.Errorf("expected status 204, got %v", entry["status"])
	}
	if entry["request_id"] == "" || entry["request_id"] == nil {
		t.Error("expected a request id on every completion log")
	}
}

func TestRequestLoggerKeepsInboundRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("info", &buf)

	router := chi.NewRouter()
	router.Use(RequestLogger(logger))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "upstream-7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	entry := captureLog(t, &buf)
	if entry["request_id"] != "upstream-7" {
		t.Errorf("expected inbound request id to be kept, got %v", entry["request_id"])
	}
}
