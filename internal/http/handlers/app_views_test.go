package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/pkg/logging"
)

func TestLeadStatusUpdateReturnsReReadList(t *testing.T) {
	status := "new"
	be := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/api/leads/3/status":
			var payload struct {
				Status string `json:"status"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			status = payload.Status
			fmt.Fprint(w, `{"status":"ok"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/leads":
			fmt.Fprintf(w, `[{"id": 3, "email": "lead@example.com", "status": %q}]`, status)
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		}
	})
	defer be.Close()
	h := NewLeadsHandler(backend.NewClient(be.URL), "/login", logging.Default())

	body := strings.NewReader(`{"status":"contacted"}`)
	req := httptest.NewRequest(http.MethodPost, "/app/leads/3/status", body)
	req = withSession(withRouteParams(req, map[string]string{"leadID": "3"}), staffSession())
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Leads []backend.Lead `json:"leads"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Leads, 1)
	assert.Equal(t, "contacted", resp.Leads[0].Status)
	assert.Equal(t, 1, be.hits["GET /api/leads"])
}

func TestInboxSyncReturnsReReadList(t *testing.T) {
	synced := false
	be := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/inbox/sync":
			synced = true
			fmt.Fprint(w, `{"status":"ok"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/conversations":
			if synced {
				fmt.Fprint(w, `[{"id": 1, "contact_id": 9, "subject": "New inquiry"}]`)
			} else {
				fmt.Fprint(w, `[]`)
			}
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		}
	})
	defer be.Close()
	h := NewInboxHandler(backend.NewClient(be.URL), "/login", logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/app/inbox/sync", nil)
	req = withSession(req, staffSession())
	rec := httptest.NewRecorder()
	h.Sync(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Conversations []backend.Conversation `json:"conversations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, "New inquiry", resp.Conversations[0].Subject)
}

func TestInventoryDeleteReturnsReReadList(t *testing.T) {
	deleted := false
	be := newCountingBackend(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/api/inventory/5":
			deleted = true
			fmt.Fprint(w, `{"status":"ok"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/inventory":
			if deleted {
				fmt.Fprint(w, `[]`)
			} else {
				fmt.Fprint(w, `[{"id": 5, "name": "Gauze", "quantity": 10}]`)
			}
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		}
	})
	defer be.Close()
	h := NewInventoryHandler(backend.NewClient(be.URL), "/login", logging.Default())

	req := httptest.NewRequest(http.MethodDelete, "/app/inventory/5", nil)
	req = withSession(withRouteParams(req, map[string]string{"itemID": "5"}), staffSession())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []backend.InventoryItem `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
}
