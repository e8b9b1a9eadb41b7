package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/careops/frontdesk/internal/session"
)

// withRouteParams attaches chi URL parameters to a request the way the
// router would.
func withRouteParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSession attaches an authenticated session to a request.
func withSession(r *http.Request, sess *session.Session) *http.Request {
	return r.WithContext(session.WithSession(r.Context(), sess))
}

// countingBackend wraps an httptest server and counts requests per
// method+path so tests can assert which backend calls happened.
type countingBackend struct {
	*httptest.Server
	hits map[string]int
}

func newCountingBackend(handler func(w http.ResponseWriter, r *http.Request)) *countingBackend {
	b := &countingBackend{hits: map[string]int{}}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits[r.Method+" "+r.URL.Path]++
		handler(w, r)
	}))
	return b
}

func (b *countingBackend) total() int {
	n := 0
	for _, c := range b.hits {
		n += c
	}
	return n
}
