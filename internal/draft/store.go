// Package draft persists in-progress booking wizards between requests. A
// draft is as ephemeral as the browser tab it stands in for: it is deleted on
// a confirmed booking and expires on its TTL otherwise.
package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careops/frontdesk/internal/wizard"
)

// ErrNotFound is returned for unknown or expired draft ids.
var ErrNotFound = errors.New("draft: not found")

// Store keeps wizard drafts keyed by id.
type Store interface {
	// Create stores a new draft and returns its id.
	Create(ctx context.Context, w *wizard.Wizard) (string, error)
	Get(ctx context.Context, id string) (*wizard.Wizard, error)
	Put(ctx context.Context, id string, w *wizard.Wizard) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	wizard    wizard.Wizard
	expiresAt time.Time
}

// MemoryStore is the single-process default store.
type MemoryStore struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an in-memory store with the given draft TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context, w *wizard.Wizard) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.entries[id] = memoryEntry{wizard: *w, expiresAt: time.Now().Add(s.ttl)}
	s.sweepLocked()
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*wizard.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	w := entry.wizard
	return &w, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, w *wizard.Wizard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, id)
		return ErrNotFound
	}
	// Writes refresh the TTL: an active visitor keeps their draft alive.
	s.entries[id] = memoryEntry{wizard: *w, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// sweepLocked drops expired entries. Called opportunistically on Create so
// abandoned drafts do not accumulate; callers hold s.mu.
func (s *MemoryStore) sweepLocked() {
	now := time.Now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
