// Package availability fetches open slots for a (service, date) pair and
// guarantees that only the most recently issued request for a given draft can
// update state. Rapid date or service changes issue overlapping requests;
// a response for a superseded pair is discarded, never applied.
package availability

import (
	"context"
	"sync"

	"github.com/careops/frontdesk/pkg/logging"
)

// Lister fetches the ordered slot list for a service on a single day.
type Lister interface {
	Availability(ctx context.Context, serviceID int, date string) ([]string, error)
}

// Result is the outcome of one availability fetch.
type Result struct {
	ServiceID int
	Date      string
	Slots     []string
	// Err is the fetch error, if any. An errored fetch still counts as the
	// current result: the caller shows an empty list with an error
	// affordance instead of stale slots.
	Err error
	// Superseded is true when a newer fetch for the same key was issued
	// before this one resolved. A superseded result must not be applied.
	Superseded bool
}

// Fetcher serializes availability fetches per key (one key per draft).
type Fetcher struct {
	client Lister
	logger *logging.Logger

	mu  sync.Mutex
	gen map[string]uint64
}

// NewFetcher creates a fetcher around a backend client.
func NewFetcher(client Lister, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Fetcher{
		client: client,
		logger: logger.Component("availability"),
		gen:    make(map[string]uint64),
	}
}

// Refresh fetches slots for (serviceID, date) under the given key. It bumps
// the key's generation before issuing the request; at resolution the result
// is marked Superseded unless its generation is still current.
func (f *Fetcher) Refresh(ctx context.Context, key string, serviceID int, date string) Result {
	f.mu.Lock()
	f.gen[key]++
	token := f.gen[key]
	f.mu.Unlock()

	slots, err := f.client.Availability(ctx, serviceID, date)

	f.mu.Lock()
	current := f.gen[key] == token
	f.mu.Unlock()

	result := Result{
		ServiceID:  serviceID,
		Date:       date,
		Slots:      slots,
		Err:        err,
		Superseded: !current,
	}
	if result.Superseded {
		f.logger.Debug("discarding superseded availability response",
			"key", key,
			"service_id", serviceID,
			"date", date,
		)
	} else if err != nil {
		f.logger.Warn("availability fetch failed",
			"service_id", serviceID,
			"date", date,
			"error", err,
		)
	}
	return result
}

// Forget drops the generation state for a key, e.g. when its draft is
// deleted.
func (f *Fetcher) Forget(key string) {
	f.mu.Lock()
	delete(f.gen, key)
	f.mu.Unlock()
}
