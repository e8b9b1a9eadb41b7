package session

import (
	"encoding/json"
	"sort"
)

// Capability is a dashboard section a session may access. Owners hold every
// capability; staff hold the subset granted at invite time.
type Capability string

const (
	CapInbox     Capability = "inbox"
	CapBookings  Capability = "bookings"
	CapLeads     Capability = "leads"
	CapInventory Capability = "inventory"
)

// AllCapabilities is the full section list, in navigation order.
var AllCapabilities = []Capability{CapInbox, CapBookings, CapLeads, CapInventory}

// Set is a capability membership set.
type Set map[Capability]struct{}

// NewSet builds a set from explicit capabilities.
func NewSet(caps ...Capability) Set {
	s := Set{}
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// OwnerSet returns the full capability set.
func OwnerSet() Set {
	return NewSet(AllCapabilities...)
}

// ParsePermissions decodes the backend's JSON permission map
// (e.g. {"inbox": true, "leads": false}) into a Set. Unknown keys are
// ignored; a parse failure yields the empty set rather than an error, since a
// staff account with an unreadable map should see nothing, not everything.
func ParsePermissions(raw string) Set {
	s := Set{}
	if raw == "" {
		return s
	}
	var flags map[string]bool
	if err := json.Unmarshal([]byte(raw), &flags); err != nil {
		return s
	}
	for _, c := range AllCapabilities {
		if flags[string(c)] {
			s[c] = struct{}{}
		}
	}
	return s
}

// Allows reports whether the set contains the capability.
func (s Set) Allows(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the capabilities in stable order.
func (s Set) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
