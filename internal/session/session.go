// Package session holds the authenticated caller's credentials for the life
// of a request. The backend's opaque bearer token, role, workspace, and
// capability set are minted into a signed cookie at login and cleared at
// logout; nothing session-shaped is read from anywhere else.
package session

import "context"

// Role is the coarse account role. The backend is the enforcement point;
// the gateway uses the role only to decide what to render and route.
type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)

// Session is the authenticated caller's credential bundle.
type Session struct {
	// Token is the backend bearer credential, treated as opaque.
	Token        string
	Role         Role
	Workspace    string
	Capabilities Set
}

// IsOwner reports whether the session has the owner role.
func (s *Session) IsOwner() bool {
	return s.Role == RoleOwner
}

// Allows reports whether the session may access a dashboard section.
// Owners may access everything regardless of the capability set.
func (s *Session) Allows(c Capability) bool {
	if s.IsOwner() {
		return true
	}
	return s.Capabilities.Allows(c)
}

// Sections returns the dashboard sections this session may navigate to, in
// navigation order. Sections outside the set are never rendered.
func (s *Session) Sections() []Capability {
	if s.IsOwner() {
		return append([]Capability(nil), AllCapabilities...)
	}
	out := make([]Capability, 0, len(AllCapabilities))
	for _, c := range AllCapabilities {
		if s.Capabilities.Allows(c) {
			out = append(out, c)
		}
	}
	return out
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession attaches a session to a request context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session if the request is authenticated.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}
