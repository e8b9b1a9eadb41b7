package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermissions(t *testing.T) {
	t.Run("grants flagged sections only", func(t *testing.T) {
		s := ParsePermissions(`{"inbox": true, "bookings": true, "leads": false}`)
		assert.True(t, s.Allows(CapInbox))
		assert.True(t, s.Allows(CapBookings))
		assert.False(t, s.Allows(CapLeads))
		assert.False(t, s.Allows(CapInventory))
	})

	t.Run("empty and malformed maps grant nothing", func(t *testing.T) {
		assert.Empty(t, ParsePermissions(""))
		assert.Empty(t, ParsePermissions("{not json"))
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		s := ParsePermissions(`{"payments": true, "inbox": true}`)
		assert.Equal(t, []Capability{CapInbox}, s.List())
	})
}

func TestSessionAllows(t *testing.T) {
	owner := &Session{Role: RoleOwner}
	staff := &Session{Role: RoleStaff, Capabilities: NewSet(CapBookings)}

	assert.True(t, owner.Allows(CapInventory), "owner holds every capability")
	assert.True(t, staff.Allows(CapBookings))
	assert.False(t, staff.Allows(CapInbox))
}

func TestSessionSections(t *testing.T) {
	owner := &Session{Role: RoleOwner}
	assert.Equal(t, AllCapabilities, owner.Sections())

	staff := &Session{Role: RoleStaff, Capabilities: NewSet(CapLeads, CapInbox)}
	assert.Equal(t, []Capability{CapInbox, CapLeads}, staff.Sections(),
		"sections keep navigation order and exclude ungranted ones")
}

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret", "frontdesk_session", time.Hour, false)

	original := &Session{
		Token:        "backend-token",
		Role:         RoleStaff,
		Workspace:    "wellness-spa",
		Capabilities: NewSet(CapBookings, CapInbox),
	}
	cookie, err := codec.Issue(original)
	require.NoError(t, err)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/app/bookings", nil)
	req.AddCookie(cookie)

	decoded, err := codec.Decode(req)
	require.NoError(t, err)
	assert.Equal(t, original.Token, decoded.Token)
	assert.Equal(t, original.Role, decoded.Role)
	assert.Equal(t, original.Workspace, decoded.Workspace)
	assert.True(t, decoded.Allows(CapBookings))
	assert.False(t, decoded.Allows(CapLeads))
}

func TestCodecRejectsBadCookies(t *testing.T) {
	codec := NewCodec("test-secret", "frontdesk_session", time.Hour, false)

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := codec.Decode(req)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("tampered signature", func(t *testing.T) {
		other := NewCodec("different-secret", "frontdesk_session", time.Hour, false)
		cookie, err := other.Issue(&Session{Token: "t", Role: RoleOwner})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		_, err = codec.Decode(req)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("expired session", func(t *testing.T) {
		short := NewCodec("test-secret", "frontdesk_session", -time.Minute, false)
		cookie, err := short.Issue(&Session{Token: "t", Role: RoleOwner})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		_, err = codec.Decode(req)
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestCodecRequiresSecret(t *testing.T) {
	codec := NewCodec("", "frontdesk_session", time.Hour, false)
	_, err := codec.Issue(&Session{Token: "t", Role: RoleOwner})
	require.Error(t, err)
}

func TestClearCookie(t *testing.T) {
	codec := NewCodec("s", "frontdesk_session", time.Hour, true)
	cookie := codec.Clear()
	assert.Equal(t, -1, cookie.MaxAge)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Secure)
}

func TestContextRoundTrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s := &Session{Role: RoleOwner}

	_, ok := FromContext(req.Context())
	assert.False(t, ok)

	ctx := WithSession(req.Context(), s)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)
}
