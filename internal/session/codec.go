package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when a request carries no usable session cookie.
var ErrNoSession = errors.New("session: not authenticated")

// Codec mints and verifies the HMAC-signed session cookie.
type Codec struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewCodec creates a cookie codec. secret must be non-empty in production;
// an empty secret disables session issuance entirely.
func NewCodec(secret, cookieName string, ttl time.Duration, secure bool) *Codec {
	return &Codec{
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Token        string   `json:"tok"`
	Role         string   `json:"role"`
	Workspace    string   `json:"ws"`
	Capabilities []string `json:"caps"`
}

// Issue signs the session into a cookie.
func (c *Codec) Issue(s *Session) (*http.Cookie, error) {
	if len(c.secret) == 0 {
		return nil, errors.New("session: signing secret not configured")
	}

	now := time.Now()
	caps := make([]string, 0, len(s.Capabilities))
	for _, capability := range s.Capabilities.List() {
		caps = append(caps, string(capability))
	}
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Token:        s.Token,
		Role:         string(s.Role),
		Workspace:    s.Workspace,
		Capabilities: caps,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     c.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Decode extracts and verifies the session from a request. Tampered, expired,
// or absent cookies yield ErrNoSession.
func (c *Codec) Decode(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	claims := sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}

	caps := Set{}
	for _, name := range claims.Capabilities {
		caps[Capability(name)] = struct{}{}
	}
	return &Session{
		Token:        claims.Token,
		Role:         Role(claims.Role),
		Workspace:    claims.Workspace,
		Capabilities: caps,
	}, nil
}

// Clear returns an expired cookie that removes the session.
func (c *Codec) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
