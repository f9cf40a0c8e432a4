package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// DefaultLifetime caps how long a session stays valid after sign-in.
// This is a fixed re-authentication policy, not a sliding window: token
// refresh activity does not extend it.
const DefaultLifetime = 24 * time.Hour

// ErrNoSession is returned when a request carries no usable session.
// Missing, malformed, tampered and expired tokens all collapse into this
// one error; callers treat them all as "unauthenticated".
var ErrNoSession = errors.New("no valid session")

// Session is the identity and provider credential set minted at sign-in.
// It exists only as a signed token held by the client; the server never
// persists it, which also means it cannot be revoked before expiry.
type Session struct {
	UserID    string
	Name      string
	AvatarURL string

	AccessToken       string
	RefreshToken      string
	AccessTokenExpiry time.Time

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasProviderToken reports whether the session carries a provider access
// token. A session without one cannot authorize calendar calls.
func (s *Session) HasProviderToken() bool {
	return s.AccessToken != ""
}

// Token converts the session's provider credentials into an oauth2 token.
// The refresh token lets the oauth2 transport renew an expired access
// token transparently during upstream calls.
func (s *Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Expiry:       s.AccessTokenExpiry,
		TokenType:    "Bearer",
	}
}

// claims is the JWT payload a session serializes to. The token is signed
// but not encrypted: it is tamper-evident, not secret.
type claims struct {
	jwt.RegisteredClaims

	Name              string `json:"name,omitempty"`
	Picture           string `json:"picture,omitempty"`
	AccessToken       string `json:"accessToken,omitempty"`
	RefreshToken      string `json:"refreshToken,omitempty"`
	AccessTokenExpiry int64  `json:"accessTokenExpires,omitempty"`
}

// Manager issues and verifies signed session tokens.
type Manager struct {
	secret   []byte
	lifetime time.Duration
	secure   bool
}

// NewManager creates a session manager signing with the given secret.
// Cookies are marked Secure when secure is set (production deployments).
func NewManager(secret []byte, lifetime time.Duration, secure bool) *Manager {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Manager{
		secret:   secret,
		lifetime: lifetime,
		secure:   secure,
	}
}

// Issue serializes a session into a signed token. The expiry is fixed at
// issuance time plus the configured lifetime. A zero IssuedAt means now.
func (m *Manager) Issue(s Session) (string, error) {
	if s.IssuedAt.IsZero() {
		s.IssuedAt = time.Now()
	}
	expiry := s.IssuedAt.Add(m.lifetime)

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		Name:         s.Name,
		Picture:      s.AvatarURL,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
	if !s.AccessTokenExpiry.IsZero() {
		c.AccessTokenExpiry = s.AccessTokenExpiry.Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed session token. Any failure yields
// ErrNoSession so callers never need to distinguish why a token was bad.
func (m *Manager) Verify(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrNoSession
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}

	s := &Session{
		UserID:       c.Subject,
		Name:         c.Name,
		AvatarURL:    c.Picture,
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
	}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	if c.AccessTokenExpiry != 0 {
		s.AccessTokenExpiry = time.Unix(c.AccessTokenExpiry, 0)
	}
	return s, nil
}
