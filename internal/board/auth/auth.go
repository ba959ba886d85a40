// Package auth issues and verifies the board's session cookies. Sessions are
// short-lived HS256 tokens carried in an httpOnly cookie.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CookieName carries the session token.
	CookieName = "access_token"
	// bearerPrefix prefixes the cookie value, matching the Authorization
	// header shape so the same token works in either position.
	bearerPrefix = "Bearer "
)

var (
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored hash.
func VerifyPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Sessions issues and verifies session tokens.
type Sessions struct {
	secret       []byte
	ttl          time.Duration
	cookieSecure bool
	now          func() time.Time
}

// Option configures a Sessions issuer.
type Option func(*Sessions)

// WithClock overrides the time source, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sessions) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSecureCookies marks issued cookies Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Sessions) { s.cookieSecure = secure }
}

// NewSessions builds a session issuer. The TTL defaults to 30 minutes when
// not positive.
func NewSessions(secret string, ttl time.Duration, opts ...Option) (*Sessions, error) {
	if secret == "" {
		return nil, errors.New("auth: empty session secret")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for the given username.
func (s *Sessions) Issue(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

// Verify checks a token's signature and expiry and returns its subject.
func (s *Sessions) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// SetCookie writes the session cookie for an issued token.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    bearerPrefix + token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest extracts and verifies the session from the request cookie. It
// returns the session's username.
func (s *Sessions) FromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrInvalidToken
	}
	value := cookie.Value
	if !strings.HasPrefix(value, bearerPrefix) {
		return "", ErrInvalidToken
	}
	return s.Verify(strings.TrimPrefix(value, bearerPrefix))
}
