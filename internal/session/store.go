package session

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dispatch-admin/internal/apperr"
)

// RoleCourier is the role carried by courier tokens.
const RoleCourier = "domiciliario"

// RoleAdmin is the role carried by the operator token.
const RoleAdmin = "admin"

// User is the authenticated identity embedded in the bearer token.
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// claims mirrors the backend token payload. Signature verification is the
// backend's job; the client only reads identity and expiry.
type claims struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  string `json:"rol"`
	jwt.RegisteredClaims
}

// Store holds the bearer credential and identity for one application
// session. Expired credentials are cleared on the next validity check.
type Store struct {
	mu        sync.Mutex
	token     string
	user      *User
	expiresAt time.Time
	now       func() time.Time
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// FromToken builds a store pre-seeded from a bearer token, decoding the
// identity and expiry from its claims. An empty token yields an empty store.
func FromToken(token string) (*Store, error) {
	s := NewStore()
	if strings.TrimSpace(token) == "" {
		return s, nil
	}

	user, expiresAt, err := decode(token)
	if err != nil {
		return nil, err
	}
	s.Set(token, user, expiresAt)
	return s, nil
}

func decode(token string) (User, time.Time, error) {
	var c claims
	parser := jwt.NewParser()
	t, _, err := parser.ParseUnverified(token, &c)
	if err != nil || t == nil {
		return User{}, time.Time{}, apperr.ErrUnauthorized
	}

	var expiresAt time.Time
	if c.ExpiresAt != nil {
		expiresAt = c.ExpiresAt.Time
	}
	user := User{
		ID:    c.Subject,
		Name:  c.Name,
		Email: c.Email,
		Role:  strings.ToLower(c.Role),
	}
	return user, expiresAt, nil
}

// Set stores the credential and identity. A zero expiresAt means the token
// carries no expiry and never goes stale client-side.
func (s *Store) Set(token string, user User, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	s.expiresAt = expiresAt
}

// Clear drops the credential and identity.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.expiresAt = time.Time{}
}

// IsAuthenticated reports whether a non-expired credential is held.
// An expired credential is cleared as a side effect, mirroring the
// redirect-to-login branch of the UI.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return false
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		s.token = ""
		s.user = nil
		s.expiresAt = time.Time{}
		return false
	}
	return true
}

// Token returns the bearer token, or empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the authenticated identity, or false when none.
func (s *Store) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsCourier reports whether the session belongs to a courier identity.
func (s *Store) IsCourier() bool {
	u, ok := s.User()
	return ok && u.Role == RoleCourier
}

// WithClock overrides the time source, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
	return s
}
