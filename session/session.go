package session

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

var (
	ErrNoToken      = errors.New("no session token present")
	ErrTokenExpired = errors.New("session token expired")
)

type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

// Manager holds the bearer token for the current session. The token is
// populated at login and cleared at logout by the caller; nothing in the
// booking flow mutates it.
type Manager struct {
	token        string
	timeProvider TimeProvider
}

func New(token string) *Manager {
	return &Manager{
		token:        token,
		timeProvider: realTimeProvider{},
	}
}

func NewWithTimeProvider(token string, tp TimeProvider) *Manager {
	return &Manager{
		token:        token,
		timeProvider: tp,
	}
}

// FromEnv loads the token from the RESENHA_TOKEN environment variable,
// reading .env first when present.
func FromEnv() (*Manager, error) {
	_ = godotenv.Load()
	token := os.Getenv("RESENHA_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("RESENHA_TOKEN is not set: %w", ErrNoToken)
	}
	return New(token), nil
}

// Token returns the bearer token, or an error when it is absent or already
// expired. Absence is a client-side precondition failure; callers must not
// issue the request.
func (m *Manager) Token() (string, error) {
	if m.token == "" {
		return "", ErrNoToken
	}
	if m.isExpired() {
		return "", ErrTokenExpired
	}
	return m.token, nil
}

// isExpired reads the exp claim without verifying the signature; the server
// is the authority, this only spares a doomed round trip. Opaque tokens and
// tokens without an exp claim are never considered locally expired.
func (m *Manager) isExpired() bool {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(m.token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return m.timeProvider.Now().After(claims.ExpiresAt.Time)
}
