// ABOUTME: Server-side login sessions keyed by an opaque cookie id
// ABOUTME: Defines the Session record, the Store interface, and backend selection
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/harperreed/gcontacts/config"
	"github.com/harperreed/gcontacts/models"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Session binds a browser to the OAuth token and identity attributes
// obtained at login.
type Session struct {
	ID         string          `json:"id"`
	Token      *oauth2.Token   `json:"token"`
	Attributes models.UserInfo `json:"attributes"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// New creates a session with a random id that expires after ttl.
func New(token *oauth2.Token, attrs models.UserInfo, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         uuid.NewString(),
		Token:      token,
		Attributes: attrs,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Get returns ErrNotFound for missing or expired ids.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns the store selected by cfg.SessionBackend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.SessionBackend {
	case config.BackendSQLite:
		return OpenSQLite(cfg.SessionDBPath())
	case config.BackendBadger:
		return OpenBadger(cfg.BadgerDir())
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

func encode(s *Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}
