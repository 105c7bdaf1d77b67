package session

import (
	"context"
	"time"

	"github.com/jeuanimo/expensegate/internal/core/domain"
)

// DefaultTTL matches the lifetime the original deployment used.
const DefaultTTL = 24 * time.Hour

// Store keeps sessions across requests, keyed by token hash. Any
// implementation works as long as the client cannot forge an entry;
// the gateway ships an in-memory one and a Postgres one.
type Store interface {
	Put(ctx context.Context, tokenHash string, sess domain.Session) error
	// Get returns (nil, nil) when the token matches no session.
	Get(ctx context.Context, tokenHash string) (*domain.Session, error)
	// Delete is a no-op when the token matches no session.
	Delete(ctx context.Context, tokenHash string) error
	// DeleteExpired removes every session past its expiry, returning
	// how many went away.
	DeleteExpired(ctx context.Context) (int64, error)
}

// Manager owns the session lifetime policy: how long a session lives
// and when it stops being acceptable. Persistence is the Store's job.
type Manager struct {
	ttl time.Duration
	now func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{ttl: ttl, now: time.Now}
}

// Create stamps a fresh session for an authenticated owner.
func (m *Manager) Create(ownerID int64, displayName string) domain.Session {
	now := m.now()
	return domain.Session{
		OwnerID:     ownerID,
		DisplayName: displayName,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}
}

// Validate accepts a session only while now < ExpiresAt. Both failure
// kinds are redirect-class: the caller re-authenticates, never retries.
func (m *Manager) Validate(sess *domain.Session) error {
	if sess == nil {
		return domain.NewFault(domain.SessionMissing, "no session")
	}
	if !m.now().Before(sess.ExpiresAt) {
		return domain.NewFault(domain.SessionExpired, "session expired")
	}
	return nil
}

// Destroy clears a session value. Idempotent: destroying an absent or
// already-cleared session is fine. Removing the stored copy is the
// caller's job (it holds the token hash, the manager does not).
func (m *Manager) Destroy(sess *domain.Session) {
	if sess == nil {
		return
	}
	*sess = domain.Session{}
}
