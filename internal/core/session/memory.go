package session

import (
	"context"
	"sync"
	"time"

	"github.com/jeuanimo/expensegate/internal/core/domain"
)

// MemoryStore is the zero-setup Store used when no DATABASE_URL is
// configured. Sessions do not survive a restart, which is acceptable
// for a gateway whose whole point is to keep working when dependencies
// are absent.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]domain.Session)}
}

func (s *MemoryStore) Put(ctx context.Context, tokenHash string, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenHash] = sess
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, tokenHash string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[tokenHash]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
	return nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var removed int64
	for hash, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, hash)
			removed++
		}
	}
	return removed, nil
}
