package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySessions is an in-process Sessions implementation. It backs
// tests and single-node deployments that run without Redis.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]memorySession

	// Now is the clock used for expiry checks; tests override it.
	Now func() time.Time
}

type memorySession struct {
	session Session
	expires time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		sessions: make(map[string]memorySession),
		Now:      time.Now,
	}
}

func (s *MemorySessions) Create(ctx context.Context, userID, username string) (string, error) {
	token := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{
		session: Session{UserID: userID, Username: username},
		expires: s.Now().Add(SessionTTL),
	}
	return token, nil
}

func (s *MemorySessions) Resolve(ctx context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[token]
	if !ok {
		return nil, ErrUnauthenticated
	}
	if !s.Now().Before(rec.expires) {
		delete(s.sessions, token)
		return nil, ErrUnauthenticated
	}
	sess := rec.session
	return &sess, nil
}

func (s *MemorySessions) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
