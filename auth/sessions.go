package auth

import (
	"context"
	"sync"
	"time"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/utils"
)

// SessionStore keeps opaque session tokens. GetSession reports ok=false for
// unknown or expired sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, user *models.User) (*models.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	Close() error
}

func newSession(user *models.User, ttl time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:        utils.GenerateSessionID(),
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

type MemorySessionStore struct {
	sessions map[string]*models.Session
	mutex    sync.RWMutex
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	store := &MemorySessionStore{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}

	go store.cleanupExpiredSessions(time.Hour)

	return store
}

func (s *MemorySessionStore) CreateSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session := newSession(user, s.ttl)

	s.mutex.Lock()
	s.sessions[session.ID] = session
	s.mutex.Unlock()

	return session, nil
}

func (s *MemorySessionStore) GetSession(ctx context.Context, sessionID string) (*models.Session, bool, error) {
	s.mutex.RLock()
	session, exists := s.sessions[sessionID]
	s.mutex.RUnlock()
	if !exists {
		return nil, false, nil
	}

	if time.Now().After(session.ExpiresAt) {
		s.mutex.Lock()
		delete(s.sessions, sessionID)
		s.mutex.Unlock()
		return nil, false, nil
	}

	return session, true, nil
}

func (s *MemorySessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemorySessionStore) DeleteUserSessions(ctx context.Context, userID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemorySessionStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *MemorySessionStore) cleanupExpiredSessions(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *MemorySessionStore) sweep(now time.Time) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cleaned := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			cleaned++
		}
	}
	if cleaned > 0 {
		utils.LogInfo("Cleaned up %d expired sessions", cleaned)
	}
	return cleaned
}
