package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SweepInterval is the time between expiry sweeps.
const SweepInterval = time.Minute

// Store keeps sessions in memory with TTL expiry. Nothing is persisted;
// uploads and reports die with the session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Get returns the session with the given id, if present.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// GetOrCreate returns the session with the given id, creating a fresh one
// when the id is empty or unknown. The second return value reports whether
// a new session was created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess, false
		}
	}
	sess := &Session{
		id:      uuid.NewString(),
		touched: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run sweeps expired sessions until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	log.Info().Dur("ttl", s.ttl).Msg("starting session sweeper")

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopping session sweeper")
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.expired(s.ttl, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Debug().Int("removed", removed).Int("remaining", len(s.sessions)).Msg("swept expired sessions")
	}
}
