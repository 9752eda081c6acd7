package service

import (
	"sync"
	"time"

	"starsbot/games"
)

// GameSession is a user's in-progress bet: a game has been chosen and the
// engine is waiting for a typed bet amount. Choice carries the game-specific
// parameter (flip side, dice guess); it is zero for the other games.
type GameSession struct {
	UserID    int64
	Game      games.Type
	Choice    int
	CreatedAt time.Time
}

// sessionStore keeps at most one session per user, in memory only. Sessions
// do not survive a restart; the user simply picks a game again. Entries past
// the TTL are dropped lazily on access.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*GameSession
	ttl      time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[int64]*GameSession),
		ttl:      ttl,
	}
}

func (s *sessionStore) get(userID int64) (*GameSession, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(sess.CreatedAt) > s.ttl {
		s.delete(userID)
		return nil, false
	}
	return sess, true
}

// put overwrites any prior session for the user.
func (s *sessionStore) put(sess *GameSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = sess
}

func (s *sessionStore) delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// sweep removes all expired sessions.
func (s *sessionStore) sweep() {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for userID, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.ttl {
			delete(s.sessions, userID)
		}
	}
}
