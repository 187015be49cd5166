package server

import (
	"sync"
	"time"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

// sessionTTL is how long an idle round session survives. Stale sessions
// are pruned lazily on registry access; there is no background sweeper.
const sessionTTL = 2 * time.Hour

// gameSession holds one player's in-flight round. Round state is never
// persisted; losing the process loses the round.
type gameSession struct {
	mu       sync.Mutex
	round    *game.Round
	count    int
	lastSeen time.Time
}

// Sessions is a mutex-guarded registry of active rounds keyed by opaque
// bearer tokens.
type Sessions struct {
	mu      sync.Mutex
	byToken map[string]*gameSession
	now     func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{
		byToken: make(map[string]*gameSession),
		now:     time.Now,
	}
}

// Create registers a fresh session and returns its token.
func (s *Sessions) Create() (string, *gameSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	token := newID()
	sess := &gameSession{
		round:    game.NewRound(),
		lastSeen: s.now(),
	}
	s.byToken[token] = sess
	return token, sess
}

// Get looks up a session by token, refreshing its idle timer.
func (s *Sessions) Get(token string) (*gameSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	sess, ok := s.byToken[token]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

func (s *Sessions) pruneLocked() {
	cutoff := s.now().Add(-sessionTTL)
	for token, sess := range s.byToken {
		if sess.lastSeen.Before(cutoff) {
			delete(s.byToken, token)
		}
	}
}
