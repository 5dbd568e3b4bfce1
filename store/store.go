// Package store keeps every active game session in memory, keyed by session
// id, and enforces the per-session shot cooldown. Session state is lost on
// process restart; clients detect that through a 404 and restart
// matchmaking.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultShootCooldown is the minimum time between accepted shots on one
// session.
const DefaultShootCooldown = time.Second

// Game is the store's view of a stored session.
type Game interface {
	// LobbyCode returns the session's shareable code, or "" when the
	// session cannot be discovered by code.
	LobbyCode() string
}

// Store is an in-memory session registry. It is safe for concurrent use;
// serializing mutations of an individual session is the session's own job.
type Store struct {
	mu         sync.RWMutex
	games      map[string]Game
	lastShotAt map[string]time.Time
	cooldown   time.Duration
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns an empty store with the given shot cooldown.
func New(cooldown time.Duration, opts ...Option) *Store {
	s := &Store{
		games:      make(map[string]Game),
		lastShotAt: make(map[string]time.Time),
		cooldown:   cooldown,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a session under id.
func (s *Store) Create(id string, g Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = g
}

// Get returns the session stored under id.
func (s *Store) Get(id string) (Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

// Has reports whether a session exists under id.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[id]
	return ok
}

// AllIDs lists every stored session id, sorted.
func (s *Store) AllIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindByLobbyCode scans for a session with the given code,
// case-insensitively. A linear scan is fine at this scale.
func (s *Store) FindByLobbyCode(code string) (string, Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, g := range s.games {
		lc := g.LobbyCode()
		if lc != "" && strings.EqualFold(lc, code) {
			return id, g, true
		}
	}
	return "", nil, false
}

// CanShoot reports whether the cooldown window for id has passed. The
// cooldown is keyed per session, not per player slot.
func (s *Store) CanShoot(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.lastShotAt[id]
	if !ok {
		return true
	}
	return s.now().Sub(t) >= s.cooldown
}

// CooldownRemaining returns how long until the next shot on id is accepted.
func (s *Store) CooldownRemaining(id string) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.lastShotAt[id]
	if !ok {
		return 0
	}
	elapsed := s.now().Sub(t)
	if elapsed >= s.cooldown {
		return 0
	}
	return s.cooldown - elapsed
}

// RecordShot stamps "now" as the last accepted shot for id.
func (s *Store) RecordShot(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastShotAt[id] = s.now()
}
