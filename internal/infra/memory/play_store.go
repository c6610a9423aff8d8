package memory

import (
	"sync"
	"time"

	"vocab-quiz-service/internal/app"
)

type playEntry struct {
	play *app.Play
	// zero while the play is running
	expiresAt time.Time
}

// PlayStore is an in-memory implementation of app.PlayRepository. Retained
// plays are dropped lazily, on lookup or on the next Save.
type PlayStore struct {
	mu    sync.RWMutex
	plays map[string]playEntry
	clock func() time.Time
}

func NewPlayStore() *PlayStore {
	return &PlayStore{
		plays: make(map[string]playEntry),
		clock: time.Now,
	}
}

// Save registers a running play and sweeps retained plays whose window passed.
func (s *PlayStore) Save(play *app.Play) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.plays {
		if s.expired(entry) {
			delete(s.plays, id)
		}
	}
	s.plays[play.ID()] = playEntry{play: play}
}

func (s *PlayStore) Get(id string) (*app.Play, bool) {
	s.mu.RLock()
	entry, ok := s.plays[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(entry) {
		s.mu.Lock()
		if current, ok := s.plays[id]; ok && s.expired(current) {
			delete(s.plays, id)
		}
		s.mu.Unlock()
		return nil, false
	}
	return entry.play, true
}

// Touch is a no-op: running plays never expire in memory.
func (s *PlayStore) Touch(string) {}

func (s *PlayStore) Retain(id string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.plays[id]
	if !ok {
		return
	}
	entry.expiresAt = s.clock().Add(ttl)
	s.plays[id] = entry
}

func (s *PlayStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plays, id)
}

// Len reports how many plays are registered, expired ones included until
// they are next looked up.
func (s *PlayStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plays)
}

func (s *PlayStore) expired(entry playEntry) bool {
	return !entry.expiresAt.IsZero() && !entry.expiresAt.After(s.clock())
}
