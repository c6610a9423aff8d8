package redis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"vocab-quiz-service/internal/app"
)

// livenessTimeout bounds every liveness call; Touch runs inside the play loop.
const livenessTimeout = 250 * time.Millisecond

// PlayStore is a Redis-aware implementation of app.PlayRepository.
// Plays run in-process, so the store keeps a local map and uses Redis only
// to publish liveness (key vocab:play:{id} -> set id) for operators and
// other instances. The key lives for ttl and is refreshed on every Touch.
// A retained play's key expires with its retention window, and a completed
// play is only served while its key exists.
type PlayStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	mu     sync.RWMutex
	plays  map[string]*app.Play
}

func NewPlayStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *PlayStore {
	return &PlayStore{
		client: client,
		ttl:    ttl,
		logger: logger,
		plays:  make(map[string]*app.Play),
	}
}

func (s *PlayStore) Save(play *app.Play) {
	s.mu.Lock()
	s.plays[play.ID()] = play
	s.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), livenessTimeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key(play.ID()), play.SetID(), s.ttl).Err(); err != nil {
		s.logger.Debug("play liveness set failed", "play_id", play.ID(), "error", err)
	}
}

// Get serves the local play. Once a retained play's key has expired the
// play is dropped; Redis being unreachable keeps the local entry.
func (s *PlayStore) Get(id string) (*app.Play, bool) {
	s.mu.RLock()
	play, ok := s.plays[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), livenessTimeout)
	defer cancel()
	n, err := s.client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		s.logger.Debug("play liveness check failed", "play_id", id, "error", err)
		return play, true
	}
	if n == 0 {
		if _, done := play.Summary(); done {
			s.mu.Lock()
			delete(s.plays, id)
			s.mu.Unlock()
			return nil, false
		}
	}
	return play, true
}

// Touch re-publishes the liveness key of a running play.
func (s *PlayStore) Touch(id string) {
	s.mu.RLock()
	play, ok := s.plays[id]
	s.mu.RUnlock()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), livenessTimeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key(id), play.SetID(), s.ttl).Err(); err != nil {
		s.logger.Debug("play liveness refresh failed", "play_id", id, "error", err)
	}
}

func (s *PlayStore) Retain(id string, ttl time.Duration) {
	s.mu.RLock()
	play, ok := s.plays[id]
	s.mu.RUnlock()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), livenessTimeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key(id), play.SetID(), ttl).Err(); err != nil {
		s.logger.Debug("play retention set failed", "play_id", id, "error", err)
	}
	time.AfterFunc(ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.plays[id] == play {
			delete(s.plays, id)
		}
	})
}

func (s *PlayStore) Delete(id string) {
	s.mu.Lock()
	_, ok := s.plays[id]
	delete(s.plays, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), livenessTimeout)
	defer cancel()
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		s.logger.Debug("play liveness delete failed", "play_id", id, "error", err)
	}
}

func (s *PlayStore) key(id string) string {
	return "vocab:play:" + id
}
