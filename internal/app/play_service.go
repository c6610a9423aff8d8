package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vocab-quiz-service/internal/domain"
)

// SetReader abstracts where sets and their words are read from (Postgres, a cache, memory).
type SetReader interface {
	GetSetByID(ctx context.Context, id string) (domain.Set, error)
	GetWordsByIDs(ctx context.Context, ids []string) ([]domain.Word, error)
	ListSets(ctx context.Context) ([]domain.Set, error)
}

// SetWriter persists an imported file: its words and a set referencing them,
// all or nothing.
type SetWriter interface {
	ImportSet(ctx context.Context, name string, rows []domain.WordInput) (domain.Set, error)
}

// LeaderboardStore records and ranks submitted scores.
type LeaderboardStore interface {
	InsertLeaderboardEntry(ctx context.Context, entry domain.LeaderboardEntry) error
	GetTopLeaderboard(ctx context.Context, setID string, limit int) ([]domain.LeaderboardEntry, error)
}

// PlayRepository tracks running plays and keeps completed ones around until
// their score is submitted or the retention window passes.
type PlayRepository interface {
	Save(play *Play)
	Get(id string) (*Play, bool)
	// Touch marks a running play as alive.
	Touch(id string)
	// Retain keeps a play resolvable for ttl, then forgets it.
	Retain(id string, ttl time.Duration)
	Delete(id string)
}

// DefaultPlayRetention is how long a completed play accepts its score.
const DefaultPlayRetention = 30 * time.Minute

// PlayOption customizes a PlayService.
type PlayOption func(*PlayService)

// WithRandomSource replaces the per-play randomness, for deterministic tests.
func WithRandomSource(newRand func() Randomizer) PlayOption {
	return func(s *PlayService) { s.newRand = newRand }
}

// WithTicker replaces the wall-clock countdown ticker.
func WithTicker(fn TickerFunc) PlayOption {
	return func(s *PlayService) { s.newTicker = fn }
}

// WithRetention sets how long completed plays stay registered after their
// connection closes. Zero unregisters them immediately.
func WithRetention(d time.Duration) PlayOption {
	return func(s *PlayService) { s.retention = d }
}

// PlayService starts and tracks rounds.
type PlayService struct {
	sets      SetReader
	plays     PlayRepository
	duration  time.Duration
	retention time.Duration
	newRand   func() Randomizer
	newTicker TickerFunc
	logger    *slog.Logger
	metrics   Recorder
}

func NewPlayService(sets SetReader, plays PlayRepository, duration time.Duration, logger *slog.Logger, metrics Recorder, opts ...PlayOption) (*PlayService, error) {
	if duration <= 0 {
		return nil, &domain.ConfigurationError{Setting: "round.duration", Message: "must be positive"}
	}
	s := &PlayService{
		sets:      sets,
		plays:     plays,
		duration:  duration,
		retention: DefaultPlayRetention,
		newRand:   func() Randomizer { return NewRandom(nil) },
		newTicker: NewTimeTicker,
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start loads a set, shuffles its words and registers a new play. The caller
// owns running it with Play.Run and must call Finish afterwards.
func (s *PlayService) Start(ctx context.Context, setID string) (*Play, error) {
	set, err := s.sets.GetSetByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	words, err := s.sets.GetWordsByIDs(ctx, set.WordIDs)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("set %s: %w", setID, domain.ErrNoWords)
	}

	rnd := s.newRand()
	round := NewRound(set.ID, rnd)
	if err := round.Start(words); err != nil {
		return nil, err
	}

	play := newPlay(uuid.NewString(), round, s.duration, rnd, s.newTicker, s.logger, s.metrics)
	id := play.ID()
	play.touch = func() { s.plays.Touch(id) }
	s.plays.Save(play)
	s.metrics.RoundStarted(set.ID)
	s.logger.Info("round started", "play_id", play.ID(), "set_id", set.ID, "words", len(words))
	return play, nil
}

// Get returns a registered play, running or completed.
func (s *PlayService) Get(id string) (*Play, error) {
	play, ok := s.plays.Get(id)
	if !ok {
		return nil, domain.ErrPlayNotFound
	}
	return play, nil
}

// Finish is called once a play's connection is gone. Completed plays are
// retained so their score can still be submitted; anything else is dropped.
func (s *PlayService) Finish(id string) {
	play, ok := s.plays.Get(id)
	if !ok {
		return
	}
	if _, done := play.Summary(); done && s.retention > 0 {
		s.plays.Retain(id, s.retention)
		return
	}
	s.plays.Delete(id)
}
