package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vocab-quiz-service/internal/domain"
)

// Store is an in-memory word repository: sets, words and leaderboard rows.
// It backs demos and tests when no Postgres is configured.
type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	words       map[string]domain.Word
	sets        map[string]domain.Set
	leaderboard []domain.LeaderboardEntry
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock allows deterministic timestamps in tests.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:   now,
		words: make(map[string]domain.Word),
		sets:  make(map[string]domain.Set),
	}
}

func (s *Store) GetSetByID(_ context.Context, id string) (domain.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[id]
	if !ok {
		return domain.Set{}, domain.ErrSetNotFound
	}
	return cloneSet(set), nil
}

// GetWordsByIDs returns the words that exist among ids, in ids order.
// Unknown ids are skipped.
func (s *Store) GetWordsByIDs(_ context.Context, ids []string) ([]domain.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	words := make([]domain.Word, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if w, ok := s.words[id]; ok {
			words = append(words, w)
		}
	}
	return words, nil
}

func (s *Store) ListSets(_ context.Context) ([]domain.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sets := make([]domain.Set, 0, len(s.sets))
	for _, set := range s.sets {
		sets = append(sets, cloneSet(set))
	}
	sort.Slice(sets, func(i, j int) bool {
		if !sets[i].CreatedAt.Equal(sets[j].CreatedAt) {
			return sets[i].CreatedAt.Before(sets[j].CreatedAt)
		}
		return sets[i].ID < sets[j].ID
	})
	return sets, nil
}

// ImportSet stores rows and a set referencing them under one lock.
func (s *Store) ImportSet(_ context.Context, name string, rows []domain.WordInput) (domain.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id := uuid.NewString()
		s.words[id] = row.WithID(id)
		ids = append(ids, id)
	}
	set := domain.Set{ID: uuid.NewString(), Name: name, WordIDs: ids, CreatedAt: s.now()}
	s.sets[set.ID] = set
	return cloneSet(set), nil
}

func (s *Store) InsertLeaderboardEntry(_ context.Context, entry domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	s.leaderboard = append(s.leaderboard, entry)
	return nil
}

// GetTopLeaderboard orders a set's entries by score, highest first; equal
// scores keep insertion order.
func (s *Store) GetTopLeaderboard(_ context.Context, setID string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []domain.LeaderboardEntry
	for _, e := range s.leaderboard {
		if e.SetID == setID {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Seed inserts a set with its words directly, keeping the given ids.
func (s *Store) Seed(set domain.Set, words []domain.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range words {
		s.words[w.ID] = w
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = s.now()
	}
	s.sets[set.ID] = cloneSet(set)
}

func cloneSet(set domain.Set) domain.Set {
	set.WordIDs = append([]string(nil), set.WordIDs...)
	return set
}
