package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

type countingLoader struct {
	app.SetReader
	setCalls  atomic.Int32
	wordCalls atomic.Int32
	wordIDs   [][]string
	mu        sync.Mutex
}

func (l *countingLoader) GetSetByID(ctx context.Context, id string) (domain.Set, error) {
	l.setCalls.Add(1)
	time.Sleep(10 * time.Millisecond)
	return l.SetReader.GetSetByID(ctx, id)
}

func (l *countingLoader) GetWordsByIDs(ctx context.Context, ids []string) ([]domain.Word, error) {
	l.wordCalls.Add(1)
	l.mu.Lock()
	l.wordIDs = append(l.wordIDs, append([]string(nil), ids...))
	l.mu.Unlock()
	return l.SetReader.GetWordsByIDs(ctx, ids)
}

func seededStore() *Store {
	store := NewStore()
	store.Seed(domain.Set{ID: "s1", Name: "One", WordIDs: []string{"w1", "w2"}}, []domain.Word{
		{ID: "w1", Word: "lucid"},
		{ID: "w2", Word: "terse"},
		{ID: "w3", Word: "candid"},
	})
	return store
}

func TestSetRepositoryCachesSets(t *testing.T) {
	loader := &countingLoader{SetReader: seededStore()}
	repo := NewSetRepository(loader, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.GetSetByID(context.Background(), "s1"); err != nil {
				t.Errorf("get set: %v", err)
			}
		}()
	}
	wg.Wait()
	if calls := loader.setCalls.Load(); calls != 1 {
		t.Fatalf("expected concurrent loads to collapse into one, got %d", calls)
	}

	_, _ = repo.GetSetByID(context.Background(), "s1")
	if calls := loader.setCalls.Load(); calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", calls)
	}
}

func TestSetRepositoryExpires(t *testing.T) {
	loader := &countingLoader{SetReader: seededStore()}
	repo := NewSetRepository(loader, time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetSetByID(context.Background(), "s1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetSetByID(context.Background(), "s1")
	if calls := loader.setCalls.Load(); calls != 2 {
		t.Fatalf("expected reload after ttl, got %d calls", calls)
	}
}

func TestSetRepositoryLoadsOnlyMissingWords(t *testing.T) {
	loader := &countingLoader{SetReader: seededStore()}
	repo := NewSetRepository(loader, time.Minute)
	ctx := context.Background()

	if _, err := repo.GetWordsByIDs(ctx, []string{"w1", "w2"}); err != nil {
		t.Fatalf("get words: %v", err)
	}
	words, err := repo.GetWordsByIDs(ctx, []string{"w3", "w1", "w2"})
	if err != nil {
		t.Fatalf("get words: %v", err)
	}
	if len(words) != 3 || words[0].ID != "w3" || words[2].ID != "w2" {
		t.Fatalf("expected words in request order, got %+v", words)
	}
	if loader.wordCalls.Load() != 2 {
		t.Fatalf("expected two loader calls, got %d", loader.wordCalls.Load())
	}
	if last := loader.wordIDs[1]; len(last) != 1 || last[0] != "w3" {
		t.Fatalf("expected only the miss to be loaded, got %v", last)
	}
}

func TestSetRepositoryDoesNotCacheNotFound(t *testing.T) {
	loader := &countingLoader{SetReader: seededStore()}
	repo := NewSetRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := repo.GetSetByID(context.Background(), "missing"); !domain.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if calls := loader.setCalls.Load(); calls != 2 {
		t.Fatalf("misses must not be cached, got %d calls", calls)
	}
}
