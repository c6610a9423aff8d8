package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/logging"
)

func TestSetRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{SetReader: sampleStore()}
	repo := NewSetRepository(client, loader, time.Minute)

	set, err := repo.GetSetByID(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get set: %v", err)
	}
	if set.Name != "Sample" || set.WordCount() != 2 {
		t.Fatalf("unexpected set %+v", set)
	}
	if !mr.Exists("vocab:set:s1") {
		t.Fatalf("expected set to be cached in redis")
	}
	if ttl := mr.TTL("vocab:set:s1"); ttl < time.Minute || ttl > 66*time.Second {
		t.Fatalf("expected ttl with up to 10%% jitter, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	_, _ = repo.GetSetByID(context.Background(), "s1")
	if loader.setCalls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.setCalls)
	}
}

func TestSetRepositoryWordsMGetAndBackfill(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{SetReader: sampleStore()}
	repo := NewSetRepository(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	words, err := repo.GetWordsByIDs(ctx, []string{"w2", "w1"})
	if err != nil {
		t.Fatalf("get words: %v", err)
	}
	if len(words) != 2 || words[0].ID != "w2" || words[1].ID != "w1" {
		t.Fatalf("expected request order, got %+v", words)
	}
	if !mr.Exists("vocab:word:w1") || !mr.Exists("vocab:word:w2") {
		t.Fatalf("expected words to be backfilled")
	}

	words, err = repo.GetWordsByIDs(ctx, []string{"w1", "w2", "gone"})
	if err != nil {
		t.Fatalf("get words: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected unknown id to be skipped, got %+v", words)
	}
	if loader.wordCalls != 2 {
		t.Fatalf("expected second call to only load the miss, calls=%d", loader.wordCalls)
	}
	if got := loader.lastWordIDs; len(got) != 1 || got[0] != "gone" {
		t.Fatalf("expected only the miss to be loaded, got %v", got)
	}
	if words[0].Synonym1 == nil || *words[0].Synonym1 != "clear" {
		t.Fatalf("optional fields must survive the cache round trip, got %+v", words[0])
	}
}

func TestSetRepositoryFallsBackWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	repo := NewSetRepository(client, sampleStore(), time.Minute)
	if _, err := repo.GetSetByID(context.Background(), "s1"); err != nil {
		t.Fatalf("expected loader fallback, got %v", err)
	}
	words, err := repo.GetWordsByIDs(context.Background(), []string{"w1"})
	if err != nil || len(words) != 1 {
		t.Fatalf("expected loader fallback for words, got %v %v", words, err)
	}
	if _, err := repo.GetSetByID(context.Background(), "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPlayStorePublishesLiveness(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	plays := NewPlayStore(newClient(mr), 30*time.Minute, logging.Discard())
	service, err := app.NewPlayService(sampleStore(), plays, time.Second, logging.Discard(), app.NoopRecorder{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	play, err := service.Start(context.Background(), "s1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	key := "vocab:play:" + play.ID()
	if got, err := mr.Get(key); err != nil || got != "s1" {
		t.Fatalf("expected liveness key with set id, got %q %v", got, err)
	}
	if _, ok := plays.Get(play.ID()); !ok {
		t.Fatalf("expected play to be registered locally")
	}

	mr.FastForward(20 * time.Minute)
	plays.Touch(play.ID())
	if ttl := mr.TTL(key); ttl != 30*time.Minute {
		t.Fatalf("expected touch to refresh the liveness ttl, got %v", ttl)
	}

	plays.Retain(play.ID(), 5*time.Minute)
	if ttl := mr.TTL(key); ttl != 5*time.Minute {
		t.Fatalf("expected retention ttl, got %v", ttl)
	}

	service.Finish(play.ID())
	if mr.Exists(key) {
		t.Fatalf("expected liveness key to be removed")
	}
	if _, ok := plays.Get(play.ID()); ok {
		t.Fatalf("expected play to be removed")
	}
}

func TestPlayStoreSurvivesRedisOutage(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	plays := NewPlayStore(newClient(mr), time.Minute, logging.Discard())
	service, err := app.NewPlayService(sampleStore(), plays, time.Second, logging.Discard(), app.NoopRecorder{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	play, err := service.Start(context.Background(), "s1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	mr.Close()
	plays.Touch(play.ID())
	if got, ok := plays.Get(play.ID()); !ok || got != play {
		t.Fatalf("expected local play while redis is down")
	}
	plays.Delete(play.ID())
	if _, ok := plays.Get(play.ID()); ok {
		t.Fatalf("expected play to be removed")
	}
}

type countingLoader struct {
	app.SetReader
	setCalls    int
	wordCalls   int
	lastWordIDs []string
}

func (l *countingLoader) GetSetByID(ctx context.Context, id string) (domain.Set, error) {
	l.setCalls++
	return l.SetReader.GetSetByID(ctx, id)
}

func (l *countingLoader) GetWordsByIDs(ctx context.Context, ids []string) ([]domain.Word, error) {
	l.wordCalls++
	l.lastWordIDs = ids
	return l.SetReader.GetWordsByIDs(ctx, ids)
}

func sampleStore() *memory.Store {
	synonym := "clear"
	store := memory.NewStore()
	store.Seed(domain.Set{ID: "s1", Name: "Sample", WordIDs: []string{"w1", "w2"}}, []domain.Word{
		{ID: "w1", Word: "lucid", Meaning: "easy to understand", Distractor1: "a", Distractor2: "b", Distractor3: "c", Synonym1: &synonym, Example: "x"},
		{ID: "w2", Word: "terse", Meaning: "brief", Distractor1: "a", Distractor2: "b", Distractor3: "c", Example: "y"},
	})
	return store
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
