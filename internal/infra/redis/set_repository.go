package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// SetRepository caches sets and words in Redis as JSON and falls back to a
// loader on cache miss.
// Sets are stored as:  SET vocab:set:{setID}   <json>
// Words are stored as: SET vocab:word:{wordID} <json>
type SetRepository struct {
	client *redis.Client
	loader app.SetReader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSetRepository(client *redis.Client, loader app.SetReader, ttl time.Duration) *SetRepository {
	return &SetRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *SetRepository) GetSetByID(ctx context.Context, id string) (domain.Set, error) {
	if set, ok := r.cachedSet(ctx, id); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(id, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.cachedSet(ctx, id); ok {
			return set, nil
		}
		set, err := r.loader.GetSetByID(ctx, id)
		if err != nil {
			return domain.Set{}, err
		}
		if raw, err := json.Marshal(set); err == nil {
			_ = r.client.Set(ctx, setKey(id), raw, r.ttlWithJitter()).Err()
		}
		return set, nil
	})
	if err != nil {
		return domain.Set{}, err
	}
	return result.(domain.Set), nil
}

// GetWordsByIDs reads all ids with one MGET and loads the misses from the
// loader, writing them back in a pipeline.
func (r *SetRepository) GetWordsByIDs(ctx context.Context, ids []string) ([]domain.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = wordKey(id)
	}

	found := make(map[string]domain.Word, len(ids))
	var missing []string
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		missing = ids
	} else {
		for i, v := range values {
			raw, ok := v.(string)
			var w domain.Word
			if !ok || json.Unmarshal([]byte(raw), &w) != nil {
				missing = append(missing, ids[i])
				continue
			}
			found[w.ID] = w
		}
	}

	if len(missing) > 0 {
		loaded, err := r.loader.GetWordsByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		pipe := r.client.Pipeline()
		for _, w := range loaded {
			found[w.ID] = w
			if raw, err := json.Marshal(w); err == nil {
				pipe.Set(ctx, wordKey(w.ID), raw, r.ttlWithJitter())
			}
		}
		_, _ = pipe.Exec(ctx)
	}

	words := make([]domain.Word, 0, len(found))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if w, ok := found[id]; ok {
			words = append(words, w)
		}
	}
	return words, nil
}

func (r *SetRepository) ListSets(ctx context.Context) ([]domain.Set, error) {
	return r.loader.ListSets(ctx)
}

func (r *SetRepository) cachedSet(ctx context.Context, id string) (domain.Set, bool) {
	raw, err := r.client.Get(ctx, setKey(id)).Bytes()
	if err != nil {
		return domain.Set{}, false
	}
	var set domain.Set
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.Set{}, false
	}
	return set, true
}

func setKey(id string) string {
	return "vocab:set:" + id
}

func wordKey(id string) string {
	return "vocab:word:" + id
}

func (r *SetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
