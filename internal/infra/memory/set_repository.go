package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// SetRepository caches sets and words with TTL to avoid repeated DB hits.
// Set listings are always read through.
type SetRepository struct {
	loader app.SetReader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	sets  map[string]cached[domain.Set]
	words map[string]cached[domain.Word]
}

type cached[T any] struct {
	value     T
	expiresAt time.Time
}

func NewSetRepository(loader app.SetReader, ttl time.Duration) *SetRepository {
	return &SetRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sets:   make(map[string]cached[domain.Set]),
		words:  make(map[string]cached[domain.Word]),
	}
}

func (r *SetRepository) GetSetByID(ctx context.Context, id string) (domain.Set, error) {
	if set, ok := r.cachedSet(id); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do("set:"+id, func() (interface{}, error) {
		if set, ok := r.cachedSet(id); ok {
			return set, nil
		}
		set, err := r.loader.GetSetByID(ctx, id)
		if err != nil {
			return domain.Set{}, err
		}
		r.mu.Lock()
		r.sets[id] = cached[domain.Set]{value: set, expiresAt: r.clock().Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.Set{}, err
	}
	return cloneSet(result.(domain.Set)), nil
}

// GetWordsByIDs serves cached words and loads the misses in one call.
func (r *SetRepository) GetWordsByIDs(ctx context.Context, ids []string) ([]domain.Word, error) {
	now := r.clock()
	found := make(map[string]domain.Word, len(ids))
	var missing []string

	r.mu.RLock()
	for _, id := range ids {
		if entry, ok := r.words[id]; ok && entry.expiresAt.After(now) {
			found[id] = entry.value
		} else {
			missing = append(missing, id)
		}
	}
	r.mu.RUnlock()

	if len(missing) > 0 {
		loaded, err := r.loader.GetWordsByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		for _, w := range loaded {
			found[w.ID] = w
			r.words[w.ID] = cached[domain.Word]{value: w, expiresAt: now.Add(r.ttlWithJitter())}
		}
		r.mu.Unlock()
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

func (r *SetRepository) cachedSet(id string) (domain.Set, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sets[id]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.Set{}, false
	}
	return cloneSet(entry.value), true
}

func (r *SetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
