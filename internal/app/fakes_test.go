package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"vocab-quiz-service/internal/domain"
)

// identityRand never reorders and always picks index 0.
type identityRand struct{}

func (identityRand) Intn(int) int                { return 0 }
func (identityRand) Shuffle(int, func(i, j int)) {}

// reverseRand reverses on shuffle and picks the last index.
type reverseRand struct{}

func (reverseRand) Intn(n int) int { return n - 1 }
func (reverseRand) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func strPtr(s string) *string { return &s }

func testWord(id, word string) domain.Word {
	return domain.Word{
		ID:          id,
		Word:        word,
		Meaning:     word + " meaning",
		Distractor1: word + " d1",
		Distractor2: word + " d2",
		Distractor3: word + " d3",
		Synonym1:    strPtr(word + " syn"),
		Antonym1:    strPtr(word + " ant"),
		Example:     "An example with " + word + ".",
	}
}

type fakeSets struct {
	sets  map[string]domain.Set
	words map[string]domain.Word
	err   error
}

func newFakeSets() *fakeSets {
	return &fakeSets{sets: map[string]domain.Set{}, words: map[string]domain.Word{}}
}

func (f *fakeSets) add(set domain.Set, words ...domain.Word) {
	for _, w := range words {
		f.words[w.ID] = w
		set.WordIDs = append(set.WordIDs, w.ID)
	}
	f.sets[set.ID] = set
}

func (f *fakeSets) GetSetByID(_ context.Context, id string) (domain.Set, error) {
	if f.err != nil {
		return domain.Set{}, f.err
	}
	set, ok := f.sets[id]
	if !ok {
		return domain.Set{}, domain.ErrSetNotFound
	}
	return set, nil
}

func (f *fakeSets) GetWordsByIDs(_ context.Context, ids []string) ([]domain.Word, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Word, 0, len(ids))
	for _, id := range ids {
		if w, ok := f.words[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeSets) ListSets(context.Context) ([]domain.Set, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Set, 0, len(f.sets))
	for _, s := range f.sets {
		out = append(out, s)
	}
	return out, nil
}

type fakePlays struct {
	mu       sync.Mutex
	plays    map[string]*Play
	touches  map[string]int
	retained map[string]time.Duration
}

func newFakePlays() *fakePlays {
	return &fakePlays{plays: map[string]*Play{}, touches: map[string]int{}, retained: map[string]time.Duration{}}
}

func (f *fakePlays) Save(p *Play) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays[p.ID()] = p
}

func (f *fakePlays) Get(id string) (*Play, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plays[id]
	return p, ok
}

func (f *fakePlays) Touch(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touches[id]++
}

func (f *fakePlays) Retain(id string, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retained[id] = ttl
}

func (f *fakePlays) Delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.plays, id)
}

func (f *fakePlays) touchCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touches[id]
}

type fakeLeaderboard struct {
	entries   []domain.LeaderboardEntry
	inserts   int
	insertErr error
	getErr    error
}

func (f *fakeLeaderboard) InsertLeaderboardEntry(_ context.Context, e domain.LeaderboardEntry) error {
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeLeaderboard) GetTopLeaderboard(_ context.Context, setID string, limit int) ([]domain.LeaderboardEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []domain.LeaderboardEntry
	for _, e := range f.entries {
		if e.SetID == setID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// manualTicker is fired by the test; every card gets a fresh one.
type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *manualTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (c *manualClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *manualClock) current() *manualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[len(c.tickers)-1]
}

// fire delivers n ticks to the ticker of the card on screen.
func (c *manualClock) fire(n int) {
	t := c.current()
	for i := 0; i < n; i++ {
		t.ch <- time.Now()
	}
}

type countingRecorder struct {
	NoopRecorder
	mu      sync.Mutex
	answers map[string]int
	started int
	done    int
	subs    map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{answers: map[string]int{}, subs: map[string]int{}}
}

func (r *countingRecorder) RoundStarted(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *countingRecorder) RoundCompleted(domain.RoundSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
}

func (r *countingRecorder) Answer(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers[outcome]++
}

func (r *countingRecorder) Submission(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[outcome]++
}
