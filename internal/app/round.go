package app

import (
	"errors"
	"fmt"

	"vocab-quiz-service/internal/domain"
)

var (
	// ErrInvalidTransition is returned when a round operation is called in the wrong state.
	ErrInvalidTransition = errors.New("invalid round transition")
	// ErrNegativeBonus rejects a confirm with a bonus below zero.
	ErrNegativeBonus = errors.New("bonus must not be negative")
)

// RoundState is the lifecycle phase of a Round.
type RoundState int

const (
	RoundLoading RoundState = iota
	RoundPresenting
	RoundAdvancing
	RoundComplete
)

func (s RoundState) String() string {
	switch s {
	case RoundLoading:
		return "loading"
	case RoundPresenting:
		return "presenting"
	case RoundAdvancing:
		return "advancing"
	case RoundComplete:
		return "complete"
	default:
		return fmt.Sprintf("RoundState(%d)", int(s))
	}
}

// Round owns the play queue, the retry queue and the counters of one
// play-through of a set. It is not safe for concurrent use; a Play drives it
// from a single goroutine.
type Round struct {
	setID string
	rnd   Randomizer

	state   RoundState
	queue   []domain.Word
	retry   []domain.Word
	current *domain.Word
	isRetry bool

	correct int
	wrong   int
	bonus   int
}

// NewRound creates a round in the Loading state.
func NewRound(setID string, rnd Randomizer) *Round {
	return &Round{setID: setID, rnd: rnd, state: RoundLoading}
}

// Start shuffles words and presents the first one. The input is not modified.
func (r *Round) Start(words []domain.Word) error {
	if r.state != RoundLoading {
		return fmt.Errorf("start in state %s: %w", r.state, ErrInvalidTransition)
	}
	if len(words) == 0 {
		return domain.ErrNoWords
	}

	order := shuffled(words, r.rnd)
	first := order[0]
	r.current = &first
	r.queue = order[1:]
	r.retry = nil
	r.isRetry = false
	r.correct, r.wrong, r.bonus = 0, 0, 0
	r.state = RoundPresenting
	return nil
}

// Confirm applies the outcome of the current word. A wrong answer sends the
// word to the back of the retry queue; either way the current slot is cleared
// and Advance must be called next.
func (r *Round) Confirm(correct bool, bonus int) error {
	if r.state != RoundPresenting || r.current == nil {
		return fmt.Errorf("confirm in state %s: %w", r.state, ErrInvalidTransition)
	}
	if bonus < 0 {
		return ErrNegativeBonus
	}

	if correct {
		r.correct++
		r.bonus += bonus
	} else {
		r.wrong++
		r.retry = append(r.retry, *r.current)
	}
	r.current = nil
	r.state = RoundAdvancing
	return nil
}

// Advance selects the next word: primary queue first, then the retry queue.
// When both are empty the round completes and the final summary is returned
// with done set.
func (r *Round) Advance() (domain.RoundSummary, bool, error) {
	if r.state != RoundAdvancing {
		return domain.RoundSummary{}, false, fmt.Errorf("advance in state %s: %w", r.state, ErrInvalidTransition)
	}

	switch {
	case len(r.queue) > 0:
		next := r.queue[0]
		r.queue = r.queue[1:]
		r.current = &next
		r.isRetry = false
	case len(r.retry) > 0:
		next := r.retry[0]
		r.retry = r.retry[1:]
		r.current = &next
		r.isRetry = true
	default:
		r.state = RoundComplete
		return r.Summary(), true, nil
	}
	r.state = RoundPresenting
	return domain.RoundSummary{}, false, nil
}

// Current returns the word being presented, if any.
func (r *Round) Current() (domain.Word, bool) {
	if r.current == nil {
		return domain.Word{}, false
	}
	return *r.current, true
}

func (r *Round) IsRetry() bool     { return r.isRetry }
func (r *Round) State() RoundState { return r.state }
func (r *Round) SetID() string     { return r.setID }

// Remaining counts the words still queued, excluding the current one.
func (r *Round) Remaining() (queued, retries int) {
	return len(r.queue), len(r.retry)
}

// Summary returns the counters accumulated so far.
func (r *Round) Summary() domain.RoundSummary {
	return domain.RoundSummary{
		SetID:   r.setID,
		Correct: r.correct,
		Wrong:   r.wrong,
		Bonus:   r.bonus,
	}
}
