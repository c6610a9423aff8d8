package app

import (
	"errors"
	"time"

	"vocab-quiz-service/internal/domain"
)

var (
	// ErrAlreadyPicked is returned on a second pick for the same presentation.
	ErrAlreadyPicked = errors.New("choice already picked")
	// ErrUnknownChoice is returned when the pick is not one of the prepared choices.
	ErrUnknownChoice = errors.New("unknown choice")
	// ErrNotPicked is returned when evaluating a card that has no answer yet.
	ErrNotPicked = errors.New("no choice picked")
)

// PrepareChoices returns the meaning and the three distractors in a fresh
// random order.
func PrepareChoices(word domain.Word, rnd Randomizer) []string {
	return shuffled(word.Choices(), rnd)
}

// Card is one presentation of a word: fixed choice order, a countdown and at
// most one pick. A timeout counts as an empty pick.
type Card struct {
	word      domain.Word
	isRetry   bool
	choices   []string
	countdown *Countdown
	banners   Banners

	picked   bool
	choice   string
	timedOut bool
}

// NewCard prepares a presentation of word with the given time budget.
func NewCard(word domain.Word, duration time.Duration, isRetry bool, rnd Randomizer) (*Card, error) {
	countdown, err := NewCountdown(duration)
	if err != nil {
		return nil, err
	}
	return &Card{
		word:      word,
		isRetry:   isRetry,
		choices:   PrepareChoices(word, rnd),
		countdown: countdown,
		banners:   pickBanners(rnd),
	}, nil
}

func (c *Card) Word() domain.Word     { return c.word }
func (c *Card) IsRetry() bool         { return c.isRetry }
func (c *Card) Banners() Banners      { return c.banners }
func (c *Card) Countdown() *Countdown { return c.countdown }

// Choices returns a copy of the prepared choice order.
func (c *Card) Choices() []string {
	return append([]string(nil), c.choices...)
}

// Tick advances the countdown. It reports true exactly once, when time runs
// out with no pick; the card then holds an empty pick.
func (c *Card) Tick() bool {
	if c.picked {
		return false
	}
	if !c.countdown.Tick() {
		return false
	}
	c.picked = true
	c.timedOut = true
	c.choice = ""
	return true
}

// Pick records the user's choice and freezes the countdown. It returns
// whether the choice is correct; the result is reported later by Evaluate.
func (c *Card) Pick(choice string) (bool, error) {
	if c.picked {
		return false, ErrAlreadyPicked
	}
	if !c.hasChoice(choice) {
		return false, ErrUnknownChoice
	}
	c.countdown.Stop()
	c.picked = true
	c.choice = choice
	return choice == c.word.Meaning, nil
}

// Picked returns the recorded choice. A timeout yields "" with ok set.
func (c *Card) Picked() (string, bool) {
	return c.choice, c.picked
}

func (c *Card) TimedOut() bool { return c.timedOut }

// Evaluate scores the pick: correct iff it equals the meaning, with a bonus
// for the time left. Wrong answers and timeouts score no bonus.
func (c *Card) Evaluate() (bool, int, error) {
	if !c.picked {
		return false, 0, ErrNotPicked
	}
	if c.timedOut || c.choice != c.word.Meaning {
		return false, 0, nil
	}
	return true, c.countdown.Bonus(), nil
}

func (c *Card) hasChoice(choice string) bool {
	for _, ch := range c.choices {
		if ch == choice {
			return true
		}
	}
	return false
}
