package app

import (
	"time"

	"vocab-quiz-service/internal/domain"
)

// TickStep is the granularity of a card countdown.
const TickStep = 100 * time.Millisecond

// MaxBonus is awarded for a correct answer given with the full budget left.
const MaxBonus = 5

// Countdown counts a time budget down in TickStep decrements. Time is kept in
// whole ticks so repeated decrements never drift.
type Countdown struct {
	total     int64
	remaining int64
	stopped   bool
}

// NewCountdown returns a running countdown for d, rounded up to whole ticks.
func NewCountdown(d time.Duration) (*Countdown, error) {
	if d <= 0 {
		return nil, &domain.ConfigurationError{Setting: "round.duration", Message: "must be positive"}
	}
	ticks := int64((d + TickStep - 1) / TickStep)
	return &Countdown{total: ticks, remaining: ticks}, nil
}

// Tick removes one step and reports whether the countdown just reached zero.
// A stopped countdown ignores ticks.
func (c *Countdown) Tick() bool {
	if c.stopped || c.remaining <= 0 {
		return false
	}
	c.remaining--
	if c.remaining == 0 {
		c.stopped = true
		return true
	}
	return false
}

// Stop freezes the remaining time.
func (c *Countdown) Stop() { c.stopped = true }

// Running reports whether ticks still have an effect.
func (c *Countdown) Running() bool { return !c.stopped && c.remaining > 0 }

func (c *Countdown) Remaining() time.Duration { return time.Duration(c.remaining) * TickStep }

func (c *Countdown) Duration() time.Duration { return time.Duration(c.total) * TickStep }

// Fraction is the share of the budget left, for a depleting progress bar.
func (c *Countdown) Fraction() float64 {
	return float64(c.remaining) / float64(c.total)
}

// Bonus scores the time left: floor(remaining/duration * MaxBonus).
func (c *Countdown) Bonus() int {
	return ComputeBonus(c.Remaining(), c.Duration())
}

// ComputeBonus returns floor(remaining/duration*MaxBonus), with remaining
// clamped to [0, duration]. A non-positive duration scores zero.
func ComputeBonus(remaining, duration time.Duration) int {
	if duration <= 0 {
		return 0
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining > duration {
		remaining = duration
	}
	return int(int64(remaining) * MaxBonus / int64(duration))
}
