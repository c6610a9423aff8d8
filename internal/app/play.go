package app

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"vocab-quiz-service/internal/domain"
)

// ErrPlayFinished is returned when sending to a play whose event loop has exited.
var ErrPlayFinished = errors.New("play finished")

// UpdateType names the kind of event a Play emits.
type UpdateType string

const (
	UpdateCard     UpdateType = "card"
	UpdateTick     UpdateType = "tick"
	UpdateFeedback UpdateType = "feedback"
	UpdateComplete UpdateType = "complete"
)

// CardView is what a client needs to render a presentation.
type CardView struct {
	WordID    string   `json:"wordId"`
	Word      string   `json:"word"`
	Choices   []string `json:"choices"`
	IsRetry   bool     `json:"isRetry"`
	Banner    string   `json:"banner,omitempty"`
	Duration  float64  `json:"duration"`
	PosterURL *string  `json:"posterUrl,omitempty"`
}

// TickView reports the time left on the current card.
type TickView struct {
	Remaining float64 `json:"remaining"`
	Fraction  float64 `json:"fraction"`
}

// FeedbackView is shown after a pick or a timeout.
type FeedbackView struct {
	Picked   string   `json:"picked"`
	Correct  bool     `json:"correct"`
	TimedOut bool     `json:"timedOut"`
	Meaning  string   `json:"meaning"`
	Synonyms []string `json:"synonyms"`
	Antonyms []string `json:"antonyms"`
	Example  string   `json:"example"`
	Message  string   `json:"message,omitempty"`
}

// Update is one event emitted by a Play. Exactly one payload is set.
type Update struct {
	Type     UpdateType           `json:"type"`
	Card     *CardView            `json:"card,omitempty"`
	Tick     *TickView            `json:"tick,omitempty"`
	Feedback *FeedbackView        `json:"feedback,omitempty"`
	Summary  *domain.RoundSummary `json:"summary,omitempty"`
}

// Ticker delivers countdown ticks to a Play.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc starts a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the wall-clock TickerFunc.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type commandKind int

const (
	cmdPick commandKind = iota
	cmdNext
)

type command struct {
	kind   commandKind
	choice string
	reply  chan error
}

// Play runs one round as an event loop. Round and Card are only touched by
// the goroutine executing Run; picks, acknowledgements and timer ticks all
// arrive as messages, so a confirm is fully applied before the next advance.
type Play struct {
	id        string
	round     *Round
	duration  time.Duration
	rnd       Randomizer
	newTicker TickerFunc
	logger    *slog.Logger
	metrics   Recorder

	card   *Card
	ticker Ticker

	commands chan command
	updates  chan Update
	done     chan struct{}
	summary  atomic.Pointer[domain.RoundSummary]

	// touch is called on every presented card to keep the registration alive.
	touch     func()
	submitted atomic.Bool
}

func newPlay(id string, round *Round, duration time.Duration, rnd Randomizer, newTicker TickerFunc, logger *slog.Logger, metrics Recorder) *Play {
	return &Play{
		id:        id,
		round:     round,
		duration:  duration,
		rnd:       rnd,
		newTicker: newTicker,
		logger:    logger,
		metrics:   metrics,
		commands:  make(chan command),
		updates:   make(chan Update, 16),
		done:      make(chan struct{}),
	}
}

func (p *Play) ID() string    { return p.id }
func (p *Play) SetID() string { return p.round.SetID() }

// Updates streams events until the play completes or is cancelled; the
// channel is closed when Run returns.
func (p *Play) Updates() <-chan Update { return p.updates }

// Done is closed when Run has returned.
func (p *Play) Done() <-chan struct{} { return p.done }

// Summary returns the final counters once the round completed. Cancelled
// plays never report a summary.
func (p *Play) Summary() (domain.RoundSummary, bool) {
	summary := p.summary.Load()
	if summary == nil {
		return domain.RoundSummary{}, false
	}
	return *summary, true
}

// claimSubmission reserves the play's single leaderboard entry.
func (p *Play) claimSubmission() bool {
	return p.submitted.CompareAndSwap(false, true)
}

func (p *Play) releaseSubmission() {
	p.submitted.Store(false)
}

// Pick selects a choice on the current card.
func (p *Play) Pick(ctx context.Context, choice string) error {
	return p.send(ctx, command{kind: cmdPick, choice: choice})
}

// Next acknowledges the feedback of a picked card and moves the round on.
func (p *Play) Next(ctx context.Context) error {
	return p.send(ctx, command{kind: cmdNext})
}

func (p *Play) send(ctx context.Context, cmd command) error {
	cmd.reply = make(chan error, 1)
	select {
	case p.commands <- cmd:
	case <-p.done:
		return ErrPlayFinished
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the round until it completes or ctx is cancelled. The countdown
// ticker is always stopped on return.
func (p *Play) Run(ctx context.Context) error {
	defer close(p.updates)
	defer close(p.done)
	defer p.stopTicker()

	if err := p.present(ctx); err != nil {
		return err
	}

	for {
		var ticks <-chan time.Time
		if p.ticker != nil {
			ticks = p.ticker.C()
		}

		select {
		case <-ctx.Done():
			p.logger.Debug("play cancelled", "play_id", p.id, "set_id", p.round.SetID())
			return ctx.Err()
		case <-ticks:
			finished, err := p.onTick(ctx)
			if err != nil || finished {
				return err
			}
		case cmd := <-p.commands:
			finished, err := p.handle(ctx, cmd)
			cmd.reply <- err
			if finished {
				return nil
			}
		}
	}
}

func (p *Play) onTick(ctx context.Context) (bool, error) {
	if !p.card.Tick() {
		cd := p.card.Countdown()
		if cd.Running() {
			p.emitTick(TickView{Remaining: cd.Remaining().Seconds(), Fraction: cd.Fraction()})
		}
		return false, nil
	}

	p.stopTicker()
	p.metrics.Answer(AnswerTimeout)
	p.emit(ctx, Update{Type: UpdateFeedback, Feedback: p.feedback(false)})
	return p.confirm(ctx, false, 0)
}

func (p *Play) handle(ctx context.Context, cmd command) (bool, error) {
	switch cmd.kind {
	case cmdPick:
		correct, err := p.card.Pick(cmd.choice)
		if err != nil {
			return false, err
		}
		p.stopTicker()
		if correct {
			p.metrics.Answer(AnswerCorrect)
		} else {
			p.metrics.Answer(AnswerWrong)
		}
		p.emit(ctx, Update{Type: UpdateFeedback, Feedback: p.feedback(correct)})
		return false, nil
	case cmdNext:
		correct, bonus, err := p.card.Evaluate()
		if err != nil {
			return false, err
		}
		return p.confirm(ctx, correct, bonus)
	default:
		return false, errors.New("unknown command")
	}
}

// confirm reports the outcome to the round, then advances it.
func (p *Play) confirm(ctx context.Context, correct bool, bonus int) (bool, error) {
	if err := p.round.Confirm(correct, bonus); err != nil {
		return false, err
	}
	summary, done, err := p.round.Advance()
	if err != nil {
		return false, err
	}
	if done {
		p.summary.Store(&summary)
		p.metrics.RoundCompleted(summary)
		p.logger.Info("round complete",
			"play_id", p.id,
			"set_id", summary.SetID,
			"correct", summary.Correct,
			"wrong", summary.Wrong,
			"bonus", summary.Bonus,
		)
		p.emit(ctx, Update{Type: UpdateComplete, Summary: &summary})
		return true, nil
	}
	return false, p.present(ctx)
}

func (p *Play) present(ctx context.Context) error {
	word, ok := p.round.Current()
	if !ok {
		return ErrInvalidTransition
	}
	card, err := NewCard(word, p.duration, p.round.IsRetry(), p.rnd)
	if err != nil {
		return err
	}
	p.card = card
	p.ticker = p.newTicker(TickStep)
	if p.touch != nil {
		p.touch()
	}

	view := &CardView{
		WordID:    word.ID,
		Word:      word.Word,
		Choices:   card.Choices(),
		IsRetry:   card.IsRetry(),
		Duration:  card.Countdown().Duration().Seconds(),
		PosterURL: word.PosterURL,
	}
	if card.IsRetry() {
		view.Banner = card.Banners().Retry
	}
	p.emit(ctx, Update{Type: UpdateCard, Card: view})
	return nil
}

func (p *Play) feedback(correct bool) *FeedbackView {
	word := p.card.Word()
	picked, _ := p.card.Picked()
	fb := &FeedbackView{
		Picked:   picked,
		Correct:  correct,
		TimedOut: p.card.TimedOut(),
		Meaning:  word.Meaning,
		Synonyms: word.Synonyms(),
		Antonyms: word.Antonyms(),
		Example:  word.Example,
	}
	if correct {
		fb.Message = p.card.Banners().Correct
	} else {
		fb.Message = p.card.Banners().Wrong
	}
	return fb
}

func (p *Play) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}

// emit delivers state-changing updates; it only gives up when ctx ends.
func (p *Play) emit(ctx context.Context, u Update) {
	select {
	case p.updates <- u:
	case <-ctx.Done():
	}
}

// emitTick drops the tick when the consumer is behind.
func (p *Play) emitTick(tv TickView) {
	select {
	case p.updates <- Update{Type: UpdateTick, Tick: &tv}:
	default:
	}
}
