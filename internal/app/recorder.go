package app

import "vocab-quiz-service/internal/domain"

// Answer outcomes reported to a Recorder.
const (
	AnswerCorrect = "correct"
	AnswerWrong   = "wrong"
	AnswerTimeout = "timeout"
)

// Recorder receives domain events for metrics.
type Recorder interface {
	RoundStarted(setID string)
	RoundCompleted(summary domain.RoundSummary)
	Answer(outcome string)
	Submission(outcome string)
	WordsImported(n int)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) RoundStarted(string)                {}
func (NoopRecorder) RoundCompleted(domain.RoundSummary) {}
func (NoopRecorder) Answer(string)                      {}
func (NoopRecorder) Submission(string)                  {}
func (NoopRecorder) WordsImported(int)                  {}
