// Package metrics exposes quiz activity as Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vocab-quiz-service/internal/domain"
)

// Prometheus implements app.Recorder.
type Prometheus struct {
	registry        *prometheus.Registry
	roundsStarted   prometheus.Counter
	roundsCompleted prometheus.Counter
	roundXP         prometheus.Histogram
	answers         *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	wordsImported   prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		roundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vocab",
			Name:      "rounds_started_total",
			Help:      "Rounds started.",
		}),
		roundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vocab",
			Name:      "rounds_completed_total",
			Help:      "Rounds played to completion.",
		}),
		roundXP: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vocab",
			Name:      "round_xp",
			Help:      "XP earned per completed round.",
			Buckets:   []float64{-20, 0, 25, 50, 100, 200, 400},
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vocab",
			Name:      "answers_total",
			Help:      "Answers by outcome.",
		}, []string{"result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vocab",
			Name:      "leaderboard_submissions_total",
			Help:      "Leaderboard submissions by outcome.",
		}, []string{"outcome"}),
		wordsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vocab",
			Name:      "words_imported_total",
			Help:      "Words inserted by the importer.",
		}),
	}
	p.registry.MustRegister(
		p.roundsStarted,
		p.roundsCompleted,
		p.roundXP,
		p.answers,
		p.submissions,
		p.wordsImported,
	)
	return p
}

func (p *Prometheus) RoundStarted(string) { p.roundsStarted.Inc() }

func (p *Prometheus) RoundCompleted(summary domain.RoundSummary) {
	p.roundsCompleted.Inc()
	p.roundXP.Observe(float64(summary.XP()))
}

func (p *Prometheus) Answer(outcome string)     { p.answers.WithLabelValues(outcome).Inc() }
func (p *Prometheus) Submission(outcome string) { p.submissions.WithLabelValues(outcome).Inc() }
func (p *Prometheus) WordsImported(n int)       { p.wordsImported.Add(float64(n)) }

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
