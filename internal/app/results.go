package app

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"vocab-quiz-service/internal/domain"
)

// DefaultLeaderboardLimit is the number of leaders shown when none is requested.
const DefaultLeaderboardLimit = 10

// Submission outcomes reported to a Recorder.
const (
	SubmissionAccepted = "accepted"
	SubmissionRejected = "rejected"
	SubmissionFailed   = "failed"
)

var (
	// ErrAlreadySubmitted is returned when a result sheet or play is submitted twice.
	ErrAlreadySubmitted = errors.New("score already submitted")
	// ErrRoundInProgress is returned when a play is submitted before it completed.
	ErrRoundInProgress = errors.New("round not complete")
)

// ComputeXP returns correct*10 - wrong*2 + bonus. Negative totals are kept.
func ComputeXP(correct, wrong, bonus int) int {
	return domain.RoundSummary{Correct: correct, Wrong: wrong, Bonus: bonus}.XP()
}

// Results is the results view of one finished round: it submits the score
// once and ranks the set's leaderboard around the submission.
type Results struct {
	summary domain.RoundSummary
	store   LeaderboardStore
	logger  *slog.Logger
	metrics Recorder

	submitted bool
	name      string
}

func NewResults(summary domain.RoundSummary, store LeaderboardStore, logger *slog.Logger, metrics Recorder) *Results {
	return &Results{summary: summary, store: store, logger: logger, metrics: metrics}
}

func (r *Results) Summary() domain.RoundSummary { return r.summary }

// XP is recomputed from the summary counters.
func (r *Results) XP() int { return r.summary.XP() }

func (r *Results) Submitted() bool { return r.submitted }

// Submit records the score under name. Blank names are rejected before the
// store is contacted; store failures leave the results unsubmitted.
func (r *Results) Submit(ctx context.Context, name string) error {
	if r.submitted {
		return ErrAlreadySubmitted
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		r.metrics.Submission(SubmissionRejected)
		return &domain.ValidationError{Field: "name", Message: "Please enter your name"}
	}

	entry := domain.LeaderboardEntry{
		SetID: r.summary.SetID,
		Name:  trimmed,
		Score: r.XP(),
	}
	if err := r.store.InsertLeaderboardEntry(ctx, entry); err != nil {
		r.metrics.Submission(SubmissionFailed)
		r.logger.Error("leaderboard insert failed", "set_id", entry.SetID, "error", err)
		return asRepositoryError("insert leaderboard entry", err)
	}

	r.submitted = true
	r.name = trimmed
	r.metrics.Submission(SubmissionAccepted)
	r.logger.Info("score submitted", "set_id", entry.SetID, "name", trimmed, "xp", entry.Score)
	return nil
}

// Top returns the set's leaders with the caller's own rows marked once submitted.
func (r *Results) Top(ctx context.Context, limit int) ([]domain.RankedEntry, error) {
	limit = normalizeLimit(limit)
	entries, err := r.store.GetTopLeaderboard(ctx, r.summary.SetID, limit)
	if err != nil {
		return nil, asRepositoryError("get top leaderboard", err)
	}
	var current *domain.LeaderboardEntry
	if r.submitted {
		current = &domain.LeaderboardEntry{Name: r.name, Score: r.XP()}
	}
	return RankEntries(entries, limit, current), nil
}

// RankEntries orders entries by descending score, keeps at most limit of them
// and assigns 1-based ranks. Rows matching current by name and score are
// flagged; duplicates of the same pair are all flagged.
func RankEntries(entries []domain.LeaderboardEntry, limit int, current *domain.LeaderboardEntry) []domain.RankedEntry {
	ordered := append([]domain.LeaderboardEntry(nil), entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	ranked := make([]domain.RankedEntry, 0, len(ordered))
	for i, e := range ordered {
		ranked = append(ranked, domain.RankedEntry{
			Rank:      i + 1,
			Name:      e.Name,
			XP:        e.Score,
			IsCurrent: current != nil && e.Name == current.Name && e.Score == current.Score,
		})
	}
	return ranked
}

// LeaderboardService serves read-only leaderboard views.
type LeaderboardService struct {
	store        LeaderboardStore
	defaultLimit int
}

func NewLeaderboardService(store LeaderboardStore, defaultLimit int) *LeaderboardService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLeaderboardLimit
	}
	return &LeaderboardService{store: store, defaultLimit: defaultLimit}
}

// Top returns the ranked leaders of a set.
func (s *LeaderboardService) Top(ctx context.Context, setID string, limit int) ([]domain.RankedEntry, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	entries, err := s.store.GetTopLeaderboard(ctx, setID, limit)
	if err != nil {
		return nil, asRepositoryError("get top leaderboard", err)
	}
	return RankEntries(entries, limit, nil), nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	return limit
}

func asRepositoryError(op string, err error) error {
	var repoErr *domain.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr
	}
	return &domain.RepositoryError{Op: op, Err: err}
}

// ResultsService opens result sheets for finished rounds.
type ResultsService struct {
	store   LeaderboardStore
	logger  *slog.Logger
	metrics Recorder
}

func NewResultsService(store LeaderboardStore, logger *slog.Logger, metrics Recorder) *ResultsService {
	return &ResultsService{store: store, logger: logger, metrics: metrics}
}

// Open returns a fresh, unsubmitted results view for summary.
func (s *ResultsService) Open(summary domain.RoundSummary) *Results {
	return NewResults(summary, s.store, s.logger, s.metrics)
}

// SubmitPlay records the score of a completed play under name, using the
// play's own counters. A play is accepted once; a failed insert or a
// rejected name leaves it open for another attempt.
func (s *ResultsService) SubmitPlay(ctx context.Context, play *Play, name string) (*Results, error) {
	summary, ok := play.Summary()
	if !ok {
		return nil, ErrRoundInProgress
	}
	if !play.claimSubmission() {
		s.metrics.Submission(SubmissionRejected)
		return nil, ErrAlreadySubmitted
	}
	results := s.Open(summary)
	if err := results.Submit(ctx, name); err != nil {
		play.releaseSubmission()
		return nil, err
	}
	return results, nil
}
