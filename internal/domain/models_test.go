package domain

import (
	"errors"
	"fmt"
	"testing"
)

func validInput() WordInput {
	return WordInput{
		Word:        "lucid",
		Meaning:     "clear",
		Distractor1: "heavy",
		Distractor2: "lucky",
		Distractor3: "loud",
		Example:     "A lucid talk.",
	}
}

func TestWordInputValidate(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	missing := validInput()
	missing.Example = "  "
	var vErr *ValidationError
	if err := missing.Validate(); !errors.As(err, &vErr) || vErr.Field != "example" {
		t.Fatalf("expected example to be required, got %v", err)
	}

	dup := validInput()
	dup.Distractor3 = dup.Meaning
	if err := dup.Validate(); !errors.As(err, &vErr) || vErr.Field != "choices" {
		t.Fatalf("expected duplicate choice error, got %v", err)
	}
}

func TestWordHelpers(t *testing.T) {
	syn, empty := "clear", ""
	w := validInput().WithID("w1")
	w.Synonym1, w.Synonym2 = &syn, &empty

	if w.ID != "w1" || w.Choices()[0] != "clear" || len(w.Choices()) != 4 {
		t.Fatalf("unexpected word %+v", w)
	}
	if got := w.Synonyms(); len(got) != 1 || got[0] != "clear" {
		t.Fatalf("expected blank synonyms to be dropped, got %v", got)
	}
	if got := w.Antonyms(); len(got) != 0 {
		t.Fatalf("expected no antonyms, got %v", got)
	}
}

func TestRoundSummaryXP(t *testing.T) {
	cases := []struct {
		summary RoundSummary
		want    int
	}{
		{RoundSummary{Correct: 3, Wrong: 1, Bonus: 2}, 30},
		{RoundSummary{}, 0},
		{RoundSummary{Wrong: 4}, -8},
		{RoundSummary{Correct: 10, Bonus: 50}, 150},
	}
	for _, tc := range cases {
		if got := tc.summary.XP(); got != tc.want {
			t.Fatalf("%+v: expected %d, got %d", tc.summary, tc.want, got)
		}
	}
}

func TestErrorTaxonomy(t *testing.T) {
	if !IsNotFound(fmt.Errorf("wrap: %w", ErrSetNotFound)) || !IsNotFound(ErrNoWords) || !IsNotFound(ErrPlayNotFound) {
		t.Fatalf("expected not-found class")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatalf("unexpected not-found")
	}

	inner := errors.New(`duplicate key value violates unique constraint "words_pkey"`)
	repo := &RepositoryError{Op: "insert words", Err: inner}
	if repo.Error() != inner.Error() || !errors.Is(repo, inner) {
		t.Fatalf("repository errors must carry the backend message verbatim")
	}

	cfg := &ConfigurationError{Setting: "round.duration", Message: "must be positive"}
	if cfg.Error() != "invalid round.duration: must be positive" {
		t.Fatalf("unexpected message %q", cfg.Error())
	}
}
