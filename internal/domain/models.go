package domain

import (
	"strings"
	"time"
)

// Word is a vocabulary flashcard with one correct meaning and three distractors.
type Word struct {
	ID          string     `json:"id"`
	Word        string     `json:"word"`
	Meaning     string     `json:"meaning"`
	Distractor1 string     `json:"distractor1"`
	Distractor2 string     `json:"distractor2"`
	Distractor3 string     `json:"distractor3"`
	Synonym1    *string    `json:"synonym1,omitempty"`
	Synonym2    *string    `json:"synonym2,omitempty"`
	Antonym1    *string    `json:"antonym1,omitempty"`
	Antonym2    *string    `json:"antonym2,omitempty"`
	Example     string     `json:"example"`
	PosterURL   *string    `json:"posterUrl,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Choices returns the four displayable answers, meaning first.
func (w Word) Choices() []string {
	return []string{w.Meaning, w.Distractor1, w.Distractor2, w.Distractor3}
}

// Synonyms returns the non-empty synonyms.
func (w Word) Synonyms() []string {
	return compact(w.Synonym1, w.Synonym2)
}

// Antonyms returns the non-empty antonyms.
func (w Word) Antonyms() []string {
	return compact(w.Antonym1, w.Antonym2)
}

// WordInput is a Word that has not been assigned an identifier yet.
type WordInput struct {
	Word        string     `json:"word"`
	Meaning     string     `json:"meaning"`
	Distractor1 string     `json:"distractor1"`
	Distractor2 string     `json:"distractor2"`
	Distractor3 string     `json:"distractor3"`
	Synonym1    *string    `json:"synonym1,omitempty"`
	Synonym2    *string    `json:"synonym2,omitempty"`
	Antonym1    *string    `json:"antonym1,omitempty"`
	Antonym2    *string    `json:"antonym2,omitempty"`
	Example     string     `json:"example"`
	PosterURL   *string    `json:"posterUrl,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// WithID materializes the input as a stored Word.
func (in WordInput) WithID(id string) Word {
	return Word{
		ID:          id,
		Word:        in.Word,
		Meaning:     in.Meaning,
		Distractor1: in.Distractor1,
		Distractor2: in.Distractor2,
		Distractor3: in.Distractor3,
		Synonym1:    in.Synonym1,
		Synonym2:    in.Synonym2,
		Antonym1:    in.Antonym1,
		Antonym2:    in.Antonym2,
		Example:     in.Example,
		PosterURL:   in.PosterURL,
		CreatedAt:   in.CreatedAt,
	}
}

// Validate checks required fields and that the four choices are distinct.
func (in WordInput) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"word", in.Word},
		{"meaning", in.Meaning},
		{"distractor1", in.Distractor1},
		{"distractor2", in.Distractor2},
		{"distractor3", in.Distractor3},
		{"example", in.Example},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: r.field + " is required"}
		}
	}

	seen := make(map[string]struct{}, 4)
	for _, c := range []string{in.Meaning, in.Distractor1, in.Distractor2, in.Distractor3} {
		if _, dup := seen[c]; dup {
			return &ValidationError{Field: "choices", Message: "duplicate choice " + `"` + c + `"`}
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Set is a named collection of word identifiers forming one playable round.
type Set struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WordIDs   []string  `json:"wordIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// WordCount is the number of words the set references.
func (s Set) WordCount() int {
	return len(s.WordIDs)
}

// LeaderboardEntry is one submitted score for a set.
type LeaderboardEntry struct {
	SetID     string    `json:"setId"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// RankedEntry is a leaderboard row with its derived rank.
type RankedEntry struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	XP        int    `json:"xp"`
	IsCurrent bool   `json:"isCurrent,omitempty"`
}

// RoundSummary carries the final counters of a completed round. XP is always
// recomputed from these inputs, never transported on its own.
type RoundSummary struct {
	SetID   string `json:"setId"`
	Correct int    `json:"correct"`
	Wrong   int    `json:"wrong"`
	Bonus   int    `json:"bonus"`
}

// XP returns the experience points earned: correct*10 - wrong*2 + bonus.
// The result may be negative.
func (s RoundSummary) XP() int {
	return s.Correct*10 - s.Wrong*2 + s.Bonus
}

func compact(values ...*string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != nil && *v != "" {
			out = append(out, *v)
		}
	}
	return out
}
