// Package importer turns word-set spreadsheets into word rows.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"vocab-quiz-service/internal/domain"
)

// Columns is the expected header, in canonical order.
var Columns = []string{
	"word", "meaning", "distractor1", "distractor2", "distractor3",
	"synonym1", "synonym2", "antonym1", "antonym2",
	"example", "poster_url", "created_at",
}

var requiredColumns = []string{"word", "meaning", "distractor1", "distractor2", "distractor3", "example"}

// Parser parses a whole file into word rows.
type Parser interface {
	Parse(data []byte) ([]domain.WordInput, error)
}

// Factory picks a parser by file extension.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the parser for filename.
func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	default:
		return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("unsupported file type: %q", ext)}
	}
}

// recordsToWords maps a header row plus data rows onto word inputs. Blank
// rows are skipped. lines holds the 1-based source line each record starts
// on; when nil, records are assumed to sit on consecutive lines.
func recordsToWords(records [][]string, lines []int) ([]domain.WordInput, error) {
	if len(records) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "file is empty"}
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &domain.ValidationError{Field: col, Message: fmt.Sprintf("missing column %q", col)}
		}
	}

	words := make([]domain.WordInput, 0, len(records)-1)
	for n, record := range records[1:] {
		if blank(record) {
			continue
		}
		line := n + 2
		if lines != nil {
			line = lines[n+1]
		}
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		in := domain.WordInput{
			Word:        get("word"),
			Meaning:     get("meaning"),
			Distractor1: get("distractor1"),
			Distractor2: get("distractor2"),
			Distractor3: get("distractor3"),
			Synonym1:    optional(get("synonym1")),
			Synonym2:    optional(get("synonym2")),
			Antonym1:    optional(get("antonym1")),
			Antonym2:    optional(get("antonym2")),
			Example:     get("example"),
			PosterURL:   optional(get("poster_url")),
		}
		if raw := get("created_at"); raw != "" {
			ts, err := parseTimestamp(raw)
			if err != nil {
				return nil, &domain.ValidationError{Field: "created_at", Message: fmt.Sprintf("line %d: invalid created_at %q", line, raw)}
			}
			in.CreatedAt = &ts
		}
		if err := in.Validate(); err != nil {
			return nil, &domain.ValidationError{Field: fieldOf(err), Message: fmt.Sprintf("line %d: %s", line, err.Error())}
		}
		words = append(words, in)
	}

	if len(words) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "no word rows found"}
	}
	return words, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func fieldOf(err error) string {
	if v, ok := err.(*domain.ValidationError); ok {
		return v.Field
	}
	return ""
}
