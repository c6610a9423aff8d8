package app

import (
	"context"
	"log/slog"
	"strings"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/importer"
)

// DefaultPreviewRows is how many parsed rows a preview shows.
const DefaultPreviewRows = 5

// ParserFactory selects a file parser by name.
type ParserFactory interface {
	GetParser(filename string) (importer.Parser, error)
}

// ImportService bulk-loads a word file as a new set.
type ImportService struct {
	writer  SetWriter
	parsers ParserFactory
	logger  *slog.Logger
	metrics Recorder
}

func NewImportService(writer SetWriter, parsers ParserFactory, logger *slog.Logger, metrics Recorder) *ImportService {
	return &ImportService{writer: writer, parsers: parsers, logger: logger, metrics: metrics}
}

// Preview parses the file and returns its first n rows without writing.
func (s *ImportService) Preview(filename string, data []byte, n int) ([]domain.WordInput, error) {
	rows, err := s.parse(filename, data)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultPreviewRows
	}
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// Import stores every word of the file together with a set named setName
// referencing them. Nothing is kept when either write fails.
func (s *ImportService) Import(ctx context.Context, setName, filename string, data []byte) (domain.Set, error) {
	name := strings.TrimSpace(setName)
	if name == "" {
		return domain.Set{}, &domain.ValidationError{Field: "name", Message: "Please enter a Set name."}
	}
	rows, err := s.parse(filename, data)
	if err != nil {
		return domain.Set{}, err
	}

	set, err := s.writer.ImportSet(ctx, name, rows)
	if err != nil {
		s.logger.Error("set import failed", "name", name, "words", len(rows), "error", err)
		return domain.Set{}, asRepositoryError("import set", err)
	}

	s.metrics.WordsImported(set.WordCount())
	s.logger.Info("set imported", "set_id", set.ID, "name", name, "words", set.WordCount())
	return set, nil
}

func (s *ImportService) parse(filename string, data []byte) ([]domain.WordInput, error) {
	parser, err := s.parsers.GetParser(filename)
	if err != nil {
		return nil, err
	}
	return parser.Parse(data)
}
