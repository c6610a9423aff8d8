package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"vocab-quiz-service/internal/domain"
)

// CSVParser parses comma-separated word files with a header row.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(data []byte) ([]domain.WordInput, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("CSV parse error: %v", err)}
		}
		// empty lines are skipped and quoted fields may span lines
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	return recordsToWords(records, lines)
}
