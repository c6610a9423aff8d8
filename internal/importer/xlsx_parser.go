package importer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"vocab-quiz-service/internal/domain"
)

// XLSXParser reads the first sheet of a workbook.
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) Parse(data []byte) ([]domain.WordInput, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("failed to open XLSX file: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "XLSX file has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	// GetRows keeps empty rows in the middle of the sheet, so row i is line i+1.
	return recordsToWords(rows, nil)
}
