package parsers

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVParser parses comma- or tab-separated results sheets.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(data []byte) ([]Row, error) {
	cleaned, delimiter, err := preprocessCSVData(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	return extractRows(records)
}
