package parsers

import (
	"fmt"
	"path"
	"strings"
)

// Row is one finishing position read from a results sheet.
type Row struct {
	Rider    string
	Position int
	Class    string
}

// Parser turns a results sheet into rows.
type Parser interface {
	Parse(data []byte) ([]Row, error)
}

// ParserFactory defines the interface for creating parsers
type ParserFactory interface {
	GetParser(name, contentType string) (Parser, error)
}

// Factory picks a parser from the content type, falling back to the file
// extension.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) GetParser(name, contentType string) (Parser, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "spreadsheetml"), strings.Contains(ct, "ms-excel"):
		return NewXLSXParser(), nil
	case strings.Contains(ct, "text/csv"), strings.Contains(ct, "tab-separated"):
		return NewCSVParser(), nil
	}

	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".csv", ".tsv", ".txt":
		return NewCSVParser(), nil
	case ".xlsx", ".xls":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("unsupported results format: %q", ext)
	}
}
