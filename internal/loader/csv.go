package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/contaudit-dev/contaudit/internal/classify"
)

// CSVParser reads a headerless CSV export. Files that are not valid UTF-8
// are decoded as ISO 8859-1 first; the accounting system emits both.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse decodes and reads all rows. Field counts may vary between rows.
func (p *CSVParser) Parse(data []byte) ([]classify.Row, error) {
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decoding latin-1: %w", err)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	rows := make([]classify.Row, len(records))
	for i, rec := range records {
		rows[i] = classify.Row(rec)
	}
	return rows, nil
}
