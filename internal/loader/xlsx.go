package loader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/contaudit-dev/contaudit/internal/classify"
)

// XLSXParser reads the first sheet of an xlsx workbook. Cell values come
// back as display text, which is what the classifier's pattern tests expect.
type XLSXParser struct{}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse opens the workbook and returns every row of the first sheet.
func (p *XLSXParser) Parse(data []byte) ([]classify.Row, error) {
	if !sniffXLSX(data) {
		return nil, fmt.Errorf("not an xlsx container")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	rows := make([]classify.Row, len(raw))
	for i, r := range raw {
		rows[i] = classify.Row(r)
	}
	return rows, nil
}
