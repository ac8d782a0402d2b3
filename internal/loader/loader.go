// Package loader reads an export file into positional rows. The same report
// arrives as xlsx or as CSV in more than one encoding, so loading tries a
// chain of parsers and only fails when every one of them does.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/contaudit-dev/contaudit/internal/classify"
)

// Parser converts raw file bytes into positional rows.
type Parser interface {
	Parse(data []byte) ([]classify.Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
	order   []string
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format. Registration order is
// the fallback order used by Load.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
	r.order = append(r.order, key)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers, tried
// xlsx-first the way the upstream report is usually delivered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXParser{})
	r.Register(&CSVParser{})
	return r
}

// Load reads path and runs the registry's parsers in order until one
// succeeds. Rows are padded to classify.MinCells. A file no parser accepts
// is fatal for the run; the error carries every underlying cause.
func (r *Registry) Load(path string) ([]classify.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export %s: %w", path, err)
	}
	return r.Decode(data)
}

// Decode runs the parser chain over in-memory file bytes.
func (r *Registry) Decode(data []byte) ([]classify.Row, error) {
	var causes []error
	for _, key := range r.order {
		rows, err := r.parsers[key].Parse(data)
		if err != nil {
			causes = append(causes, fmt.Errorf("%s: %w", key, err))
			continue
		}
		return padRows(rows), nil
	}
	return nil, fmt.Errorf("no parser accepted the export: %w", errors.Join(causes...))
}

func padRows(rows []classify.Row) []classify.Row {
	for i, row := range rows {
		if len(row) < classify.MinCells {
			padded := make(classify.Row, classify.MinCells)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows
}

// sniffXLSX reports whether data starts with a zip signature, the container
// format of xlsx workbooks.
func sniffXLSX(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}
