// Package runlog keeps an append-only CSV history of audit runs. The source
// export is never touched; this log is the only thing the tool appends to.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp        time.Time
	RunID            string
	SourceFile       string
	Rows             int
	Accounts         int
	Postings         int
	Phantoms         int
	TotalDiscrepancy decimal.Decimal
	Status           string // "balanced" or "flagged"
}

// Header is the CSV header for audit-log.csv.
const Header = "timestamp,run_id,source_file,rows,accounts,postings,phantoms,total_discrepancy,status"

const (
	numFields      = 9
	logDir         = "logs"
	logFile        = "logs/audit-log.csv"
	colTimestamp   = 0
	colRunID       = 1
	colSourceFile  = 2
	colRows        = 3
	colAccounts    = 4
	colPostings    = 5
	colPhantoms    = 6
	colDiscrepancy = 7
	colStatus      = 8
)

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSourceFile] = e.SourceFile
	row[colRows] = strconv.Itoa(e.Rows)
	row[colAccounts] = strconv.Itoa(e.Accounts)
	row[colPostings] = strconv.Itoa(e.Postings)
	row[colPhantoms] = strconv.Itoa(e.Phantoms)
	row[colDiscrepancy] = e.TotalDiscrepancy.StringFixed(2)
	row[colStatus] = e.Status
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	ints := make([]int, 4)
	for i, col := range []int{colRows, colAccounts, colPostings, colPhantoms} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		ints[i] = n
	}

	disc, err := decimal.NewFromString(record[colDiscrepancy])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total_discrepancy %q: %w", record[colDiscrepancy], err)
	}

	return Entry{
		Timestamp:        ts,
		RunID:            record[colRunID],
		SourceFile:       record[colSourceFile],
		Rows:             ints[0],
		Accounts:         ints[1],
		Postings:         ints[2],
		Phantoms:         ints[3],
		TotalDiscrepancy: disc,
		Status:           record[colStatus],
	}, nil
}

// Append writes entries to <root>/logs/audit-log.csv, creating the file and
// header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/audit-log.csv. Returns an empty
// slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
