// Package classify tags raw export rows by structural shape. The export is a
// flat dump with no record markers, so row kind is recovered from pattern
// tests on fixed cell positions.
package classify

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed column positions of the export format.
const (
	ColPolicy    = 0 // account code on header rows, policy number on postings
	ColDate      = 1
	ColConcept   = 2 // account name on header rows
	ColReference = 3 // carries the "Saldo Inicial" marker on opening rows
	ColCharge    = 4
	ColPayment   = 5
	ColBalance   = 6 // running balance, or the opening balance on opening rows
	ColDesc      = 7

	// MinCells is the narrowest row the classifier will look at.
	MinCells = 8
)

var (
	accountPattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{3}`)
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

const openingMarker = "saldo inicial"

// Tags holds the three independent structural tests for one row. The tests
// are not mutually exclusive by construction; valid exports make them so.
type Tags struct {
	AccountHeader  bool
	OpeningBalance bool
	Posting        bool
}

// Row is a raw export row padded to at least MinCells cells.
type Row []string

// Cell returns the cell at i, or "" past the end.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Classify runs the structural tests on one row.
func Classify(row Row) Tags {
	return Tags{
		AccountHeader:  accountPattern.MatchString(row.Cell(ColPolicy)),
		OpeningBalance: strings.Contains(strings.ToLower(row.Cell(ColReference)), openingMarker),
		Posting:        datePattern.MatchString(row.Cell(ColDate)),
	}
}

// HasMoney reports whether the charge or payment cell holds a nonzero
// amount. Unparseable cells count as no money, matching the parse rules
// applied later by the ledger builder.
func HasMoney(row Row) bool {
	return positiveAmount(row.Cell(ColCharge)) || positiveAmount(row.Cell(ColPayment))
}

// IsPhantom reports whether a row carries money yet was claimed neither as a
// posting nor as an opening-balance row. These rows must surface in the
// results instead of dropping out of the totals.
func IsPhantom(row Row, tags Tags) bool {
	return HasMoney(row) && !tags.Posting && !tags.OpeningBalance
}

func positiveAmount(s string) bool {
	d, ok := TryParseAmount(s)
	return ok && d.IsPositive()
}

// normalizeAmount strips thousands separators and surrounding noise so that
// "1,234.56" and " 1234.56 " parse alike.
func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	return s
}

// ParseAmount parses a money cell, degrading to zero when the cell is not
// numeric. The export under audit favors partial results over failure.
func ParseAmount(s string) decimal.Decimal {
	d, _ := TryParseAmount(s)
	return d
}

// TryParseAmount parses a money cell and reports whether the cell held a
// number at all. Callers that must distinguish "absent" from zero (opening
// balances) use this form.
func TryParseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(normalizeAmount(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
