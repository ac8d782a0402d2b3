package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting is a single monetary movement attributed to an account.
type Posting struct {
	AccountCode  string
	AccountName  string
	Policy       string     // policy/document number from the export
	Date         *time.Time // nil when the date cell could not be parsed
	Concept      string
	ReferenceRaw string
	ReferenceKey string          // canonical key from refkey.Normalize
	Charge       decimal.Decimal // debit side, >= 0
	Payment      decimal.Decimal // credit side, >= 0
	Reported     decimal.Decimal // running balance as printed on the row
	Counterparty string
}

// Net returns the signed effect of the posting (charge - payment).
func (p Posting) Net() decimal.Decimal {
	return p.Charge.Sub(p.Payment)
}

// PhantomRow is a row carrying money that failed the structural posting
// test (typically a malformed or missing date). Reported separately so
// the amounts are never silently lost.
type PhantomRow struct {
	AccountCode string
	AccountName string
	Policy      string
	DateRaw     string
	Concept     string
	Reference   string
	Charge      decimal.Decimal
	Payment     decimal.Decimal
}
