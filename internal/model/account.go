package model

import (
	"github.com/shopspring/decimal"
)

// Account represents one account block recovered from the export.
type Account struct {
	Code           string // "DDD-DDD-DDD", unique identifier
	Name           string
	OpeningBalance decimal.Decimal // zero if no opening-balance row was seen
	ClosingBalance decimal.Decimal // running balance of the last posting, as reported
}

// ReconStatus classifies a per-account reconciliation outcome.
type ReconStatus string

const (
	StatusBalanced    ReconStatus = "BALANCED"
	StatusUnexplained ReconStatus = "UNEXPLAINED_DIFFERENCE"
)

// ReconciliationRow is the per-account reconciliation verdict.
type ReconciliationRow struct {
	Code            string
	Name            string
	OpeningBalance  decimal.Decimal
	NetPostings     decimal.Decimal
	Theoretical     decimal.Decimal // OpeningBalance + NetPostings
	Reported        decimal.Decimal
	Discrepancy     decimal.Decimal // Reported - Theoretical
	UnreferencedNet decimal.Decimal // net effect of sentinel-reference postings
	Status          ReconStatus
}
