package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefCategory classifies a per-reference summary.
type RefCategory string

const (
	CategoryPending  RefCategory = "pending"  // charged, not fully paid
	CategoryOrphan   RefCategory = "orphan"   // paid with no matching charge
	CategoryOverpaid RefCategory = "overpaid" // paid more than charged
	CategorySettled  RefCategory = "settled"
)

// ReferenceSummary aggregates the postings of one (account, reference key)
// pair into an invoice-level view.
type ReferenceSummary struct {
	AccountCode  string
	AccountName  string
	ReferenceKey string
	Counterparty string
	FirstDate    *time.Time
	TotalCharge  decimal.Decimal
	TotalPayment decimal.Decimal
	Net          decimal.Decimal // TotalCharge - TotalPayment
	Category     RefCategory
}

// CrossAccountLine is one account's aggregate within a cross-reference group.
type CrossAccountLine struct {
	AccountCode string
	AccountName string
	Charge      decimal.Decimal
	Payment     decimal.Decimal
	Net         decimal.Decimal
}

// CrossReferenceGroup is a reference key whose postings span more than one
// account with both a charge and a payment present, the signature of a
// payment applied to the wrong account.
type CrossReferenceGroup struct {
	ReferenceKey string
	Accounts     []CrossAccountLine
}
