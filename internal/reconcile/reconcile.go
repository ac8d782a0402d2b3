// Package reconcile compares reported balances against balances recomputed
// from the posting stream and classifies every disagreement it finds.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/contaudit-dev/contaudit/internal/ledger"
	"github.com/contaudit-dev/contaudit/internal/model"
	"github.com/contaudit-dev/contaudit/internal/refkey"
)

// Options controls the reconciliation arithmetic.
type Options struct {
	// Tolerance is the absolute currency-unit band inside which an account
	// counts as balanced.
	Tolerance decimal.Decimal
	// SettledCutoff is the |net| band inside which a reference counts as
	// settled rather than pending or overpaid.
	SettledCutoff decimal.Decimal
	// IncludeUnreferenced includes sentinel-reference postings in the
	// per-account net-movement sum. Excluding them lets data-entry gaps
	// surface as unexplained discrepancies instead of vanishing into the
	// total; either policy is defensible, so it is a switch.
	IncludeUnreferenced bool
}

// DefaultOptions returns the tolerances the audit historically ran with.
func DefaultOptions() Options {
	return Options{
		Tolerance:           decimal.NewFromInt(1),
		SettledCutoff:       decimal.RequireFromString("0.01"),
		IncludeUnreferenced: true,
	}
}

// Accounts produces one ReconciliationRow per ledger account, in account
// order. Every account gets a row and a discrepancy, even with no postings.
func Accounts(led *ledger.Ledger, opts Options) []model.ReconciliationRow {
	type sums struct {
		net          decimal.Decimal
		unreferenced decimal.Decimal
	}
	byCode := make(map[string]*sums, len(led.Accounts))
	for _, a := range led.Accounts {
		byCode[a.Code] = &sums{}
	}

	for _, p := range led.Postings {
		s, ok := byCode[p.AccountCode]
		if !ok {
			continue
		}
		if p.ReferenceKey == refkey.Sentinel {
			s.unreferenced = s.unreferenced.Add(p.Net())
			if !opts.IncludeUnreferenced {
				continue
			}
		}
		s.net = s.net.Add(p.Net())
	}

	rows := make([]model.ReconciliationRow, 0, len(led.Accounts))
	for _, a := range led.Accounts {
		s := byCode[a.Code]
		theoretical := a.OpeningBalance.Add(s.net)
		discrepancy := a.ClosingBalance.Sub(theoretical)

		status := model.StatusBalanced
		if discrepancy.Abs().Cmp(opts.Tolerance) > 0 {
			status = model.StatusUnexplained
		}

		rows = append(rows, model.ReconciliationRow{
			Code:            a.Code,
			Name:            a.Name,
			OpeningBalance:  a.OpeningBalance,
			NetPostings:     s.net,
			Theoretical:     theoretical,
			Reported:        a.ClosingBalance,
			Discrepancy:     discrepancy,
			UnreferencedNet: s.unreferenced,
			Status:          status,
		})
	}
	return rows
}

// TotalDiscrepancy sums the discrepancy column, the audit's headline figure.
func TotalDiscrepancy(rows []model.ReconciliationRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Discrepancy)
	}
	return total
}

// Flagged filters to the rows that did not reconcile.
func Flagged(rows []model.ReconciliationRow) []model.ReconciliationRow {
	var out []model.ReconciliationRow
	for _, r := range rows {
		if r.Status != model.StatusBalanced {
			out = append(out, r)
		}
	}
	return out
}
