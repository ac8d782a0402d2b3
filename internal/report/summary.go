package report

import (
	"fmt"
	"strings"

	"github.com/contaudit-dev/contaudit/internal/audit"
	"github.com/contaudit-dev/contaudit/internal/model"
	"github.com/contaudit-dev/contaudit/internal/reconcile"
)

// HumanSummary renders the run's headline findings for the console.
func HumanSummary(res *audit.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Rows read: %d\n", res.RowCount)
	fmt.Fprintf(&b, "Accounts: %d\n", len(res.Ledger.Accounts))
	fmt.Fprintf(&b, "Postings: %d\n", len(res.Ledger.Postings))
	fmt.Fprintf(&b, "Total discrepancy: %s\n", res.TotalDiscrepancy.StringFixed(2))

	if n := len(res.Ledger.Phantoms); n > 0 {
		fmt.Fprintf(&b, "\nPhantom rows: %d row(s) carry money but failed the posting test:\n", n)
		for _, p := range res.Ledger.Phantoms {
			fmt.Fprintf(&b, "- [%s] %s date=%q charge=%s payment=%s\n",
				p.AccountCode, p.Policy, p.DateRaw, p.Charge.StringFixed(2), p.Payment.StringFixed(2))
		}
	}

	if flagged := reconcile.Flagged(res.Reconciliation); len(flagged) > 0 {
		fmt.Fprintf(&b, "\nAccounts out of balance:\n")
		for _, r := range flagged {
			fmt.Fprintf(&b, "- %s %s theoretical=%s reported=%s discrepancy=%s unreferenced=%s\n",
				r.Code, r.Name, r.Theoretical.StringFixed(2), r.Reported.StringFixed(2),
				r.Discrepancy.StringFixed(2), r.UnreferencedNet.StringFixed(2))
		}
	} else {
		fmt.Fprintf(&b, "\nAll accounts reconcile within tolerance.\n")
	}

	if len(res.CrossReferences) > 0 {
		fmt.Fprintf(&b, "\nCross-account references:\n")
		for _, g := range res.CrossReferences {
			fmt.Fprintf(&b, "- ref %s spans %d accounts:\n", g.ReferenceKey, len(g.Accounts))
			for _, l := range g.Accounts {
				fmt.Fprintf(&b, "  - %s %s charge=%s payment=%s\n",
					l.AccountCode, l.AccountName, l.Charge.StringFixed(2), l.Payment.StringFixed(2))
			}
		}
	}

	pending := len(reconcile.ByCategory(res.References, model.CategoryPending))
	orphans := len(reconcile.ByCategory(res.References, model.CategoryOrphan))
	overpaid := len(reconcile.ByCategory(res.References, model.CategoryOverpaid))
	fmt.Fprintf(&b, "\nReferences: %d pending, %d orphan payment(s), %d overpaid\n", pending, orphans, overpaid)

	return b.String()
}
