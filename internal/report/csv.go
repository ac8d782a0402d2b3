// Package report serializes the audit result tables to CSV. Each table is
// row-oriented with a fixed header, the shape downstream spreadsheet tooling
// consumes.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/contaudit-dev/contaudit/internal/audit"
	"github.com/contaudit-dev/contaudit/internal/model"
	"github.com/contaudit-dev/contaudit/internal/reconcile"
)

// Table headers. Column order is part of the output contract.
const (
	AccountsHeader       = "code,name,opening_balance,closing_balance"
	PostingsHeader       = "account_code,policy,date,concept,reference_raw,reference_key,charge,payment,reported_balance,counterparty"
	PhantomsHeader       = "account_code,policy,date_raw,concept,reference,charge,payment"
	ReconciliationHeader = "code,name,opening_balance,net_postings,theoretical,reported,discrepancy,unreferenced_net,status"
	ReferencesHeader     = "account_code,account_name,reference_key,counterparty,first_date,total_charge,total_payment,net,category"
	CrossRefsHeader      = "reference_key,account_code,account_name,charge,payment,net"
)

const dateFormat = "2006-01-02"

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	return []string{a.Code, a.Name, a.OpeningBalance.StringFixed(2), a.ClosingBalance.StringFixed(2)}
}

// MarshalPosting converts a Posting to a CSV row.
func MarshalPosting(p model.Posting) []string {
	date := ""
	if p.Date != nil {
		date = p.Date.Format(dateFormat)
	}
	return []string{
		p.AccountCode, p.Policy, date, p.Concept, p.ReferenceRaw, p.ReferenceKey,
		p.Charge.StringFixed(2), p.Payment.StringFixed(2), p.Reported.StringFixed(2), p.Counterparty,
	}
}

// MarshalPhantom converts a PhantomRow to a CSV row.
func MarshalPhantom(p model.PhantomRow) []string {
	return []string{
		p.AccountCode, p.Policy, p.DateRaw, p.Concept, p.Reference,
		p.Charge.StringFixed(2), p.Payment.StringFixed(2),
	}
}

// MarshalReconciliation converts a ReconciliationRow to a CSV row.
func MarshalReconciliation(r model.ReconciliationRow) []string {
	return []string{
		r.Code, r.Name, r.OpeningBalance.StringFixed(2), r.NetPostings.StringFixed(2),
		r.Theoretical.StringFixed(2), r.Reported.StringFixed(2), r.Discrepancy.StringFixed(2),
		r.UnreferencedNet.StringFixed(2), string(r.Status),
	}
}

// MarshalReference converts a ReferenceSummary to a CSV row.
func MarshalReference(s model.ReferenceSummary) []string {
	date := ""
	if s.FirstDate != nil {
		date = s.FirstDate.Format(dateFormat)
	}
	return []string{
		s.AccountCode, s.AccountName, s.ReferenceKey, s.Counterparty, date,
		s.TotalCharge.StringFixed(2), s.TotalPayment.StringFixed(2), s.Net.StringFixed(2),
		string(s.Category),
	}
}

func writeTable(w io.Writer, header string, rows [][]string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteAccounts writes the account table.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	rows := make([][]string, len(accounts))
	for i, a := range accounts {
		rows[i] = MarshalAccount(a)
	}
	return writeTable(w, AccountsHeader, rows)
}

// WritePostings writes the posting table.
func WritePostings(w io.Writer, postings []model.Posting) error {
	rows := make([][]string, len(postings))
	for i, p := range postings {
		rows[i] = MarshalPosting(p)
	}
	return writeTable(w, PostingsHeader, rows)
}

// WritePhantoms writes the phantom-row table.
func WritePhantoms(w io.Writer, phantoms []model.PhantomRow) error {
	rows := make([][]string, len(phantoms))
	for i, p := range phantoms {
		rows[i] = MarshalPhantom(p)
	}
	return writeTable(w, PhantomsHeader, rows)
}

// WriteReconciliation writes the per-account reconciliation table.
func WriteReconciliation(w io.Writer, recon []model.ReconciliationRow) error {
	rows := make([][]string, len(recon))
	for i, r := range recon {
		rows[i] = MarshalReconciliation(r)
	}
	return writeTable(w, ReconciliationHeader, rows)
}

// WriteReferences writes the reference-summary table.
func WriteReferences(w io.Writer, sums []model.ReferenceSummary) error {
	rows := make([][]string, len(sums))
	for i, s := range sums {
		rows[i] = MarshalReference(s)
	}
	return writeTable(w, ReferencesHeader, rows)
}

// WriteCrossReferences writes the cross-reference table, one row per
// account line within each group.
func WriteCrossReferences(w io.Writer, groups []model.CrossReferenceGroup) error {
	var rows [][]string
	for _, g := range groups {
		for _, l := range g.Accounts {
			rows = append(rows, []string{
				g.ReferenceKey, l.AccountCode, l.AccountName,
				l.Charge.StringFixed(2), l.Payment.StringFixed(2), l.Net.StringFixed(2),
			})
		}
	}
	return writeTable(w, CrossRefsHeader, rows)
}

// Files written by WriteAll, relative to the output directory.
const (
	AccountsFile       = "accounts.csv"
	PostingsFile       = "postings.csv"
	PhantomsFile       = "phantom-rows.csv"
	ReconciliationFile = "reconciliation.csv"
	ReferencesFile     = "references.csv"
	PendingFile        = "pending.csv"
	OrphansFile        = "orphan-payments.csv"
	OverpaidFile       = "overpaid.csv"
	CrossRefsFile      = "cross-references.csv"
)

// WriteAll writes every result table under dir, creating it if needed. The
// reference table is also written filtered per anomaly category.
func WriteAll(dir string, res *audit.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	refView := func(cat model.RefCategory) func(io.Writer) error {
		return func(w io.Writer) error {
			return WriteReferences(w, reconcile.ByCategory(res.References, cat))
		}
	}

	tables := []struct {
		name  string
		write func(io.Writer) error
	}{
		{AccountsFile, func(w io.Writer) error { return WriteAccounts(w, res.Ledger.Accounts) }},
		{PostingsFile, func(w io.Writer) error { return WritePostings(w, res.Ledger.Postings) }},
		{PhantomsFile, func(w io.Writer) error { return WritePhantoms(w, res.Ledger.Phantoms) }},
		{ReconciliationFile, func(w io.Writer) error { return WriteReconciliation(w, res.Reconciliation) }},
		{ReferencesFile, func(w io.Writer) error { return WriteReferences(w, res.References) }},
		{PendingFile, refView(model.CategoryPending)},
		{OrphansFile, refView(model.CategoryOrphan)},
		{OverpaidFile, refView(model.CategoryOverpaid)},
		{CrossRefsFile, func(w io.Writer) error { return WriteCrossReferences(w, res.CrossReferences) }},
	}

	for _, tbl := range tables {
		f, err := os.Create(filepath.Join(dir, tbl.name))
		if err != nil {
			return fmt.Errorf("creating %s: %w", tbl.name, err)
		}
		if err := tbl.write(f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", tbl.name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", tbl.name, err)
		}
	}
	return nil
}
