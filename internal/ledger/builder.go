// Package ledger reconstructs structured accounts and postings from the
// classified row stream. Account context is not repeated on every row of the
// export; it is carried forward from the nearest preceding header row.
package ledger

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contaudit-dev/contaudit/internal/classify"
	"github.com/contaudit-dev/contaudit/internal/model"
	"github.com/contaudit-dev/contaudit/internal/refkey"
)

const dateFormat = "2006-01-02"

// Ledger is the structured result of one build pass.
type Ledger struct {
	Accounts []model.Account // header order, one per code
	Postings []model.Posting // source stream order
	Phantoms []model.PhantomRow
}

// Builder turns classified rows into a Ledger.
type Builder struct {
	norm        *refkey.Normalizer
	stripPrefix *regexp.Regexp
}

// DefaultCounterpartyPrefix is the marker the export prepends to the
// free-text description of charge rows.
const DefaultCounterpartyPrefix = "CXC"

// NewBuilder creates a Builder with the given reference normalizer and the
// description prefix stripped during counterparty derivation.
func NewBuilder(norm *refkey.Normalizer, counterpartyPrefix string) *Builder {
	if norm == nil {
		norm = refkey.New()
	}
	if counterpartyPrefix == "" {
		counterpartyPrefix = DefaultCounterpartyPrefix
	}
	return &Builder{
		norm:        norm,
		stripPrefix: regexp.MustCompile(`^` + regexp.QuoteMeta(counterpartyPrefix) + `\s+`),
	}
}

// Build runs a single sequential scan over the rows, forward-filling the
// current account, and returns the structured ledger. Opening balances are
// collected during the scan and applied per account afterwards, so a balance
// row that appears after the account's first posting still counts.
func (b *Builder) Build(rows []classify.Row) *Ledger {
	led := &Ledger{}

	var curCode, curName string
	accountIdx := map[string]int{} // code -> index in led.Accounts
	openings := map[string]decimal.Decimal{}
	lastPosting := map[string]int{} // code -> index in led.Postings

	for _, row := range rows {
		tags := classify.Classify(row)

		if tags.AccountHeader {
			curCode = strings.TrimSpace(row.Cell(classify.ColPolicy))
			curName = strings.TrimSpace(row.Cell(classify.ColConcept))
			if i, seen := accountIdx[curCode]; seen {
				led.Accounts[i].Name = curName
			} else {
				accountIdx[curCode] = len(led.Accounts)
				led.Accounts = append(led.Accounts, model.Account{Code: curCode, Name: curName})
			}
			// No continue: a header row carrying money still goes through
			// the phantom test below.
		}

		if tags.OpeningBalance {
			// Non-numeric opening cells mean "absent", never zero.
			if d, ok := classify.TryParseAmount(row.Cell(classify.ColBalance)); ok {
				openings[curCode] = d
			}
			continue
		}

		if tags.Posting {
			led.Postings = append(led.Postings, b.buildPosting(row, curCode, curName))
			lastPosting[curCode] = len(led.Postings) - 1
			continue
		}

		if classify.IsPhantom(row, tags) {
			led.Phantoms = append(led.Phantoms, model.PhantomRow{
				AccountCode: curCode,
				AccountName: curName,
				Policy:      row.Cell(classify.ColPolicy),
				DateRaw:     row.Cell(classify.ColDate),
				Concept:     row.Cell(classify.ColConcept),
				Reference:   row.Cell(classify.ColReference),
				Charge:      classify.ParseAmount(row.Cell(classify.ColCharge)),
				Payment:     classify.ParseAmount(row.Cell(classify.ColPayment)),
			})
		}
	}

	for i := range led.Accounts {
		code := led.Accounts[i].Code
		led.Accounts[i].OpeningBalance = openings[code]
		if j, ok := lastPosting[code]; ok {
			led.Accounts[i].ClosingBalance = led.Postings[j].Reported
		}
	}

	return led
}

func (b *Builder) buildPosting(row classify.Row, code, name string) model.Posting {
	charge := classify.ParseAmount(row.Cell(classify.ColCharge))
	payment := classify.ParseAmount(row.Cell(classify.ColPayment))
	concept := strings.TrimSpace(row.Cell(classify.ColConcept))

	counterparty := concept
	if charge.IsPositive() {
		desc := strings.TrimSpace(row.Cell(classify.ColDesc))
		counterparty = strings.TrimSpace(b.stripPrefix.ReplaceAllString(desc, ""))
	}

	rawRef := row.Cell(classify.ColReference)
	return model.Posting{
		AccountCode:  code,
		AccountName:  name,
		Policy:       strings.TrimSpace(row.Cell(classify.ColPolicy)),
		Date:         parseDate(row.Cell(classify.ColDate)),
		Concept:      concept,
		ReferenceRaw: rawRef,
		ReferenceKey: b.norm.Normalize(rawRef),
		Charge:       charge,
		Payment:      payment,
		Reported:     classify.ParseAmount(row.Cell(classify.ColBalance)),
		Counterparty: counterparty,
	}
}

// parseDate parses the ISO prefix of a date cell. A posting with an
// unparseable date is retained with a nil date, not dropped.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if len(s) < len(dateFormat) {
		return nil
	}
	t, err := time.Parse(dateFormat, s[:len(dateFormat)])
	if err != nil {
		return nil
	}
	return &t
}
