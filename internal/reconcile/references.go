package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/contaudit-dev/contaudit/internal/model"
	"github.com/contaudit-dev/contaudit/internal/refkey"
)

// References aggregates postings per (account, reference key) and classifies
// each pair as pending, orphan, overpaid, or settled. Sentinel-reference
// postings have no stable identity to group on and are skipped; their net
// shows up in the per-account UnreferencedNet instead. Output order is
// account code, then reference key.
func References(postings []model.Posting, cutoff decimal.Decimal) []model.ReferenceSummary {
	type pairKey struct {
		code string
		ref  string
	}
	groups := make(map[pairKey]*model.ReferenceSummary)
	var order []pairKey

	for _, p := range postings {
		if p.ReferenceKey == refkey.Sentinel {
			continue
		}
		k := pairKey{code: p.AccountCode, ref: p.ReferenceKey}
		g, ok := groups[k]
		if !ok {
			g = &model.ReferenceSummary{
				AccountCode:  p.AccountCode,
				AccountName:  p.AccountName,
				ReferenceKey: p.ReferenceKey,
				Counterparty: p.Counterparty,
			}
			groups[k] = g
			order = append(order, k)
		}
		g.TotalCharge = g.TotalCharge.Add(p.Charge)
		g.TotalPayment = g.TotalPayment.Add(p.Payment)
		if p.Date != nil && (g.FirstDate == nil || p.Date.Before(*g.FirstDate)) {
			g.FirstDate = p.Date
		}
	}

	out := make([]model.ReferenceSummary, 0, len(order))
	for _, k := range order {
		g := groups[k]
		g.Net = g.TotalCharge.Sub(g.TotalPayment)
		g.Category = classifyReference(*g, cutoff)
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountCode != out[j].AccountCode {
			return out[i].AccountCode < out[j].AccountCode
		}
		return out[i].ReferenceKey < out[j].ReferenceKey
	})
	return out
}

// classifyReference applies the disjoint category predicates: at most one of
// pending, orphan, overpaid holds; settled is exactly the remainder.
func classifyReference(s model.ReferenceSummary, cutoff decimal.Decimal) model.RefCategory {
	charged := s.TotalCharge.IsPositive()
	switch {
	case charged && s.Net.Cmp(cutoff) > 0:
		return model.CategoryPending
	case !charged && s.TotalPayment.IsPositive():
		return model.CategoryOrphan
	case charged && s.Net.Cmp(cutoff.Neg()) < 0:
		return model.CategoryOverpaid
	default:
		return model.CategorySettled
	}
}

// ByCategory filters summaries to one category.
func ByCategory(summaries []model.ReferenceSummary, cat model.RefCategory) []model.ReferenceSummary {
	var out []model.ReferenceSummary
	for _, s := range summaries {
		if s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}
