package reconcile

import (
	"sort"

	"github.com/contaudit-dev/contaudit/internal/model"
	"github.com/contaudit-dev/contaudit/internal/refkey"
)

// CrossReferences finds reference keys whose postings span more than one
// account with a charge somewhere and a payment somewhere: the signature of
// a payment applied to the wrong account. A clean export yields an empty
// result, not an error. Groups are ordered by key, accounts by code.
func CrossReferences(postings []model.Posting) []model.CrossReferenceGroup {
	type acctKey struct {
		ref  string
		code string
	}
	lines := make(map[acctKey]*model.CrossAccountLine)
	byRef := make(map[string][]acctKey)

	for _, p := range postings {
		if p.ReferenceKey == refkey.Sentinel {
			continue
		}
		k := acctKey{ref: p.ReferenceKey, code: p.AccountCode}
		l, ok := lines[k]
		if !ok {
			l = &model.CrossAccountLine{AccountCode: p.AccountCode, AccountName: p.AccountName}
			lines[k] = l
			byRef[p.ReferenceKey] = append(byRef[p.ReferenceKey], k)
		}
		l.Charge = l.Charge.Add(p.Charge)
		l.Payment = l.Payment.Add(p.Payment)
	}

	var groups []model.CrossReferenceGroup
	for ref, keys := range byRef {
		if len(keys) < 2 {
			continue
		}
		var hasCharge, hasPayment bool
		acctLines := make([]model.CrossAccountLine, 0, len(keys))
		for _, k := range keys {
			l := *lines[k]
			l.Net = l.Charge.Sub(l.Payment)
			hasCharge = hasCharge || l.Charge.IsPositive()
			hasPayment = hasPayment || l.Payment.IsPositive()
			acctLines = append(acctLines, l)
		}
		if !hasCharge || !hasPayment {
			continue
		}
		sort.Slice(acctLines, func(i, j int) bool { return acctLines[i].AccountCode < acctLines[j].AccountCode })
		groups = append(groups, model.CrossReferenceGroup{ReferenceKey: ref, Accounts: acctLines})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].ReferenceKey < groups[j].ReferenceKey })
	return groups
}
