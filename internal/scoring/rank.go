package scoring

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/momo-score/internal/models"
)

// MaxTopExpenses caps the ranked expense list in a ScoreSummary.
const MaxTopExpenses = 5

// OtherParty is the bucket for debits without a counterparty.
const OtherParty = "Other"

// TopExpenses groups debit records by counterparty, sums each group and
// returns the largest limit groups, biggest first. Groups with equal totals
// keep the order in which their counterparty first appeared.
func TopExpenses(records []models.Transaction, limit int) []models.ExpenseGroup {
	groups := []models.ExpenseGroup{}
	index := make(map[string]int)

	for _, txn := range records {
		if txn.Kind != models.KindDebit {
			continue
		}
		name := OtherParty
		if txn.Counterparty != nil {
			name = *txn.Counterparty
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, models.ExpenseGroup{Name: name, Amount: decimal.Zero})
		}
		groups[i].Amount = groups[i].Amount.Add(txn.Amount)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Amount.GreaterThan(groups[b].Amount)
	})

	if limit >= 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}
