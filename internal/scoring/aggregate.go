package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/momo-score/internal/models"
)

// Totals holds money in and money out over a record set.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Aggregate sums credit amounts into Income and debit amounts into Expenses.
// Unclassified records count toward neither.
func Aggregate(records []models.Transaction) Totals {
	totals := Totals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, txn := range records {
		switch txn.Kind {
		case models.KindCredit:
			totals.Income = totals.Income.Add(txn.Amount)
		case models.KindDebit:
			totals.Expenses = totals.Expenses.Add(txn.Amount)
		}
	}
	return totals
}
