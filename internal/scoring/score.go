package scoring

import (
	"github.com/shopspring/decimal"
)

const (
	MinScore = 0
	MaxScore = 100

	// neutralScore is reported when there was no money movement at all.
	neutralScore = 50
)

var ratioScale = decimal.NewFromInt(50)

// Compute derives the 0-100 score from income and expense totals.
//
// With no expenses the score is 100 if anything came in and 50 otherwise.
// Otherwise it is floor(income / expenses * 50), capped at 100.
func Compute(t Totals) int {
	if t.Expenses.Sign() <= 0 {
		if t.Income.Sign() > 0 {
			return MaxScore
		}
		return neutralScore
	}

	// QuoRem at precision 0 gives the exact integer quotient, which is the
	// floor for non-negative operands.
	q, _ := t.Income.Mul(ratioScale).QuoRem(t.Expenses, 0)
	if q.GreaterThan(decimal.NewFromInt(MaxScore)) {
		return MaxScore
	}
	if q.Sign() < 0 {
		return MinScore
	}
	return int(q.IntPart())
}
