package scoring

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/momo-score/internal/models"
)

var testNow = time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func credit(amount string, party string, ts *time.Time) models.Transaction {
	return models.NewCredit(decimal.RequireFromString(amount), party, ts, nil, "")
}

func debit(amount string, party string, ts *time.Time) models.Transaction {
	return models.NewDebit(decimal.RequireFromString(amount), party, ts, nil, "")
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
