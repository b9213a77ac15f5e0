package scoring

import (
	"time"

	"github.com/insightdelivered/momo-score/internal/models"
)

// Filter returns the records that fall inside period's trailing window ending
// at now. PeriodAll passes every record through, with or without a timestamp.
// For week and month, records without a timestamp or with a timestamp after
// now are dropped. The input slice is not modified.
func Filter(records []models.Transaction, period models.Period, now time.Time) []models.Transaction {
	if period == models.PeriodAll {
		out := make([]models.Transaction, len(records))
		copy(out, records)
		return out
	}

	start := now.Add(-period.Window())
	out := make([]models.Transaction, 0, len(records))
	for _, txn := range records {
		if inWindow(txn.Timestamp, start, now) {
			out = append(out, txn)
		}
	}
	return out
}

func inWindow(ts *time.Time, start, end time.Time) bool {
	if ts == nil {
		return false
	}
	return !ts.Before(start) && !ts.After(end)
}
