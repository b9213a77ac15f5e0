package scoring

import (
	"fmt"
	"testing"

	"github.com/insightdelivered/momo-score/internal/models"
)

func TestFilter(t *testing.T) {
	records := []models.Transaction{
		credit("100", "A", daysAgo(0)),  // 0
		credit("100", "B", daysAgo(6)),  // 1
		credit("100", "C", daysAgo(7)),  // 2: exactly on the week boundary
		credit("100", "D", daysAgo(8)),  // 3
		credit("100", "E", daysAgo(30)), // 4: exactly on the month boundary
		credit("100", "F", daysAgo(31)), // 5
		credit("100", "G", nil),         // 6: no timestamp
		models.Unclassified(),           // 7
		debit("100", "H", daysAgo(-1)),  // 8: after now
	}

	tests := []struct {
		period models.Period
		want   []string
	}{
		{models.PeriodWeek, []string{"A", "B", "C"}},
		{models.PeriodMonth, []string{"A", "B", "C", "D", "E"}},
		{models.PeriodAll, []string{"A", "B", "C", "D", "E", "F", "G", "", "H"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			got := Filter(records, tt.period, testNow)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Party() != name {
					t.Errorf("record[%d]: got %q, want %q", i, got[i].Party(), name)
				}
			}
		})
	}
}

func TestFilter_WeekSubsetOfMonth(t *testing.T) {
	var records []models.Transaction
	for d := -2; d <= 40; d++ {
		records = append(records, credit("1", fmt.Sprint(d), daysAgo(d)))
	}
	records = append(records, credit("1", "none", nil))

	month := make(map[string]bool)
	for _, r := range Filter(records, models.PeriodMonth, testNow) {
		month[r.Party()] = true
	}
	for _, r := range Filter(records, models.PeriodWeek, testNow) {
		if !month[r.Party()] {
			t.Errorf("week record %q missing from month", r.Party())
		}
	}
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	records := []models.Transaction{credit("1", "A", nil)}
	got := Filter(records, models.PeriodAll, testNow)
	got[0] = models.Unclassified()
	if records[0].Kind != models.KindCredit {
		t.Error("Filter result shares storage with the input")
	}
}
