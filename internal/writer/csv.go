package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/momo-score/internal/models"
)

// Report is what the CSV writer renders: every parsed record plus the score
// computed over them.
type Report struct {
	Transactions []models.Transaction
	Summary      models.ScoreSummary
}

// CSVWriter writes reports to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the report to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, report)
}

// Write writes the report in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, report *Report) error {
	writer := csv.NewWriter(out)

	// Score summary as comment rows
	if w.IncludeHeader {
		s := report.Summary
		writer.Write([]string{"# Period", string(s.Period)})
		writer.Write([]string{"# Score", strconv.Itoa(s.Score)})
		writer.Write([]string{"# Total Income", formatAmount(s.TotalIncome)})
		writer.Write([]string{"# Total Expenses", formatAmount(s.TotalExpenses)})
	}

	header := []string{"Receipt", "Date", "Type", "Counterparty", "Amount"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range report.Transactions {
		row := []string{
			deref(txn.ReceiptID),
			formatTime(txn.Timestamp),
			string(txn.Kind),
			txn.Party(),
			formatAmount(txn.Amount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	if w.IncludeHeader && len(report.Summary.TopExpenses) > 0 {
		writer.Write([]string{"# Top Expenses"})
		for _, g := range report.Summary.TopExpenses {
			writer.Write([]string{"#", g.Name, formatAmount(g.Amount)})
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func formatTime(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.Format("2006-01-02 15:04")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
