package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a parsed transaction.
type Kind string

const (
	KindCredit       Kind = "Credit" // money received
	KindDebit        Kind = "Debit"  // money sent, paid or withdrawn
	KindUnclassified Kind = ""       // no rule matched
)

// MarshalJSON writes the unclassified kind as null.
func (k Kind) MarshalJSON() ([]byte, error) {
	if k == KindUnclassified {
		return []byte("null"), nil
	}
	return json.Marshal(string(k))
}

// Transaction is one parsed mobile-money notification.
//
// Records are built once by the parser through NewCredit, NewDebit or
// Unclassified and are not modified afterwards.
type Transaction struct {
	Kind         Kind            `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty *string         `json:"party"`
	Timestamp    *time.Time      `json:"timestamp,omitempty"`
	ReceiptID    *string         `json:"receiptId,omitempty"`
	Rule         string          `json:"rule,omitempty"` // debug: which rule matched
}

// NewCredit returns a money-in record. rule names the parser rule that matched.
func NewCredit(amount decimal.Decimal, counterparty string, ts *time.Time, receipt *string, rule string) Transaction {
	return Transaction{
		Kind:         KindCredit,
		Amount:       amount,
		Counterparty: &counterparty,
		Timestamp:    ts,
		ReceiptID:    receipt,
		Rule:         rule,
	}
}

// NewDebit returns a money-out record. rule names the parser rule that matched.
func NewDebit(amount decimal.Decimal, counterparty string, ts *time.Time, receipt *string, rule string) Transaction {
	return Transaction{
		Kind:         KindDebit,
		Amount:       amount,
		Counterparty: &counterparty,
		Timestamp:    ts,
		ReceiptID:    receipt,
		Rule:         rule,
	}
}

// Unclassified returns the record used when no rule matched the message.
func Unclassified() Transaction {
	return Transaction{Kind: KindUnclassified, Amount: decimal.Zero}
}

// IsClassified reports whether a rule matched the message.
func (t Transaction) IsClassified() bool {
	return t.Kind != KindUnclassified
}

// Party returns the counterparty label, or "" when absent.
func (t Transaction) Party() string {
	if t.Counterparty == nil {
		return ""
	}
	return *t.Counterparty
}

// Period selects the trailing window a score is computed over.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ErrInvalidPeriod is returned for any selector other than week, month or all.
var ErrInvalidPeriod = errors.New("invalid period")

// ParsePeriod validates a period selector.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("%w %q: use week, month or all", ErrInvalidPeriod, s)
	}
}

// Valid reports whether p is one of the known selectors.
func (p Period) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodAll
}

// Window returns the trailing duration covered by p. PeriodAll has no window
// and returns 0.
func (p Period) Window() time.Duration {
	switch p {
	case PeriodWeek:
		return 7 * 24 * time.Hour
	case PeriodMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// ExpenseGroup is the summed spend for one counterparty.
type ExpenseGroup struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// ScoreSummary is the result of one scoring call.
type ScoreSummary struct {
	Score         int             `json:"score"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Period        Period          `json:"period"`
	TopExpenses   []ExpenseGroup  `json:"top_expenses"`
}
