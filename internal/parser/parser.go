package parser

import (
	"time"

	"github.com/insightdelivered/momo-score/internal/models"
)

// Parser turns raw M-PESA notification text into transaction records.
// A Parser holds no mutable state and is safe for concurrent use.
type Parser struct {
	loc   *time.Location
	rules []rule
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the zone notification timestamps are read in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// New returns a parser with the M-PESA rule set. Timestamps default to EAT.
func New(opts ...Option) *Parser {
	p := &Parser{
		loc:   EAT,
		rules: mpesaRules,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Extract parses one message with the default parser.
func Extract(message string) models.Transaction {
	return defaultParser.Parse(message)
}

// ExtractAll parses a batch with the default parser.
func ExtractAll(messages []string) []models.Transaction {
	return defaultParser.ParseAll(messages)
}

// Location returns the zone timestamps are read in.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Rules returns the rule names in the order they are tried.
func (p *Parser) Rules() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.name
	}
	return names
}

// Parse classifies a single message. It never fails: text that matches no
// rule, or whose amount cannot be read, comes back Unclassified.
func (p *Parser) Parse(message string) models.Transaction {
	text := normalizeText(message)

	for _, r := range p.rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		amt, err := parseAmount(m[1])
		if err != nil {
			return models.Unclassified()
		}

		ts := parseTimestamp(text, p.loc)
		receipt := findReceiptID(text)
		party := r.party(m[2])

		if r.kind == models.KindCredit {
			return models.NewCredit(amt, party, ts, receipt, r.name)
		}
		return models.NewDebit(amt, party, ts, receipt, r.name)
	}

	return models.Unclassified()
}

// ParseAll parses every message independently and returns one record per
// message, in input order.
func (p *Parser) ParseAll(messages []string) []models.Transaction {
	txns := make([]models.Transaction, len(messages))
	for i, msg := range messages {
		txns[i] = p.Parse(msg)
	}
	return txns
}
