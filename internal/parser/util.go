package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a matched amount literal is not a decimal.
var ErrInvalidAmount = errors.New("invalid amount")

// EAT is East Africa Time. Notifications carry no zone, so every timestamp is
// read in one fixed local zone to keep week/month windows consistent.
var EAT = time.FixedZone("EAT", 3*60*60)

var (
	// "on 24/10/25 at 6:32 AM" (day and month 1-2 digits, hour 1-2 digits)
	dateTimePattern = regexp.MustCompile(`(?i)\bon (\d{1,2}/\d{1,2}/\d{2}) at (\d{1,2}):(\d{2}) ?([AP]M)`)
	// "QWE123 Confirmed." at the very start of a message
	receiptPattern = regexp.MustCompile(`^([A-Z0-9]{6,12}) (?i:confirmed)\b`)
)

// dateTimeLayout expects a two-digit hour; single-digit hours are padded first.
const dateTimeLayout = "2/1/06 at 03:04 PM"

// normalizeText collapses every whitespace run (newlines included) to one space.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseAmount converts a literal like "1,250.00" to an exact decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrInvalidAmount, s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w %q: negative", ErrInvalidAmount, s)
	}
	return d, nil
}

// parseTimestamp finds the "on D/M/YY at H:MM AM" fragment in text and returns
// it as an instant in loc. It returns nil when the fragment is missing or does
// not describe a real calendar time.
func parseTimestamp(text string, loc *time.Location) *time.Time {
	m := dateTimePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	hour := m[2]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	fragment := fmt.Sprintf("%s at %s:%s %s", m[1], hour, m[3], strings.ToUpper(m[4]))

	ts, err := time.ParseInLocation(dateTimeLayout, fragment, loc)
	if err != nil {
		return nil
	}
	return &ts
}

// findReceiptID returns the leading confirmation code, or nil if the message
// does not start with one.
func findReceiptID(text string) *string {
	m := receiptPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	id := m[1]
	return &id
}

// cleanParty trims spaces and trailing sentence dots from a captured name.
func cleanParty(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ". ")
}
