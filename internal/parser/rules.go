package parser

import (
	"regexp"

	"github.com/insightdelivered/momo-score/internal/models"
)

// rule binds one message pattern to a transaction kind. The pattern must
// capture the amount literal in group 1 and the counterparty in group 2.
type rule struct {
	name    string
	kind    models.Kind
	pattern *regexp.Regexp
	// party builds the stored counterparty label from the captured name.
	party func(captured string) string
}

// amount is the "Ksh1,250.00" literal shared by every rule.
const amount = `Ksh ?(\d[\d,]*(?:\.\d{1,2})?)`

// M-PESA notification rules, in precedence order. The first match wins, so
// overlapping phrasings must stay ordered:
//
//	"sent to X for account" before "sent to X", both before "paid to X".
var mpesaRules = []rule{
	{
		// "You have received Ksh300.00 from EDNA BOLO 0724297970 on 24/10/25 at 6:32 AM"
		name:    "received",
		kind:    models.KindCredit,
		// Initials like "JOHN K. DOE" stay in the name; a dot only ends it
		// before "New" or at the end of the text.
		pattern: regexp.MustCompile(`received ` + amount + ` from ([\w\s&'.-]+?)(?: \+?\d{9,12}\b| on \d| at \d|\.? New\b|\.?$)`),
		party:   cleanParty,
	},
	{
		// "Ksh20.00 sent to AIRTEL MONEY for account 254788283068 on 24/10/25 at 8:01 AM"
		name:    "bill_payment",
		kind:    models.KindDebit,
		pattern: regexp.MustCompile(amount + ` sent to ([\w\s&'.-]+?) for account`),
		party:   cleanParty,
	},
	{
		// "Ksh20.00 sent to AGNES OGADA 0740664352 on 24/10/25 at 7:10 PM"
		// The name stops at the first date marker or phone number, not at the end.
		name:    "transfer",
		kind:    models.KindDebit,
		pattern: regexp.MustCompile(amount + ` sent to ([\w\s&'.-]+?) (?:on \d|at \d|\+?\d{10,12}\b)`),
		party:   cleanParty,
	},
	{
		// "Ksh65.00 paid to JANET OSESE. on 24/10/25 at 1:15 PM"
		name:    "merchant_payment",
		kind:    models.KindDebit,
		pattern: regexp.MustCompile(amount + ` paid to ([\w\s&'.-]+?) on \d`),
		party:   cleanParty,
	},
	{
		// "Withdraw Ksh500.00 from 123456 - MAMA MBOGA AGENCIES New M-PESA balance is ..."
		name:    "withdrawal",
		kind:    models.KindDebit,
		pattern: regexp.MustCompile(`Withdraw ` + amount + ` from ([\w\s&'.-]+?) New\b`),
		party: func(captured string) string {
			return "Withdrawal (" + cleanParty(captured) + ")"
		},
	},
}
