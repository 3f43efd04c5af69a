// Package models provides the data structures used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/recon-csv/internal/dateutils"
)

// Side identifies which statement a transaction came from.
type Side string

const (
	SideBank   Side = "bank"
	SideLedger Side = "ledger"
)

// MatchMethod identifies which matching pass produced a MatchResult.
type MatchMethod string

const (
	MethodExact     MatchMethod = "exact"
	MethodValueDate MatchMethod = "value_date"
	MethodGrouping  MatchMethod = "grouping"
)

// SuggestionKind identifies the criterion under which a correction
// candidate was found.
type SuggestionKind string

const (
	SuggestionValueSimilar       SuggestionKind = "value_similar"
	SuggestionDateEqual          SuggestionKind = "date_equal"
	SuggestionDescriptionSimilar SuggestionKind = "description_similar"
	SuggestionGeneric            SuggestionKind = "generic"
)

// Transaction represents a single bank-statement or ledger entry with the
// unified columns shared by both sides. Time-of-day on Date is not
// significant; all comparisons are by calendar day.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Day returns the transaction date truncated to midnight UTC so that
// calendar-day comparisons ignore time-of-day and timezone noise.
func (t Transaction) Day() time.Time {
	return dateutils.Day(t.Date)
}

// SameDay reports whether two transactions fall on the same calendar day.
func (t Transaction) SameDay(other Transaction) bool {
	return dateutils.SameDay(t.Date, other.Date)
}

// MatchResult records one committed match between one or more bank
// transactions and one or more ledger transactions.
type MatchResult struct {
	GroupID     int           `json:"group_id"`
	BankItems   []Transaction `json:"bank_items"`
	LedgerItems []Transaction `json:"ledger_items"`
	Method      MatchMethod   `json:"method"`

	// Similarity is the 0-100 description score; set for exact matches only.
	Similarity int `json:"similarity,omitempty"`
	// DayOffset is the absolute calendar-day distance; set for value_date
	// matches only.
	DayOffset int `json:"day_offset,omitempty"`
}

// BankTotal returns the sum of the bank-side amounts.
func (m MatchResult) BankTotal() decimal.Decimal {
	return SumAmounts(m.BankItems)
}

// LedgerTotal returns the sum of the ledger-side amounts.
func (m MatchResult) LedgerTotal() decimal.Decimal {
	return SumAmounts(m.LedgerItems)
}

// SumAmounts adds up the amounts of a slice of transactions.
func SumAmounts(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

// Suggestion is one ranked correction candidate attached to a Discrepancy.
// For generic suggestions only Message is populated.
type Suggestion struct {
	Kind      SuggestionKind `json:"kind"`
	Candidate *Transaction   `json:"candidate,omitempty"`

	// AmountDelta is candidate amount minus the unmatched amount.
	AmountDelta decimal.Decimal `json:"amount_delta"`
	// DayDelta is the absolute day distance, or -1 when not recorded.
	// date_equal candidates carry -1: the criterion already fixes the day,
	// so no distance is recorded and they rank last on the day tie-break.
	DayDelta   int    `json:"day_delta"`
	Similarity int    `json:"similarity,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Discrepancy is a transaction left unmatched after all passes, together
// with its ranked correction suggestions (always 1 to 3 of them).
type Discrepancy struct {
	Transaction Transaction  `json:"transaction"`
	Side        Side         `json:"side"`
	Suggestions []Suggestion `json:"suggestions"`
}

// ParseAmount parses a string amount into a decimal, tolerating the comma
// decimal separators, currency codes and thousands marks found in exported
// bank data. Unparseable input yields zero.
func ParseAmount(amountStr string) decimal.Decimal {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, " ", "")
	for _, noise := range []string{"CHF", "EUR", "USD", "Kz", "$", "€", "'"} {
		amount = strings.ReplaceAll(amount, noise, "")
	}
	// Comma as decimal separator unless it is clearly a thousands mark.
	if strings.Count(amount, ",") == 1 && !strings.Contains(amount, ".") {
		amount = strings.ReplaceAll(amount, ",", ".")
	} else {
		amount = strings.ReplaceAll(amount, ",", "")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return dec
}
