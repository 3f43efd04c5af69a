// Package ledger applies correction suggestions to the accounting ledger.
// The ledger is a CSV file of entries; applying a suggestion either creates
// a missing counterpart entry or aligns an entry amount with the bank
// statement. Changes are saved atomically: the file is only rewritten when
// the whole application succeeded, and every change is audited.
package ledger

import (
	"errors"
	"fmt"

	"fjacquet/recon-csv/internal/audit"
	"fjacquet/recon-csv/internal/config"
	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/models"
	"fjacquet/recon-csv/internal/statement"
)

var (
	// ErrNotApplicable means the suggestion kind carries no automatic fix.
	ErrNotApplicable = errors.New("suggestion cannot be applied automatically")
	// ErrEntryNotFound means the entry a suggestion refers to is no longer
	// in the ledger file.
	ErrEntryNotFound = errors.New("ledger entry not found")
)

// Book is a ledger file loaded into memory.
type Book struct {
	path    string
	entries []models.Transaction
	log     logging.Logger
	sink    audit.Sink
}

// Open loads the ledger file using the given column profile.
func Open(path string, profile config.BankProfile, log logging.Logger, sink audit.Sink) (*Book, error) {
	if log == nil {
		log = logging.Nop()
	}
	if sink == nil {
		sink = audit.Nop()
	}

	entries, err := statement.NewReader(profile, log).ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading ledger: %w", err)
	}
	return &Book{path: path, entries: entries, log: log, sink: sink}, nil
}

// Entries returns a copy of the current entries.
func (b *Book) Entries() []models.Transaction {
	out := make([]models.Transaction, len(b.entries))
	copy(out, b.entries)
	return out
}

// ApplySuggestion applies one suggestion from a reconciliation discrepancy.
//
// A generic, date_equal or description_similar suggestion on a bank-side
// discrepancy creates the missing counterpart entry. A value_similar
// suggestion aligns the ledger amount with the bank amount on either side.
// Everything else returns ErrNotApplicable. On failure the ledger file and
// the in-memory entries are left untouched.
func (b *Book) ApplySuggestion(disc models.Discrepancy, sug models.Suggestion) error {
	next, detail, err := b.apply(disc, sug)
	if err != nil {
		return err
	}

	if err := b.save(next); err != nil {
		return err
	}
	b.entries = next

	detail["kind"] = string(sug.Kind)
	detail["side"] = string(disc.Side)
	if err := b.sink.Record(audit.Event{Action: audit.ActionSuggestionApply, Detail: detail}); err != nil {
		b.log.WithError(err).Warn("failed to record audit event")
	}

	b.log.Info("suggestion applied",
		logging.F(logging.FieldAction, string(sug.Kind)),
		logging.F(logging.FieldSide, string(disc.Side)))
	return nil
}

// apply computes the entry list after the suggestion, without touching
// the book.
func (b *Book) apply(disc models.Discrepancy, sug models.Suggestion) ([]models.Transaction, map[string]string, error) {
	switch sug.Kind {
	case models.SuggestionGeneric, models.SuggestionDateEqual, models.SuggestionDescriptionSimilar:
		// All three mean the transaction never reached the ledger, so the
		// counterpart entry is created from the bank data.
		if disc.Side != models.SideBank {
			return nil, nil, fmt.Errorf("%w: a ledger-side entry needs manual review", ErrNotApplicable)
		}
		next := append(b.Entries(), disc.Transaction)
		detail := map[string]string{
			"description": disc.Transaction.Description,
			"amount":      disc.Transaction.Amount.StringFixed(2),
		}
		return next, detail, nil

	case models.SuggestionValueSimilar:
		if sug.Candidate == nil {
			return nil, nil, fmt.Errorf("%w: suggestion carries no candidate", ErrNotApplicable)
		}
		// Align the ledger with the bank statement: on a bank-side
		// discrepancy the candidate is the ledger entry to fix, on a
		// ledger side the discrepant entry itself is fixed.
		target := *sug.Candidate
		amount := disc.Transaction.Amount
		if disc.Side == models.SideLedger {
			target = disc.Transaction
			amount = sug.Candidate.Amount
		}

		idx := b.find(target)
		if idx < 0 {
			return nil, nil, fmt.Errorf("%w: %q on %s", ErrEntryNotFound,
				target.Description, target.Date.Format("2006-01-02"))
		}

		next := b.Entries()
		detail := map[string]string{
			"description": next[idx].Description,
			"old_amount":  next[idx].Amount.StringFixed(2),
			"new_amount":  amount.StringFixed(2),
		}
		next[idx].Amount = amount
		return next, detail, nil

	default:
		return nil, nil, fmt.Errorf("%w: kind %q", ErrNotApplicable, sug.Kind)
	}
}

func (b *Book) find(tx models.Transaction) int {
	for i, e := range b.entries {
		if e.SameDay(tx) && e.Description == tx.Description && e.Amount.Equal(tx.Amount) {
			return i
		}
	}
	return -1
}

func (b *Book) save(entries []models.Transaction) error {
	if err := statement.WriteCSV(entries, b.path); err != nil {
		return fmt.Errorf("error saving ledger: %w", err)
	}
	return nil
}
