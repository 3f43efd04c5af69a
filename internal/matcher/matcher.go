// Package matcher implements the automated bank-reconciliation engine. It
// takes the bank-statement and ledger transaction sets and determines which
// records represent the same real-world event, under uncertainty in date,
// amount and free-text description, including cases where several
// transactions on one side jointly equal one transaction on the other.
//
// Matching runs in three ordered passes over the not-yet-matched remainder
// of both sides (exact, value/date-window, combinatorial grouping) followed
// by discrepancy reporting. The engine never mutates the caller's slices;
// claimed records are tracked by index internally.
package matcher

import (
	"github.com/shopspring/decimal"

	"fjacquet/recon-csv/internal/dateutils"
	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/models"
	"fjacquet/recon-csv/internal/textutils"
)

// Options are the tunables of a reconciliation run. Zero is a meaningful
// setting for DayTolerance (same-day only) and TextThreshold (accept any
// description) and is passed through as-is; a zero AmountEpsilon would
// make every comparison fail, so New replaces it with the default.
type Options struct {
	// DayTolerance is the calendar-day window used by the value/date and
	// grouping passes.
	DayTolerance int
	// AmountEpsilon is the absolute tolerance below which two monetary
	// amounts are considered equal.
	AmountEpsilon decimal.Decimal
	// TextThreshold is the minimum 0-100 description similarity for the
	// exact pass.
	TextThreshold int
}

// DefaultOptions returns the standard tolerances: 3 days, 0.01, 80.
func DefaultOptions() Options {
	return Options{
		DayTolerance:  3,
		AmountEpsilon: decimal.NewFromFloat(0.01),
		TextThreshold: 80,
	}
}

// Result is the complete outcome of one reconciliation run. Every input
// transaction appears in exactly one match or one discrepancy.
type Result struct {
	Matches       []models.MatchResult `json:"matches"`
	Discrepancies []models.Discrepancy `json:"discrepancies"`
}

// Matcher runs the reconciliation passes. It is synchronous and keeps no
// state between runs.
type Matcher struct {
	opts Options
	log  logging.Logger
}

// New creates a Matcher with the given options. A zero AmountEpsilon is
// replaced with the default; DayTolerance and TextThreshold keep whatever
// value they carry, zero included. A nil logger discards output.
func New(opts Options, log logging.Logger) *Matcher {
	if log == nil {
		log = logging.Nop()
	}
	if opts.AmountEpsilon.IsZero() {
		opts.AmountEpsilon = DefaultOptions().AmountEpsilon
	}
	return &Matcher{opts: opts, log: log}
}

// run carries the per-call state: the input slices plus the claimed-index
// sets that stand in for the mutable matched flags of older designs.
type run struct {
	bank   []models.Transaction
	ledger []models.Transaction

	bankClaimed   []bool
	ledgerClaimed []bool

	nextGroupID int
	result      Result
}

// Reconcile matches the bank statement against the ledger and returns the
// committed matches plus the discrepancies with ranked suggestions. The
// input slices are not modified.
func (m *Matcher) Reconcile(bank, ledger []models.Transaction) Result {
	m.log.Info("starting automatic reconciliation",
		logging.F(logging.FieldBankCount, len(bank)),
		logging.F(logging.FieldLedgerCount, len(ledger)))

	r := &run{
		bank:          bank,
		ledger:        ledger,
		bankClaimed:   make([]bool, len(bank)),
		ledgerClaimed: make([]bool, len(ledger)),
		nextGroupID:   1,
	}

	m.matchExact(r)
	m.matchValueDate(r)
	m.matchGrouping(r)
	m.reportDiscrepancies(r)

	m.log.Info("reconciliation finished",
		logging.F(logging.FieldMatched, len(r.result.Matches)),
		logging.F(logging.FieldUnmatched, len(r.result.Discrepancies)))

	return r.result
}

// amountsEqual reports whether two amounts agree within the configured
// epsilon.
func (m *Matcher) amountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(m.opts.AmountEpsilon)
}

// matchExact is pass 1: same calendar day, equal amount and similar
// description. First-fit in input order on both sides.
func (m *Matcher) matchExact(r *run) {
	for i := range r.bank {
		if r.bankClaimed[i] {
			continue
		}
		for j := range r.ledger {
			if r.ledgerClaimed[j] {
				continue
			}
			if !r.bank[i].SameDay(r.ledger[j]) {
				continue
			}
			if !m.amountsEqual(r.bank[i].Amount, r.ledger[j].Amount) {
				continue
			}
			similarity := textutils.TokenSortRatio(
				textutils.Normalize(r.bank[i].Description),
				textutils.Normalize(r.ledger[j].Description),
			)
			if similarity < m.opts.TextThreshold {
				continue
			}

			groupID := r.claim([]int{i}, []int{j})
			r.result.Matches = append(r.result.Matches, models.MatchResult{
				GroupID:     groupID,
				BankItems:   []models.Transaction{r.bank[i]},
				LedgerItems: []models.Transaction{r.ledger[j]},
				Method:      models.MethodExact,
				Similarity:  similarity,
			})
			m.log.Debug("exact match committed",
				logging.F(logging.FieldGroupID, groupID),
				logging.F(logging.FieldSimilarity, similarity))
			break
		}
	}
}

// matchValueDate is pass 2: equal amount with the dates within the day
// tolerance, no text comparison. First-fit as in pass 1.
func (m *Matcher) matchValueDate(r *run) {
	for i := range r.bank {
		if r.bankClaimed[i] {
			continue
		}
		for j := range r.ledger {
			if r.ledgerClaimed[j] {
				continue
			}
			if !m.amountsEqual(r.bank[i].Amount, r.ledger[j].Amount) {
				continue
			}
			dayOffset := dateutils.DayDiff(r.bank[i].Date, r.ledger[j].Date)
			if dayOffset > m.opts.DayTolerance {
				continue
			}

			groupID := r.claim([]int{i}, []int{j})
			r.result.Matches = append(r.result.Matches, models.MatchResult{
				GroupID:     groupID,
				BankItems:   []models.Transaction{r.bank[i]},
				LedgerItems: []models.Transaction{r.ledger[j]},
				Method:      models.MethodValueDate,
				DayOffset:   dayOffset,
			})
			m.log.Debug("value/date match committed",
				logging.F(logging.FieldGroupID, groupID),
				logging.F(logging.FieldDayOffset, dayOffset))
			break
		}
	}
}

// claim marks the given indices as matched and returns the allocated group
// ID. Group IDs increase monotonically within a run and are never reused.
func (r *run) claim(bankIdx, ledgerIdx []int) int {
	for _, i := range bankIdx {
		r.bankClaimed[i] = true
	}
	for _, j := range ledgerIdx {
		r.ledgerClaimed[j] = true
	}
	id := r.nextGroupID
	r.nextGroupID++
	return id
}
