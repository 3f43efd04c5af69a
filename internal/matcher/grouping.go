package matcher

import (
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/models"
)

// maxGroupSize caps the subset size per side. Banking data splits and
// aggregates postings, but true n-way splits above this size are rare and
// the cap keeps the search at O(n^3) per date bucket instead of O(2^n).
const maxGroupSize = 3

// matchGrouping is pass 3: for each distinct calendar date still carrying
// unmatched bank transactions, search for bank subsets (size 1..3, that
// date only) and ledger subsets (size 1..3, dates within the tolerance
// window) whose sums agree within epsilon. The first subset-pair found
// wins; the unmatched remainder is recomputed before moving to the next
// date because a committed group consumes candidates.
func (m *Matcher) matchGrouping(r *run) {
	for _, day := range unmatchedBankDays(r) {
		bankIdx := unmatchedBankOnDay(r, day)
		if len(bankIdx) == 0 {
			continue
		}
		ledgerIdx := unmatchedLedgerInWindow(r, day, m.opts.DayTolerance)
		if len(ledgerIdx) == 0 {
			continue
		}

		bankGroup, ledgerGroup, ok := m.findGroup(r, bankIdx, ledgerIdx)
		if !ok {
			continue
		}

		groupID := r.claim(bankGroup, ledgerGroup)
		match := models.MatchResult{
			GroupID: groupID,
			Method:  models.MethodGrouping,
		}
		for _, i := range bankGroup {
			match.BankItems = append(match.BankItems, r.bank[i])
		}
		for _, j := range ledgerGroup {
			match.LedgerItems = append(match.LedgerItems, r.ledger[j])
		}
		r.result.Matches = append(r.result.Matches, match)

		m.log.Debug("group match committed",
			logging.F(logging.FieldGroupID, groupID),
			logging.F(logging.FieldBankCount, len(bankGroup)),
			logging.F(logging.FieldLedgerCount, len(ledgerGroup)))
	}
}

// findGroup enumerates subset sizes in ascending order and combinations in
// index order, returning the first pair whose sums agree within epsilon.
func (m *Matcher) findGroup(r *run, bankIdx, ledgerIdx []int) (bankGroup, ledgerGroup []int, ok bool) {
	for nBank := 1; nBank <= maxGroupSize && nBank <= len(bankIdx); nBank++ {
		stop := eachCombination(len(bankIdx), nBank, func(combo []int) bool {
			candidate := pick(bankIdx, combo)
			bankSum := sumAt(r.bank, candidate)

			for nLedger := 1; nLedger <= maxGroupSize && nLedger <= len(ledgerIdx); nLedger++ {
				found := eachCombination(len(ledgerIdx), nLedger, func(lcombo []int) bool {
					lCandidate := pick(ledgerIdx, lcombo)
					if m.amountsEqual(bankSum, sumAt(r.ledger, lCandidate)) {
						bankGroup = candidate
						ledgerGroup = lCandidate
						return true
					}
					return false
				})
				if found {
					return true
				}
			}
			return false
		})
		if stop {
			return bankGroup, ledgerGroup, true
		}
	}
	return nil, nil, false
}

// eachCombination enumerates the k-of-n index combinations in lexicographic
// order, calling fn with a reused index slice. It stops early and returns
// true when fn does.
func eachCombination(n, k int, fn func(combo []int) bool) bool {
	if k > n || k <= 0 {
		return false
	}

	combo := make([]int, k)
	for i := range combo {
		combo[i] = i
	}

	for {
		if fn(combo) {
			return true
		}

		// Advance to the next combination: find the rightmost position
		// that can still move, bump it, and reset everything after it.
		pos := k - 1
		for pos >= 0 && combo[pos] == n-k+pos {
			pos--
		}
		if pos < 0 {
			return false
		}
		combo[pos]++
		for i := pos + 1; i < k; i++ {
			combo[i] = combo[i-1] + 1
		}
	}
}

// pick maps combination positions back to the original transaction indices.
func pick(idx []int, combo []int) []int {
	out := make([]int, len(combo))
	for i, c := range combo {
		out[i] = idx[c]
	}
	return out
}

func sumAt(txs []models.Transaction, idx []int) decimal.Decimal {
	total := decimal.Zero
	for _, i := range idx {
		total = total.Add(txs[i].Amount)
	}
	return total
}

// unmatchedBankDays returns the distinct calendar days of the still
// unmatched bank transactions, in input order of first appearance.
func unmatchedBankDays(r *run) []time.Time {
	var days []time.Time
	seen := make(map[time.Time]bool)
	for i := range r.bank {
		if r.bankClaimed[i] {
			continue
		}
		day := r.bank[i].Day()
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}

func unmatchedBankOnDay(r *run, day time.Time) []int {
	var idx []int
	for i := range r.bank {
		if !r.bankClaimed[i] && r.bank[i].Day().Equal(day) {
			idx = append(idx, i)
		}
	}
	return idx
}

func unmatchedLedgerInWindow(r *run, day time.Time, tolerance int) []int {
	start := day.AddDate(0, 0, -tolerance)
	end := day.AddDate(0, 0, tolerance)

	var idx []int
	for j := range r.ledger {
		if r.ledgerClaimed[j] {
			continue
		}
		d := r.ledger[j].Day()
		if !d.Before(start) && !d.After(end) {
			idx = append(idx, j)
		}
	}
	return idx
}
