package matcher

import (
	"sort"

	"github.com/shopspring/decimal"

	"fjacquet/recon-csv/internal/dateutils"
	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/models"
	"fjacquet/recon-csv/internal/textutils"
)

const (
	// maxSuggestions bounds the ranked list attached to a discrepancy.
	maxSuggestions = 3
	// suggestionSimilarityFloor is the minimum description similarity for
	// a description_similar suggestion.
	suggestionSimilarityFloor = 70
	// highSimilarityTier promotes candidates above this similarity to the
	// top ranking tier regardless of amount or date distance.
	highSimilarityTier = 85
	// missingDayRank is the sort key used when a suggestion carries no day
	// difference, pushing it behind any candidate that has one.
	missingDayRank = 999
)

var (
	valueSimilarLow  = decimal.NewFromFloat(0.95)
	valueSimilarHigh = decimal.NewFromFloat(1.05)
)

const (
	bankGenericHint   = "Bank transaction with no ledger counterpart. Record the corresponding ledger entry."
	ledgerGenericHint = "Ledger entry with no bank-statement counterpart. Check whether the bank transaction has not happened yet or the entry is mistaken."
)

// reportDiscrepancies is the final pass: every transaction left unmatched
// on either side becomes a Discrepancy carrying 1 to 3 ranked correction
// suggestions. Candidates are searched over the opposite side's full
// original set, not just its unmatched remainder.
func (m *Matcher) reportDiscrepancies(r *run) {
	for i := range r.bank {
		if r.bankClaimed[i] {
			continue
		}
		r.result.Discrepancies = append(r.result.Discrepancies, models.Discrepancy{
			Transaction: r.bank[i],
			Side:        models.SideBank,
			Suggestions: m.suggest(r.bank[i], r.ledger, bankGenericHint),
		})
	}
	for j := range r.ledger {
		if r.ledgerClaimed[j] {
			continue
		}
		r.result.Discrepancies = append(r.result.Discrepancies, models.Discrepancy{
			Transaction: r.ledger[j],
			Side:        models.SideLedger,
			Suggestions: m.suggest(r.ledger[j], r.bank, ledgerGenericHint),
		})
	}

	if n := len(r.result.Discrepancies); n > 0 {
		m.log.Warn("unreconciled transactions remain",
			logging.F(logging.FieldUnmatched, n))
	}
}

// suggest collects counterpart candidates under the three independent
// criteria, ranks the union, and truncates to the best three. When nothing
// qualifies it returns exactly one generic suggestion with the remediation
// hint for the discrepancy's side.
func (m *Matcher) suggest(tx models.Transaction, counterparts []models.Transaction, genericHint string) []models.Suggestion {
	var suggestions []models.Suggestion

	// Amount within +-5% of the unmatched amount.
	low := tx.Amount.Mul(valueSimilarLow)
	high := tx.Amount.Mul(valueSimilarHigh)
	for i := range counterparts {
		cand := counterparts[i]
		if cand.Amount.GreaterThan(low) && cand.Amount.LessThan(high) {
			suggestions = append(suggestions, models.Suggestion{
				Kind:        models.SuggestionValueSimilar,
				Candidate:   &counterparts[i],
				AmountDelta: cand.Amount.Sub(tx.Amount),
				DayDelta:    dateutils.DayDiff(cand.Date, tx.Date),
			})
		}
	}

	// Same calendar date. No day difference is recorded for these, so they
	// rank behind candidates that carry one when amounts tie.
	for i := range counterparts {
		cand := counterparts[i]
		if cand.SameDay(tx) {
			suggestions = append(suggestions, models.Suggestion{
				Kind:        models.SuggestionDateEqual,
				Candidate:   &counterparts[i],
				AmountDelta: cand.Amount.Sub(tx.Amount),
				DayDelta:    -1,
			})
		}
	}

	// Similar normalized description.
	normalized := textutils.Normalize(tx.Description)
	for i := range counterparts {
		cand := counterparts[i]
		similarity := textutils.TokenSortRatio(normalized, textutils.Normalize(cand.Description))
		if similarity >= suggestionSimilarityFloor {
			suggestions = append(suggestions, models.Suggestion{
				Kind:        models.SuggestionDescriptionSimilar,
				Candidate:   &counterparts[i],
				AmountDelta: cand.Amount.Sub(tx.Amount),
				DayDelta:    dateutils.DayDiff(cand.Date, tx.Date),
				Similarity:  similarity,
			})
		}
	}

	if len(suggestions) == 0 {
		return []models.Suggestion{{
			Kind:    models.SuggestionGeneric,
			Message: genericHint,
		}}
	}

	rankSuggestions(suggestions)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// rankSuggestions sorts by the composite key: high-similarity tier first,
// then ascending absolute amount difference, then ascending day difference
// with missing values last. The sort is stable so generation order breaks
// remaining ties.
func rankSuggestions(suggestions []models.Suggestion) {
	sort.SliceStable(suggestions, func(a, b int) bool {
		sa, sb := suggestions[a], suggestions[b]

		tierA, tierB := rankTier(sa), rankTier(sb)
		if tierA != tierB {
			return tierA < tierB
		}

		deltaA, deltaB := sa.AmountDelta.Abs(), sb.AmountDelta.Abs()
		if cmp := deltaA.Cmp(deltaB); cmp != 0 {
			return cmp < 0
		}

		return rankDay(sa) < rankDay(sb)
	})
}

func rankTier(s models.Suggestion) int {
	if s.Similarity > highSimilarityTier {
		return 0
	}
	return 1
}

func rankDay(s models.Suggestion) int {
	if s.DayDelta < 0 {
		return missingDayRank
	}
	return s.DayDelta
}
