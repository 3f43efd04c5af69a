// Package report renders reconciliation results for human review.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/matcher"
	"fjacquet/recon-csv/internal/models"
)

// Summary holds the headline figures of a reconciliation run.
type Summary struct {
	GeneratedAt        time.Time       `json:"generated_at"`
	MatchedGroups      int             `json:"matched_groups"`
	MatchedBankTotal   decimal.Decimal `json:"matched_bank_total"`
	Discrepancies      int             `json:"discrepancies"`
	DiscrepantTotal    decimal.Decimal `json:"discrepant_total"`
	BankTransactions   int             `json:"bank_transactions"`
	LedgerTransactions int             `json:"ledger_transactions"`
}

// Report is the full document handed to renderers and callers.
type Report struct {
	Summary       Summary              `json:"summary"`
	Matches       []models.MatchResult `json:"matches"`
	Discrepancies []models.Discrepancy `json:"discrepancies"`
}

// Generator renders reconciliation reports in JSON or CSV.
type Generator struct {
	log logging.Logger
	now func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(log logging.Logger) *Generator {
	if log == nil {
		log = logging.Nop()
	}
	return &Generator{log: log, now: time.Now}
}

// Build assembles the report document from a matcher result.
func (g *Generator) Build(result matcher.Result) Report {
	summary := Summary{
		GeneratedAt:   g.now(),
		MatchedGroups: len(result.Matches),
		Discrepancies: len(result.Discrepancies),
	}

	matchedTotal := decimal.Zero
	for _, match := range result.Matches {
		matchedTotal = matchedTotal.Add(match.BankTotal())
		summary.BankTransactions += len(match.BankItems)
		summary.LedgerTransactions += len(match.LedgerItems)
	}
	summary.MatchedBankTotal = matchedTotal

	discrepantTotal := decimal.Zero
	for _, disc := range result.Discrepancies {
		discrepantTotal = discrepantTotal.Add(disc.Transaction.Amount)
		switch disc.Side {
		case models.SideBank:
			summary.BankTransactions++
		case models.SideLedger:
			summary.LedgerTransactions++
		}
	}
	summary.DiscrepantTotal = discrepantTotal

	return Report{
		Summary:       summary,
		Matches:       result.Matches,
		Discrepancies: result.Discrepancies,
	}
}

// Generate renders a reconciliation report in the requested format
// ("json" or "csv").
func (g *Generator) Generate(result matcher.Result, format string) ([]byte, error) {
	report := g.Build(result)

	switch format {
	case "json":
		return g.generateJSON(report)
	case "csv":
		return g.generateCSV(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(report Report) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.log.WithError(err).Error("failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

// generateCSV renders a flat listing: one line per matched group followed
// by one line per discrepancy.
func (g *Generator) generateCSV(report Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"record_type", "group_id", "method", "side", "date", "description", "amount", "detail"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV report: %w", err)
	}

	for _, match := range report.Matches {
		detail := ""
		switch match.Method {
		case models.MethodExact:
			detail = fmt.Sprintf("similarity=%d", match.Similarity)
		case models.MethodValueDate:
			detail = fmt.Sprintf("day_offset=%d", match.DayOffset)
		}
		for _, item := range match.BankItems {
			if err := writeLine(w, "match", match, models.SideBank, item, detail); err != nil {
				return nil, err
			}
		}
		for _, item := range match.LedgerItems {
			if err := writeLine(w, "match", match, models.SideLedger, item, detail); err != nil {
				return nil, err
			}
		}
	}

	for _, disc := range report.Discrepancies {
		line := []string{
			"discrepancy",
			"",
			"",
			string(disc.Side),
			disc.Transaction.Date.Format("2006-01-02"),
			disc.Transaction.Description,
			disc.Transaction.Amount.StringFixed(2),
			fmt.Sprintf("suggestions=%d", len(disc.Suggestions)),
		}
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("failed to write CSV report: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLine(w *csv.Writer, recordType string, match models.MatchResult, side models.Side, item models.Transaction, detail string) error {
	line := []string{
		recordType,
		fmt.Sprintf("%d", match.GroupID),
		string(match.Method),
		string(side),
		item.Date.Format("2006-01-02"),
		item.Description,
		item.Amount.StringFixed(2),
		detail,
	}
	if err := w.Write(line); err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}
	return nil
}
