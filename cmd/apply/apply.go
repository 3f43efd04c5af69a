// Package apply handles the suggestion application command
package apply

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/recon-csv/cmd/common"
	"fjacquet/recon-csv/cmd/root"
	"fjacquet/recon-csv/internal/audit"
	"fjacquet/recon-csv/internal/ledger"
	"fjacquet/recon-csv/internal/logging"
)

var (
	discrepancyIdx int
	suggestionIdx  int
)

// Cmd represents the apply command
var Cmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a correction suggestion to the ledger",
	Long: `Re-run the reconciliation, pick one discrepancy by index and apply one
of its suggestions to the ledger file. The ledger is only rewritten when
the whole application succeeds.`,
	RunE: applyFunc,
}

func init() {
	Cmd.Flags().IntVarP(&discrepancyIdx, "discrepancy", "d", 0, "Index of the discrepancy to fix")
	Cmd.Flags().IntVarP(&suggestionIdx, "suggestion", "s", 0, "Index of the suggestion to apply")
}

func applyFunc(cmd *cobra.Command, args []string) error {
	log := root.Log
	log.Info("apply command called",
		logging.F("discrepancy", discrepancyIdx),
		logging.F("suggestion", suggestionIdx))

	result, err := common.Reconcile(
		root.SharedFlags.Bank, root.SharedFlags.Ledger, root.SharedFlags.Profile,
		root.Cfg, log)
	if err != nil {
		return err
	}

	if discrepancyIdx < 0 || discrepancyIdx >= len(result.Discrepancies) {
		return fmt.Errorf("discrepancy index %d out of range (%d discrepancies found)",
			discrepancyIdx, len(result.Discrepancies))
	}
	disc := result.Discrepancies[discrepancyIdx]

	if suggestionIdx < 0 || suggestionIdx >= len(disc.Suggestions) {
		return fmt.Errorf("suggestion index %d out of range (%d suggestions on this discrepancy)",
			suggestionIdx, len(disc.Suggestions))
	}
	sug := disc.Suggestions[suggestionIdx]

	ledgerProfile, err := root.Cfg.Profile("")
	if err != nil {
		return err
	}
	sink := audit.NewFileSink(root.Cfg.Audit.File, log)
	book, err := ledger.Open(root.SharedFlags.Ledger, ledgerProfile, log, sink)
	if err != nil {
		return err
	}

	if err := book.ApplySuggestion(disc, sug); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Applied %s suggestion to %q (%s)\n",
		sug.Kind, disc.Transaction.Description, disc.Side)
	return nil
}
