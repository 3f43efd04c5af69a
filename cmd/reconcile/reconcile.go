// Package reconcile handles the reconciliation run command
package reconcile

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"fjacquet/recon-csv/cmd/common"
	"fjacquet/recon-csv/cmd/root"
	"fjacquet/recon-csv/internal/audit"
	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/report"
)

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Match a bank statement against the ledger",
	Long: `Match bank-statement transactions against ledger entries and write a
report of matched groups and discrepancies with correction suggestions.`,
	RunE: reconcileFunc,
}

func reconcileFunc(cmd *cobra.Command, args []string) error {
	log := root.Log
	log.Info("reconciliation command called",
		logging.F(logging.FieldFile, root.SharedFlags.Bank))

	result, err := common.Reconcile(
		root.SharedFlags.Bank, root.SharedFlags.Ledger, root.SharedFlags.Profile,
		root.Cfg, log)
	if err != nil {
		return err
	}

	format := root.SharedFlags.Format
	if format == "" {
		format = root.Cfg.Report.Format
	}

	data, err := report.NewGenerator(log).Generate(result, format)
	if err != nil {
		return err
	}

	if root.SharedFlags.Output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		if err := os.WriteFile(root.SharedFlags.Output, data, 0600); err != nil {
			return fmt.Errorf("error writing report: %w", err)
		}
		log.Info("report written", logging.F(logging.FieldFile, root.SharedFlags.Output))
	}

	sink := audit.NewFileSink(root.Cfg.Audit.File, log)
	if err := sink.Record(audit.Event{
		Action: audit.ActionReconcileRun,
		Detail: map[string]string{
			"bank_file":     root.SharedFlags.Bank,
			"ledger_file":   root.SharedFlags.Ledger,
			"matched":       strconv.Itoa(len(result.Matches)),
			"discrepancies": strconv.Itoa(len(result.Discrepancies)),
		},
	}); err != nil {
		log.WithError(err).Warn("failed to record audit event")
	}

	log.Info("reconciliation completed",
		logging.F(logging.FieldMatched, len(result.Matches)),
		logging.F(logging.FieldUnmatched, len(result.Discrepancies)))
	return nil
}
