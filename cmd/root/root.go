// Package root contains the root command for the application
package root

import (
	"github.com/spf13/cobra"

	"fjacquet/recon-csv/internal/config"
	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/statement"
)

// CommonFlags represents the flags shared by the reconciliation commands.
type CommonFlags struct {
	Bank    string
	Ledger  string
	Output  string
	Profile string
	Format  string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.Nop()

	// Cfg holds the loaded application configuration
	Cfg *config.Config

	// SharedFlags are accessible to all subcommands
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "recon-csv",
		Short: "A CLI tool to reconcile bank statements against an accounting ledger.",
		Long: `recon-csv matches bank-statement transactions against ledger entries,
reports the matched groups and discrepancies, and can apply correction
suggestions back to the ledger.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to recon-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

			if cfg.CSV.Delimiter != "" {
				statement.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
			}
			return nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Bank, "bank", "b", "", "Bank statement CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Ledger, "ledger", "l", "", "Ledger CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (defaults to stdout)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Profile, "profile", "p", "", "Bank column profile (default \"generic\")")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Report format: json or csv (default from config)")
}
