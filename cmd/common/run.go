// Package common holds the processing shared by the reconciliation
// subcommands: loading both CSV sides and running the matcher.
package common

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/recon-csv/internal/config"
	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/matcher"
	"fjacquet/recon-csv/internal/models"
	"fjacquet/recon-csv/internal/statement"
)

// Inputs are the two loaded transaction sets of a run.
type Inputs struct {
	Bank   []models.Transaction
	Ledger []models.Transaction
}

// LoadInputs reads the bank statement with the named column profile and
// the ledger with the generic profile.
func LoadInputs(bankFile, ledgerFile, profileName string, cfg *config.Config, log logging.Logger) (Inputs, error) {
	if bankFile == "" {
		return Inputs{}, fmt.Errorf("no bank statement file given (use --bank)")
	}
	if ledgerFile == "" {
		return Inputs{}, fmt.Errorf("no ledger file given (use --ledger)")
	}

	bankProfile, err := cfg.Profile(profileName)
	if err != nil {
		return Inputs{}, err
	}
	ledgerProfile, err := cfg.Profile("")
	if err != nil {
		return Inputs{}, err
	}

	bank, err := statement.NewReader(bankProfile, log).ReadFile(bankFile)
	if err != nil {
		return Inputs{}, fmt.Errorf("error reading bank statement: %w", err)
	}
	ledger, err := statement.NewReader(ledgerProfile, log).ReadFile(ledgerFile)
	if err != nil {
		return Inputs{}, fmt.Errorf("error reading ledger: %w", err)
	}

	log.Info("input files loaded",
		logging.F(logging.FieldBankCount, len(bank)),
		logging.F(logging.FieldLedgerCount, len(ledger)))
	return Inputs{Bank: bank, Ledger: ledger}, nil
}

// MatcherOptions builds matcher options from the configured tolerances.
func MatcherOptions(cfg *config.Config) matcher.Options {
	return matcher.Options{
		DayTolerance:  cfg.Matching.DayTolerance,
		AmountEpsilon: decimal.NewFromFloat(cfg.Matching.AmountEpsilon),
		TextThreshold: cfg.Matching.TextThreshold,
	}
}

// Reconcile loads both sides and runs the matching passes.
func Reconcile(bankFile, ledgerFile, profileName string, cfg *config.Config, log logging.Logger) (matcher.Result, error) {
	inputs, err := LoadInputs(bankFile, ledgerFile, profileName, cfg, log)
	if err != nil {
		return matcher.Result{}, err
	}
	return matcher.New(MatcherOptions(cfg), log).Reconcile(inputs.Bank, inputs.Ledger), nil
}
