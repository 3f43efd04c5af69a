package common_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/recon-csv/cmd/common"
	"fjacquet/recon-csv/internal/config"
	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Matching.DayTolerance = 3
	cfg.Matching.AmountEpsilon = 0.01
	cfg.Matching.TextThreshold = 80
	cfg.Banks = map[string]config.BankProfile{
		"generic": {DateColumn: "Date", DescriptionColumn: "Description", AmountColumn: "Amount"},
		"bna":     {DateColumn: "Data", DescriptionColumn: "Historico", AmountColumn: "Valor"},
	}
	return cfg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadInputsAndReconcile(t *testing.T) {
	dir := t.TempDir()
	bank := writeFile(t, dir, "bank.csv", `Date,Description,Amount
2025-02-01,Client payment Acme,500.00
2025-02-05,Unknown charge,42.00
`)
	ledger := writeFile(t, dir, "ledger.csv", `Date,Description,Amount
2025-02-01,Client payment Acme,500.00
`)

	result, err := common.Reconcile(bank, ledger, "", testConfig(), logging.Nop())
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, models.MethodExact, result.Matches[0].Method)
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, "Unknown charge", result.Discrepancies[0].Transaction.Description)
}

func TestLoadInputsBankProfile(t *testing.T) {
	dir := t.TempDir()
	bank := writeFile(t, dir, "bank.csv", `Data,Historico,Valor
01/02/2025,Pagamento fornecedor,"1250,00"
`)
	ledger := writeFile(t, dir, "ledger.csv", `Date,Description,Amount
2025-02-01,Pagamento fornecedor,1250.00
`)

	inputs, err := common.LoadInputs(bank, ledger, "bna", testConfig(), logging.Nop())
	require.NoError(t, err)
	require.Len(t, inputs.Bank, 1)
	assert.Equal(t, "Pagamento fornecedor", inputs.Bank[0].Description)
	assert.Equal(t, "1250", inputs.Bank[0].Amount.String())
}

func TestLoadInputsMissingFlags(t *testing.T) {
	cfg := testConfig()

	_, err := common.LoadInputs("", "ledger.csv", "", cfg, logging.Nop())
	assert.ErrorContains(t, err, "--bank")

	_, err = common.LoadInputs("bank.csv", "", "", cfg, logging.Nop())
	assert.ErrorContains(t, err, "--ledger")
}

func TestLoadInputsUnknownProfile(t *testing.T) {
	dir := t.TempDir()
	bank := writeFile(t, dir, "bank.csv", "Date,Description,Amount\n")
	ledger := writeFile(t, dir, "ledger.csv", "Date,Description,Amount\n")

	_, err := common.LoadInputs(bank, ledger, "no-such-bank", testConfig(), logging.Nop())
	assert.ErrorContains(t, err, "unknown bank profile")
}

func TestMatcherOptionsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Matching.DayTolerance = 5
	cfg.Matching.TextThreshold = 90

	opts := common.MatcherOptions(cfg)
	assert.Equal(t, 5, opts.DayTolerance)
	assert.Equal(t, 90, opts.TextThreshold)
	assert.Equal(t, "0.01", opts.AmountEpsilon.String())
}
