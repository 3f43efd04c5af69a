package reconcile_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/recon-csv/cmd/reconcile"
	"fjacquet/recon-csv/cmd/root"
	"fjacquet/recon-csv/internal/audit"
	"fjacquet/recon-csv/internal/config"
	"fjacquet/recon-csv/internal/logging"
)

func TestReconcileCommand_Metadata(t *testing.T) {
	assert.Equal(t, "reconcile", reconcile.Cmd.Use)
	assert.Contains(t, reconcile.Cmd.Short, "Match a bank statement")
	assert.Contains(t, reconcile.Cmd.Long, "discrepancies")
	assert.NotNil(t, reconcile.Cmd.RunE)
}

func setupRun(t *testing.T, bankCSV, ledgerCSV string) (dir string, restore func()) {
	t.Helper()
	dir = t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte(bankCSV), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger.csv"), []byte(ledgerCSV), 0600))

	origFlags := root.SharedFlags
	origCfg := root.Cfg
	origLog := root.Log

	cfg := &config.Config{}
	cfg.Matching.DayTolerance = 3
	cfg.Matching.AmountEpsilon = 0.01
	cfg.Matching.TextThreshold = 80
	cfg.Report.Format = "json"
	cfg.Audit.File = filepath.Join(dir, "audit.yaml")
	cfg.Banks = map[string]config.BankProfile{
		"generic": {DateColumn: "Date", DescriptionColumn: "Description", AmountColumn: "Amount"},
	}

	root.Cfg = cfg
	root.Log = logging.Nop()
	root.SharedFlags = root.CommonFlags{
		Bank:   filepath.Join(dir, "bank.csv"),
		Ledger: filepath.Join(dir, "ledger.csv"),
	}

	return dir, func() {
		root.SharedFlags = origFlags
		root.Cfg = origCfg
		root.Log = origLog
	}
}

func runCommand(t *testing.T, c *cobra.Command) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	testCmd := &cobra.Command{}
	testCmd.SetOut(out)
	err := c.RunE(testCmd, nil)
	return out.String(), err
}

const (
	bankSample = `Date,Description,Amount
2025-03-01,Client payment Acme,500.00
2025-03-04,Unexplained charge,42.00
`
	ledgerSample = `Date,Description,Amount
2025-03-01,Client payment Acme,500.00
`
)

func TestReconcileCommand_RunWritesJSONToStdout(t *testing.T) {
	dir, restore := setupRun(t, bankSample, ledgerSample)
	defer restore()

	out, err := runCommand(t, reconcile.Cmd)
	require.NoError(t, err)

	var report struct {
		Summary struct {
			MatchedGroups int `json:"matched_groups"`
			Discrepancies int `json:"discrepancies"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Summary.MatchedGroups)
	assert.Equal(t, 1, report.Summary.Discrepancies)

	// The run is audited.
	events, err := audit.NewFileSink(filepath.Join(dir, "audit.yaml"), nil).Events()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionReconcileRun, events[0].Action)
	assert.Equal(t, "1", events[0].Detail["matched"])
}

func TestReconcileCommand_RunWritesReportFile(t *testing.T) {
	dir, restore := setupRun(t, bankSample, ledgerSample)
	defer restore()

	root.SharedFlags.Output = filepath.Join(dir, "report.csv")
	root.SharedFlags.Format = "csv"

	_, err := runCommand(t, reconcile.Cmd)
	require.NoError(t, err)

	data, err := os.ReadFile(root.SharedFlags.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "record_type")
	assert.Contains(t, string(data), "Unexplained charge")
}

func TestReconcileCommand_MissingInput(t *testing.T) {
	_, restore := setupRun(t, bankSample, ledgerSample)
	defer restore()

	root.SharedFlags.Bank = ""

	_, err := runCommand(t, reconcile.Cmd)
	assert.ErrorContains(t, err, "--bank")
}

func TestReconcileCommand_UnsupportedFormat(t *testing.T) {
	_, restore := setupRun(t, bankSample, ledgerSample)
	defer restore()

	root.SharedFlags.Format = "xml"

	_, err := runCommand(t, reconcile.Cmd)
	assert.Error(t, err)
}
