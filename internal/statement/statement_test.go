package statement

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/recon-csv/internal/config"
	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/models"
)

var genericProfile = config.BankProfile{
	DateColumn:        "Date",
	DescriptionColumn: "Description",
	AmountColumn:      "Amount",
}

func TestReadGenericProfile(t *testing.T) {
	data := `Date,Description,Amount
2024-01-05,Payment ABC,1000.00
2024-01-06,Refund XYZ,-50.25
`
	reader := NewReader(genericProfile, logging.Nop())
	transactions, err := reader.Read(strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, transactions, 2)

	first := transactions[0]
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "Payment ABC", first.Description)
	assert.Equal(t, "1000", first.Amount.String())

	assert.Equal(t, "-50.25", transactions[1].Amount.String())
}

func TestReadBankSpecificProfile(t *testing.T) {
	// A bank exporting European dates, localized headers and comma
	// decimal separators (quoted, as real exports do).
	data := `Data,Historico,Valor
05.01.2024,Pagamento fornecedor,"1000,50"
`
	profile := config.BankProfile{
		DateColumn:        "Data",
		DescriptionColumn: "Historico",
		AmountColumn:      "Valor",
	}

	reader := NewReader(profile, logging.Nop())
	transactions, err := reader.Read(strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), transactions[0].Date)
	assert.Equal(t, "1000.5", transactions[0].Amount.String())
}

func TestReadMissingColumn(t *testing.T) {
	data := `Date,Description
2024-01-05,Payment ABC
`
	reader := NewReader(genericProfile, logging.Nop())
	_, err := reader.Read(strings.NewReader(data))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "Amount"`)
}

func TestReadBadDate(t *testing.T) {
	data := `Date,Description,Amount
not-a-date,Payment ABC,100.00
`
	reader := NewReader(genericProfile, logging.Nop())
	_, err := reader.Read(strings.NewReader(data))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestReadEmptyStatement(t *testing.T) {
	data := "Date,Description,Amount\n"
	reader := NewReader(genericProfile, logging.Nop())
	transactions, err := reader.Read(strings.NewReader(data))

	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestReadFileNotFound(t *testing.T) {
	reader := NewReader(genericProfile, logging.Nop())
	_, err := reader.ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	transactions := []models.Transaction{
		{
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Description: "Payment ABC",
			Amount:      models.ParseAmount("1000.00"),
		},
		{
			Date:        time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
			Description: "Refund XYZ",
			Amount:      models.ParseAmount("-50.25"),
		},
	}

	out := filepath.Join(t.TempDir(), "out", "transactions.csv")
	require.NoError(t, WriteCSV(transactions, out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Date,Description,Amount")
	assert.Contains(t, string(raw), "2024-01-05,Payment ABC,1000.00")

	reader := NewReader(genericProfile, logging.Nop())
	file, err := os.Open(out)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	parsed, err := reader.Read(file)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.True(t, parsed[0].Amount.Equal(transactions[0].Amount))
	assert.True(t, parsed[1].Date.Equal(transactions[1].Date))
}

func TestWriteCSVNil(t *testing.T) {
	assert.Error(t, WriteCSV(nil, filepath.Join(t.TempDir(), "x.csv")))
}
