// Package statement imports bank-statement and ledger CSV files into the
// unified transaction model. Each bank exports its own column layout; a
// BankProfile names the columns that hold the date, description and amount
// so that every source ends up with the same three fields.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"fjacquet/recon-csv/internal/config"
	"fjacquet/recon-csv/internal/dateutils"
	"fjacquet/recon-csv/internal/logging"
	"fjacquet/recon-csv/internal/models"
)

// Delimiter is the CSV field separator used for reading and writing.
var Delimiter rune = ','

// SetDelimiter configures the CSV field separator for all subsequent
// reads and writes.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = Delimiter
		return r
	})
}

// Reader imports CSV statements through a bank profile.
type Reader struct {
	profile config.BankProfile
	log     logging.Logger
}

// NewReader creates a Reader for the given bank profile.
func NewReader(profile config.BankProfile, log logging.Logger) *Reader {
	if log == nil {
		log = logging.Nop()
	}
	return &Reader{profile: profile, log: log}
}

// ReadFile imports the transactions of a statement file.
func (r *Reader) ReadFile(filePath string) ([]models.Transaction, error) {
	r.log.Info("reading statement file", logging.F(logging.FieldFile, filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening statement file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			r.log.WithError(err).Warn("failed to close file")
		}
	}()

	transactions, err := r.Read(file)
	if err != nil {
		return nil, fmt.Errorf("error parsing statement file %s: %w", filePath, err)
	}

	r.log.Info("statement loaded", logging.F(logging.FieldCount, len(transactions)))
	return transactions, nil
}

// Read imports transactions from CSV data. Every row must provide the
// profile's date, description and amount columns; a row with an
// unparseable date is an error, because downstream matching relies on
// comparable dates.
func (r *Reader) Read(in io.Reader) ([]models.Transaction, error) {
	rows, err := gocsv.CSVToMaps(in)
	if err != nil {
		return nil, fmt.Errorf("error reading CSV data: %w", err)
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		dateStr, ok := row[r.profile.DateColumn]
		if !ok {
			return nil, fmt.Errorf("row %d: missing column %q", i+1, r.profile.DateColumn)
		}
		description, ok := row[r.profile.DescriptionColumn]
		if !ok {
			return nil, fmt.Errorf("row %d: missing column %q", i+1, r.profile.DescriptionColumn)
		}
		amountStr, ok := row[r.profile.AmountColumn]
		if !ok {
			return nil, fmt.Errorf("row %d: missing column %q", i+1, r.profile.AmountColumn)
		}

		date, err := dateutils.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		transactions = append(transactions, models.Transaction{
			Date:        date,
			Description: description,
			Amount:      models.ParseAmount(amountStr),
		})
	}

	return transactions, nil
}

// row is the unified CSV layout used when exporting transactions.
type row struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
}

// WriteCSV exports transactions with the unified columns, ISO dates and
// two-decimal amounts.
func WriteCSV(transactions []models.Transaction, csvFile string) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	rows := make([]row, len(transactions))
	for i, tx := range transactions {
		rows[i] = row{
			Date:        dateutils.ToISODate(tx.Date),
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
		}
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	return nil
}
