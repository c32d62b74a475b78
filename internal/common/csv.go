// Package common provides the CSV boundary shared by the commands: reading
// raw trade tables and exchange-rate tables, and writing aggregate views.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"jovanny3/tradeflow/internal/currencyutils"
	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/tradeerror"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Global CSV delimiter - can be configured via centralized config
var Delimiter rune = ','

// SetDelimiter allows setting the delimiter for CSV input and output
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// rateRow is one line of an exchange-rate file
type rateRow struct {
	Month string `csv:"month"`
	Rate  string `csv:"rate"`
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

func newWriter(w io.Writer) *gocsv.SafeCSVWriter {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter
	return gocsv.NewSafeCSVWriter(csvWriter)
}

func closeFile(file *os.File, logger logging.Logger) {
	if err := file.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close file")
	}
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	logger.Info("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath) // #nosec G304 -- path comes from the command line
	if err != nil {
		logger.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer closeFile(file, logger)

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(newReader(file), &rows); err != nil {
		logger.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Info("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// ReadRawTable reads a delimited table with a header line. Every row is keyed
// by the header cells as written; short rows leave the missing cells empty.
func ReadRawTable(r io.Reader, source string) (models.RawTable, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.RawTable{}, &tradeerror.ParseError{Source: source, Err: errors.New("empty CSV input")}
	}
	if err != nil {
		return models.RawTable{}, &tradeerror.ParseError{Source: source, Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := models.RawTable{Columns: header, Rows: []map[string]string{}}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.RawTable{}, &tradeerror.ParseError{Source: source, Err: err}
		}
		row := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadRawTableFile reads a raw trade table from disk.
func ReadRawTableFile(filePath string, logger logging.Logger) (models.RawTable, error) {
	logger.Info("Reading trade table", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath) // #nosec G304 -- path comes from the command line
	if err != nil {
		logger.WithError(err).Error("Failed to open CSV file")
		return models.RawTable{}, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer closeFile(file, logger)

	table, err := ReadRawTable(file, filePath)
	if err != nil {
		logger.WithError(err).Error("Failed to parse trade table")
		return models.RawTable{}, err
	}

	logger.Info("Successfully read trade table",
		logging.Field{Key: logging.FieldCount, Value: len(table.Rows)},
		logging.Field{Key: "columns", Value: len(table.Columns)})
	return table, nil
}

// ParseRates turns rate lines into a RateTable. Lines with a month outside
// 1-12 or a rate that is not a positive number are skipped and counted.
func ParseRates(rows []rateRow) (models.RateTable, int) {
	rates := make(models.RateTable, len(rows))
	skipped := 0
	for _, row := range rows {
		month, ok := currencyutils.ParseWholeNumber(row.Month)
		if !ok || !models.ValidMonth(month) {
			skipped++
			continue
		}
		rate, ok := currencyutils.ParseFloat(row.Rate)
		if !ok || rate <= 0 {
			skipped++
			continue
		}
		rates[month] = rate
	}
	return rates, skipped
}

// ReadRateTable reads a month,rate table.
func ReadRateTable(r io.Reader, source string, logger logging.Logger) (models.RateTable, error) {
	var rows []rateRow
	if err := gocsv.UnmarshalCSV(newReader(r), &rows); err != nil {
		return nil, &tradeerror.ParseError{Source: source, Err: err}
	}
	rates, skipped := ParseRates(rows)
	if skipped > 0 {
		logger.Warn("Skipped unusable exchange-rate lines",
			logging.Field{Key: logging.FieldFile, Value: source},
			logging.Field{Key: logging.FieldDropped, Value: skipped})
	}
	return rates, nil
}

// ReadRateFile reads a month,rate table from disk.
func ReadRateFile(filePath string, logger logging.Logger) (models.RateTable, error) {
	rows, err := ReadCSVFile[rateRow](filePath, logger)
	if err != nil {
		return nil, err
	}
	rates, skipped := ParseRates(rows)
	if skipped > 0 {
		logger.Warn("Skipped unusable exchange-rate lines",
			logging.Field{Key: logging.FieldFile, Value: filePath},
			logging.Field{Key: logging.FieldDropped, Value: skipped})
	}
	return rates, nil
}

// FormatValue renders an amount with two decimals; non-finite values are
// written as empty cells.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// WriteRawTable writes a raw table in its column order.
func WriteRawTable(w io.Writer, table models.RawTable) error {
	writer := newWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, column := range table.Columns {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func rowCell(row models.AggregateRow, key string) string {
	switch key {
	case "month":
		return strconv.Itoa(row.Month)
	case "flow":
		return row.Flow.String()
	case "partner":
		return row.Partner
	case "country_code":
		return row.CountryCode.String()
	case "product":
		return row.Product
	case "region":
		return row.Region.String()
	}
	return ""
}

// WriteView writes an aggregate view with only its own key columns followed
// by value and unconvertible.
func WriteView(w io.Writer, view models.AggregateView) error {
	writer := newWriter(w)
	header := append(append([]string{}, view.Keys...), "value", "unconvertible")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, row := range view.Rows {
		record := make([]string, 0, len(header))
		for _, key := range view.Keys {
			record = append(record, rowCell(row, key))
		}
		record = append(record, FormatValue(row.Value), strconv.Itoa(row.Unconvertible))
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMonthlyBalance writes the twelve-month balance series.
func WriteMonthlyBalance(w io.Writer, balance []models.MonthBalance) error {
	if balance == nil {
		return fmt.Errorf("cannot write nil balance to CSV")
	}
	if err := gocsv.MarshalCSV(balance, newWriter(w)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

func createFile(csvFile string, logger logging.Logger) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return nil, fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(csvFile) // #nosec G304 -- path comes from the command line
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return nil, fmt.Errorf("error creating CSV file: %w", err)
	}
	return file, nil
}

// WriteRawTableFile writes a raw table to csvFile, creating parent directories.
func WriteRawTableFile(table models.RawTable, csvFile string, logger logging.Logger) error {
	file, err := createFile(csvFile, logger)
	if err != nil {
		return err
	}
	defer closeFile(file, logger)

	if err := WriteRawTable(file, table); err != nil {
		logger.WithError(err).Error("Failed to write trade table")
		return err
	}
	logger.Info("Successfully wrote trade table",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(table.Rows)})
	return nil
}

// WriteViewsToDir writes every view as <name>.csv and the balance series as
// monthly_balance.csv under dir.
func WriteViewsToDir(dir string, views models.Views, balance []models.MonthBalance, logger logging.Logger) error {
	for _, view := range views.All() {
		path := filepath.Join(dir, view.Name+".csv")
		file, err := createFile(path, logger)
		if err != nil {
			return err
		}
		writeErr := WriteView(file, view)
		closeFile(file, logger)
		if writeErr != nil {
			return fmt.Errorf("error writing view %s: %w", view.Name, writeErr)
		}
		logger.Debug("Wrote aggregate view",
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldCount, Value: view.Len()})
	}

	path := filepath.Join(dir, "monthly_balance.csv")
	file, err := createFile(path, logger)
	if err != nil {
		return err
	}
	defer closeFile(file, logger)
	if err := WriteMonthlyBalance(file, balance); err != nil {
		return err
	}

	logger.Info("Successfully wrote aggregate views",
		logging.Field{Key: "directory", Value: dir},
		logging.Field{Key: logging.FieldCount, Value: len(views.All()) + 1})
	return nil
}
