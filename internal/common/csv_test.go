package common

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/tradeerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCSVRow represents a test CSV row for gocsv unmarshaling
type TestCSVRow struct {
	Name    string `csv:"Name"`
	Country string `csv:"Country"`
}

func withDelimiter(t *testing.T, delim rune) {
	t.Helper()
	previous := Delimiter
	SetDelimiter(delim)
	t.Cleanup(func() { SetDelimiter(previous) })
}

func TestReadCSVFile(t *testing.T) {
	tempDir := t.TempDir()
	testCSVPath := filepath.Join(tempDir, "test.csv")
	err := os.WriteFile(testCSVPath, []byte("Name,Country\nJohn Doe,USA\n,\nJane Smith,Canada\n"), 0600)
	require.NoError(t, err)

	logger := logging.NewMockLogger()
	rows, err := ReadCSVFile[TestCSVRow](testCSVPath, logger)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "John Doe", rows[0].Name)
	assert.Equal(t, "", rows[1].Name)
	assert.Equal(t, "Canada", rows[2].Country)
	assert.True(t, logger.HasEntry("INFO", "Successfully read CSV data"))

	_, err = ReadCSVFile[TestCSVRow]("non-existent-file.csv", logger)
	assert.Error(t, err)
}

func TestReadRawTable(t *testing.T) {
	input := "\ufeffyear,month,flow,partner_country,product_desc,value_aoa\n" +
		"2022,1,Export,China,Petróleo bruto,1000\n" +
		"2022,2,Import,\"Congo, RD\",Cimentos\n"

	table, err := ReadRawTable(strings.NewReader(input), "trade.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "month", "flow", "partner_country", "product_desc", "value_aoa"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "China", table.Rows[0]["partner_country"])
	assert.Equal(t, "Congo, RD", table.Rows[1]["partner_country"])
	assert.Equal(t, "", table.Rows[1]["value_aoa"])
}

func TestReadRawTable_Delimiter(t *testing.T) {
	withDelimiter(t, ';')

	table, err := ReadRawTable(strings.NewReader("year;month\n2022;3\n"), "trade.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "3", table.Rows[0]["month"])
}

func TestReadRawTable_Empty(t *testing.T) {
	_, err := ReadRawTable(strings.NewReader(""), "empty.csv")
	require.Error(t, err)

	var parseErr *tradeerror.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "empty.csv", parseErr.Source)
}

func TestReadRawTable_HeaderOnly(t *testing.T) {
	table, err := ReadRawTable(strings.NewReader("year,month\n"), "trade.csv")
	require.NoError(t, err)
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
}

func TestReadRateTable(t *testing.T) {
	input := "month,rate\n1,450\n2,0\n3,-1\n13,500\nx,500\n4,\"460,5\"\n5.0,470\n"

	logger := logging.NewMockLogger()
	rates, err := ReadRateTable(strings.NewReader(input), "rates.csv", logger)
	require.NoError(t, err)

	assert.Equal(t, models.RateTable{1: 450, 4: 460.5, 5: 470}, rates)
	assert.True(t, logger.HasEntry("WARN", "Skipped unusable exchange-rate lines"))
	dropped, ok := logger.FieldValue("Skipped unusable exchange-rate lines", logging.FieldDropped)
	require.True(t, ok)
	assert.Equal(t, 4, dropped)
}

func TestReadRateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(path, []byte("month,rate\n1,450\n2,455\n"), 0600))

	logger := logging.NewMockLogger()
	rates, err := ReadRateFile(path, logger)
	require.NoError(t, err)
	assert.Equal(t, models.RateTable{1: 450, 2: 455}, rates)
	assert.False(t, logger.HasEntry("WARN", "Skipped unusable exchange-rate lines"))

	_, err = ReadRateFile(filepath.Join(t.TempDir(), "missing.csv"), logger)
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1234.50", FormatValue(1234.5))
	assert.Equal(t, "0.00", FormatValue(0))
	assert.Equal(t, "", FormatValue(math.NaN()))
}

func TestWriteView(t *testing.T) {
	view := models.AggregateView{
		Name: models.ViewByPartnerFlow,
		Keys: []string{"partner", "country_code", "flow"},
		Rows: []models.AggregateRow{
			{Partner: "China", CountryCode: "CHN", Flow: models.FlowExport, Value: 1500},
			{Partner: "Atlantis", Flow: models.FlowImport, Value: 25.5, Unconvertible: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteView(&buf, view))

	expected := "partner,country_code,flow,value,unconvertible\n" +
		"China,CHN,Export,1500.00,0\n" +
		"Atlantis,,Import,25.50,1\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteMonthlyBalance(t *testing.T) {
	withDelimiter(t, ';')

	var buf bytes.Buffer
	balance := []models.MonthBalance{{Month: 1, Name: "Jan", Export: 10, Import: 4, Balance: 6}}
	require.NoError(t, WriteMonthlyBalance(&buf, balance))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "month;name;export;import;balance", lines[0])
	assert.Equal(t, "1;Jan;10;4;6", lines[1])

	assert.Error(t, WriteMonthlyBalance(&buf, nil))
}

func TestWriteRawTableFile_RoundTrip(t *testing.T) {
	table := models.RawTable{
		Columns: []string{"year", "month", "partner_country"},
		Rows: []map[string]string{
			{"year": "2022", "month": "1", "partner_country": "Côte d'Ivoire"},
			{"year": "2022", "month": "2", "partner_country": "Congo, RD"},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "demo.csv")
	logger := logging.NewMockLogger()
	require.NoError(t, WriteRawTableFile(table, path, logger))

	read, err := ReadRawTableFile(path, logger)
	require.NoError(t, err)
	assert.Equal(t, table, read)
}

func TestWriteViewsToDir(t *testing.T) {
	dir := t.TempDir()
	views := models.Views{
		ByMonthFlow:   models.AggregateView{Name: models.ViewByMonthFlow, Keys: []string{"month", "flow"}},
		ByPartnerFlow: models.AggregateView{Name: models.ViewByPartnerFlow, Keys: []string{"partner", "country_code", "flow"}},
		ByProductFlow: models.AggregateView{Name: models.ViewByProductFlow, Keys: []string{"product", "flow"}},
		ByRegionFlow:  models.AggregateView{Name: models.ViewByRegionFlow, Keys: []string{"region", "flow"}},
		ByMonthRegion: models.AggregateView{Name: models.ViewByMonthRegion, Keys: []string{"month", "region"}},
	}
	balance := []models.MonthBalance{{Month: 1, Name: "Jan"}}

	require.NoError(t, WriteViewsToDir(dir, views, balance, logging.NewDiscardLogger()))

	for _, name := range []string{"by_month_flow", "by_partner_flow", "by_product_flow", "by_region_flow", "by_month_region", "monthly_balance"} {
		_, err := os.Stat(filepath.Join(dir, name+".csv"))
		assert.NoError(t, err, name)
	}
	content, err := os.ReadFile(filepath.Join(dir, "by_region_flow.csv"))
	require.NoError(t, err)
	assert.Equal(t, "region,flow,value,unconvertible\n", string(content))
}
