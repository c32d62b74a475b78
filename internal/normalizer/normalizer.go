// Package normalizer validates raw tabular input and coerces it into typed
// trade records for a single report year.
package normalizer

import (
	"fmt"
	"strings"

	"jovanny3/tradeflow/internal/currencyutils"
	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/tradeerror"
)

// Normalizer turns a RawTable into TradeRecords.
type Normalizer struct {
	reportYear  int
	valueColumn string
	logger      logging.Logger
}

// New creates a normalizer. A zero reportYear selects
// models.DefaultReportYear and an empty valueColumn selects value_aoa.
func New(reportYear int, valueColumn string, logger logging.Logger) *Normalizer {
	if reportYear == 0 {
		reportYear = models.DefaultReportYear
	}
	valueColumn = models.NormalizeColumn(valueColumn)
	if valueColumn == "" {
		valueColumn = models.ColumnValueAOA
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Normalizer{reportYear: reportYear, valueColumn: valueColumn, logger: logger}
}

// ReportYear returns the year records must belong to.
func (n *Normalizer) ReportYear() int {
	return n.reportYear
}

// schema maps canonical column names to the header cells used as row keys.
type schema map[string]string

func (s schema) get(row map[string]string, column string) string {
	key, ok := s[column]
	if !ok {
		return ""
	}
	return row[key]
}

func (n *Normalizer) valueAliases() []string {
	aliases := []string{n.valueColumn}
	for _, alias := range []string{models.ColumnValueAOA, models.ColumnValueLocal} {
		if alias != n.valueColumn {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// resolveSchema matches header cells case-insensitively and reports every
// missing mandatory column.
func (n *Normalizer) resolveSchema(columns []string) (schema, error) {
	s := make(schema, len(columns))
	for _, c := range columns {
		key := models.NormalizeColumn(c)
		if _, exists := s[key]; !exists {
			s[key] = c
		}
	}

	var missing []string
	for _, col := range []string{models.ColumnYear, models.ColumnMonth, models.ColumnFlow, models.ColumnPartnerCountry, models.ColumnProductDesc} {
		if _, ok := s[col]; !ok {
			missing = append(missing, col)
		}
	}

	valueFound := false
	for _, alias := range n.valueAliases() {
		if key, ok := s[alias]; ok {
			s[models.ColumnValueLocal] = key
			valueFound = true
			break
		}
	}
	if !valueFound {
		missing = append(missing, n.valueColumn)
	}

	if len(missing) > 0 {
		return nil, &tradeerror.MissingColumnsError{Columns: missing}
	}
	return s, nil
}

// Normalize validates the schema, coerces every row and keeps the rows of the
// report year with a valid month and an Export or Import flow. It returns the
// records and the non-fatal warnings. Missing mandatory columns and the
// absence of any report-year row are fatal.
func (n *Normalizer) Normalize(table models.RawTable) ([]models.TradeRecord, []string, error) {
	s, err := n.resolveSchema(table.Columns)
	if err != nil {
		return nil, nil, err
	}

	var (
		records       = make([]models.TradeRecord, 0, len(table.Rows))
		offYear       int
		invalidMonth  int
		unknownFlow   int
		coercedValues int
		matchedYear   bool
	)

	for _, row := range table.Rows {
		year, ok := currencyutils.ParseWholeNumber(s.get(row, models.ColumnYear))
		if !ok || year != n.reportYear {
			offYear++
			continue
		}
		matchedYear = true

		month, ok := currencyutils.ParseWholeNumber(s.get(row, models.ColumnMonth))
		if !ok || !models.ValidMonth(month) {
			invalidMonth++
			continue
		}

		flow := models.ParseFlow(s.get(row, models.ColumnFlow))
		if !flow.IsValid() {
			unknownFlow++
			continue
		}

		value, ok := currencyutils.ParseFloat(s.get(row, models.ColumnValueLocal))
		if !ok || value < 0 {
			coercedValues++
			value = 0
		}

		product := strings.TrimSpace(s.get(row, models.ColumnProductDesc))
		if product == "" {
			product = models.UnknownProduct
		}

		rec := models.TradeRecord{
			Year:              year,
			Month:             month,
			Flow:              flow,
			PartnerCountryRaw: s.get(row, models.ColumnPartnerCountry),
			ProductDesc:       product,
			ValueLocal:        value,
			HSCode:            strings.TrimSpace(s.get(row, models.ColumnHSCode)),
			HSSection:         strings.TrimSpace(s.get(row, models.ColumnHSSection)),
		}
		if w, ok := currencyutils.ParseFloat(s.get(row, models.ColumnWeightKg)); ok {
			rec.WeightKg = &w
		}
		records = append(records, rec)
	}

	if !matchedYear {
		return nil, nil, &tradeerror.NoReportYearError{Year: n.reportYear}
	}

	var warnings []string
	if offYear > 0 {
		warnings = append(warnings, fmt.Sprintf("dropped %d rows outside report year %d", offYear, n.reportYear))
	}
	if unknownFlow > 0 {
		warnings = append(warnings, fmt.Sprintf("dropped %d rows with a flow other than %s or %s", unknownFlow, models.FlowExport, models.FlowImport))
	}

	n.logger.Debug("Normalized trade records",
		logging.Field{Key: logging.FieldStage, Value: "normalize"},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldDropped, Value: offYear + invalidMonth + unknownFlow},
		logging.Field{Key: "invalid_month", Value: invalidMonth},
		logging.Field{Key: "unknown_flow", Value: unknownFlow},
		logging.Field{Key: "coerced_values", Value: coercedValues})

	return records, warnings, nil
}
