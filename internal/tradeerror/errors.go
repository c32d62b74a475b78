// Package tradeerror defines the diagnostics produced by the trade pipeline.
// Fatal errors stop processing; everything else is reported as a warning.
package tradeerror

import (
	"errors"
	"fmt"
	"strings"
)

// MissingColumnsError is returned when mandatory input columns are absent from
// the input schema.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("invalid input: missing mandatory columns: %s", strings.Join(e.Columns, ", "))
}

// NoReportYearError is returned when no input row belongs to the report year.
type NoReportYearError struct {
	Year int
}

func (e *NoReportYearError) Error() string {
	return fmt.Sprintf("invalid input: dataset contains no rows for report year %d", e.Year)
}

// UnsupportedCurrencyError is returned when a conversion targets a currency
// that is neither the local nor the reference currency.
type UnsupportedCurrencyError struct {
	Currency  string
	Supported []string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency %q (supported: %s)", e.Currency, strings.Join(e.Supported, ", "))
}

// ParseError represents a failure to read one of the pipeline inputs.
type ParseError struct {
	Source string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse %s='%s': %v", e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err halts the pipeline, i.e. whether it is one of the
// precondition violations above (possibly wrapped).
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var missing *MissingColumnsError
	var noYear *NoReportYearError
	var currency *UnsupportedCurrencyError
	return errors.As(err, &missing) || errors.As(err, &noYear) || errors.As(err, &currency)
}
