package tradeerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingColumnsError(t *testing.T) {
	err := &MissingColumnsError{Columns: []string{"flow", "value_aoa"}}
	assert.Equal(t, "invalid input: missing mandatory columns: flow, value_aoa", err.Error())
}

func TestNoReportYearError(t *testing.T) {
	err := &NoReportYearError{Year: 2022}
	assert.Equal(t, "invalid input: dataset contains no rows for report year 2022", err.Error())
}

func TestUnsupportedCurrencyError(t *testing.T) {
	err := &UnsupportedCurrencyError{Currency: "EUR", Supported: []string{"AOA", "USD"}}
	assert.Equal(t, `unsupported currency "EUR" (supported: AOA, USD)`, err.Error())
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "with field",
			err: &ParseError{
				Source: "rates",
				Field:  "rate",
				Value:  "abc",
				Err:    errors.New("invalid decimal"),
			},
			expected: "rates: failed to parse rate='abc': invalid decimal",
		},
		{
			name: "without field",
			err: &ParseError{
				Source: "input",
				Err:    errors.New("unexpected EOF"),
			},
			expected: "input: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	parseErr := &ParseError{Source: "input", Err: originalErr}

	assert.Equal(t, originalErr, parseErr.Unwrap())
	assert.True(t, errors.Is(parseErr, originalErr))
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"missing columns", &MissingColumnsError{Columns: []string{"year"}}, true},
		{"wrapped no year", fmt.Errorf("normalize: %w", &NoReportYearError{Year: 2022}), true},
		{"currency", &UnsupportedCurrencyError{Currency: "EUR"}, true},
		{"parse error", &ParseError{Source: "input", Err: errors.New("boom")}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}
