package currencyutils

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountStr string
		expected  decimal.Decimal
		hasError  bool
	}{
		{"Empty string", "", decimal.Zero, false},
		{"Simple decimal", "123.45", decimal.NewFromFloat(123.45), false},
		{"Negative decimal", "-123.45", decimal.NewFromFloat(-123.45), false},
		{"Integer", "100", decimal.NewFromInt(100), false},
		{"Comma decimal separator", "123,45", decimal.NewFromFloat(123.45), false},
		{"Comma thousand separator", "1,234", decimal.NewFromInt(1234), false},
		{"US format", "1,234,567.89", decimal.NewFromFloat(1234567.89), false},
		{"Portuguese format", "1.234.567,89", decimal.NewFromFloat(1234567.89), false},
		{"Dot thousands only", "1.234.567", decimal.NewFromInt(1234567), false},
		{"Space thousands", "1 234,56", decimal.NewFromFloat(1234.56), false},
		{"Kwanza prefix", "Kz 1.500,00", decimal.NewFromInt(1500), false},
		{"AOA suffix", "2500 AOA", decimal.NewFromInt(2500), false},
		{"Dollar symbol", "$123.45", decimal.NewFromFloat(123.45), false},
		{"Scientific notation", "1.8e12", decimal.NewFromFloat(1.8e12), false},
		{"Malformed decimal", "12a3", decimal.Zero, true},
		{"Non-numeric", "abc", decimal.Zero, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseAmount(tc.amountStr)

			if tc.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.True(t, tc.expected.Equal(result), "Expected %s but got %s", tc.expected.String(), result.String())
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"integer", "1000", 1000, true},
		{"decimal comma", "400,5", 400.5, true},
		{"blank", "   ", 0, false},
		{"garbage", "n/a", 0, false},
		{"negative", "-5", -5, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseFloat(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestParseWholeNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"3", 3, true},
		{" 12 ", 12, true},
		{"2022.0", 2022, true},
		{"2.5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseWholeNumber(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestStandardizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple decimal", "123.45", "123.45"},
		{"Comma decimal separator", "123,45", "123.45"},
		{"Apostrophe thousands", "1'234.56", "1234.56"},
		{"European format", "1.234,56", "1234.56"},
		{"Euro symbol", "€123.45", "123.45"},
		{"With spaces", "  123.45  ", "123.45"},
		{"Non breaking space", "1\u00a0234,5", "1234.5"},
		{"Multiple commas", "1,234,567", "1234567"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StandardizeAmount(tc.input))
		})
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"trillions", 1.8e12, "1.80T"},
		{"billions", 2_345_000_000, "2.35B"},
		{"millions", 1_234_567, "1.23M"},
		{"thousands", 1_500, "1.50K"},
		{"small", 999, "999"},
		{"negative millions", -2_500_000, "-2.50M"},
		{"zero", 0, "0"},
		{"nan", math.NaN(), "—"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatCompact(tc.value))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "$ 1.50K", FormatValue(1500, "USD"))
	assert.Equal(t, "kz 2.00M", FormatValue(2_000_000, "aoa"))
	assert.Equal(t, "EUR 10", FormatValue(10, "EUR"))
	assert.Equal(t, "—", FormatValue(math.NaN(), "USD"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "71.4%", FormatPercent(71.4285))
	assert.Equal(t, "—", FormatPercent(math.Inf(1)))
}
