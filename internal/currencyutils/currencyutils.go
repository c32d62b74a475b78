// Package currencyutils provides amount parsing and display formatting for
// monetary values in the local and reference currencies.
package currencyutils

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyMarkers = regexp.MustCompile(`(?i)\b(AOA|USD|EUR|CHF|KZ)\b|[€$£¥]`)
	separatorNoise  = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "'", "", "’", "", "\t", "")
)

// ParseAmount parses a string representation of an amount into a decimal value.
// It handles formats like "1,234.56", "1.234,56", "1 234,56", "Kz 1.234.567"
// and scientific notation. Empty strings parse as zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// ParseFloat parses an amount like ParseAmount and converts it to float64. The
// second result is false when s is not a number; an empty s is not a number.
func ParseFloat(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, false
	}
	amount, err := ParseAmount(s)
	if err != nil {
		return 0, false
	}
	f, _ := amount.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseWholeNumber parses integral values written as "3", " 3 " or "2022.0".
func ParseWholeNumber(s string) (int, bool) {
	f, ok := ParseFloat(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// StandardizeAmount converts various amount formats to the plain form accepted
// by decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	s := currencyMarkers.ReplaceAllString(amountStr, "")
	s = separatorNoise.Replace(strings.TrimSpace(s))

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		// the right-most separator is the decimal one
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) != 3 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasDot:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	return s
}

var compactSteps = []struct {
	div    float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatCompact renders v with a magnitude suffix: 1234567 becomes "1.23M".
// Values below one thousand are rounded to an integer. NaN renders as "—".
func FormatCompact(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	abs := math.Abs(v)
	for _, step := range compactSteps {
		if abs >= step.div {
			return decimal.NewFromFloat(v).Div(decimal.NewFromFloat(step.div)).StringFixed(2) + step.suffix
		}
	}
	return decimal.NewFromFloat(v).StringFixed(0)
}

// FormatValue renders v compactly with the display symbol of currency.
func FormatValue(v float64, currency string) string {
	if math.IsNaN(v) {
		return "—"
	}
	switch strings.ToUpper(currency) {
	case "USD":
		return "$ " + FormatCompact(v)
	case "AOA":
		return "kz " + FormatCompact(v)
	case "":
		return FormatCompact(v)
	default:
		return strings.ToUpper(currency) + " " + FormatCompact(v)
	}
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "—"
	}
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}
