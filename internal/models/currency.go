package models

import "strings"

// Currency is an ISO 4217 currency code.
type Currency string

// ParseCurrency normalizes a currency code (trimmed, upper case).
func ParseCurrency(s string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(s)))
}

// String returns the currency code.
func (c Currency) String() string {
	return string(c)
}
