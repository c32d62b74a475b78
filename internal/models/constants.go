package models

import "strconv"

// Reporting defaults
const (
	DefaultReportYear = 2022
	MinMonth          = 1
	MaxMonth          = 12
)

// Currencies
const (
	CurrencyAOA Currency = "AOA"
	CurrencyUSD Currency = "USD"
)

// UnknownProduct replaces missing or empty product descriptions
const UnknownProduct = "Unknown"

// Mandatory and optional input columns
const (
	ColumnYear           = "year"
	ColumnMonth          = "month"
	ColumnFlow           = "flow"
	ColumnPartnerCountry = "partner_country"
	ColumnProductDesc    = "product_desc"
	ColumnValueAOA       = "value_aoa"
	ColumnValueLocal     = "value_local"
	ColumnHSCode         = "hs_code"
	ColumnHSSection      = "hs_section"
	ColumnWeightKg       = "weight_kg"
)

// File permissions
const (
	PermissionFile      = 0644
	PermissionDirectory = 0750
)

var monthNames = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// MonthName returns the Portuguese short name of a month, or the number itself
// when it lies outside 1-12.
func MonthName(month int) string {
	if month < MinMonth || month > MaxMonth {
		return strconv.Itoa(month)
	}
	return monthNames[month-1]
}

// ValidMonth reports whether month lies in 1-12.
func ValidMonth(month int) bool {
	return month >= MinMonth && month <= MaxMonth
}
