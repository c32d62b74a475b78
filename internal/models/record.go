package models

import (
	"math"
	"strings"
)

// RawTable is loosely-typed tabular input: the header as read and one map per
// row keyed by the header cell.
type RawTable struct {
	Columns []string
	Rows    []map[string]string
}

// TradeRecord is one validated and coerced row of trade input.
type TradeRecord struct {
	Year              int      `json:"year" yaml:"year" csv:"year"`
	Month             int      `json:"month" yaml:"month" csv:"month"`
	Flow              Flow     `json:"flow" yaml:"flow" csv:"flow"`
	PartnerCountryRaw string   `json:"partner_country" yaml:"partner_country" csv:"partner_country"`
	ProductDesc       string   `json:"product_desc" yaml:"product_desc" csv:"product_desc"`
	ValueLocal        float64  `json:"value_local" yaml:"value_local" csv:"value_local"`
	HSCode            string   `json:"hs_code,omitempty" yaml:"hs_code,omitempty" csv:"hs_code"`
	HSSection         string   `json:"hs_section,omitempty" yaml:"hs_section,omitempty" csv:"hs_section"`
	WeightKg          *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty" csv:"-"`
}

// CountryCode is an ISO 3166-1 alpha-3 code. The zero value means the partner
// could not be resolved.
type CountryCode string

// NoCountry marks an unresolved partner.
const NoCountry CountryCode = ""

// String returns the code, or an empty string when absent.
func (c CountryCode) String() string {
	return string(c)
}

// ResolvedRecord is a TradeRecord with partner resolution attached.
type ResolvedRecord struct {
	TradeRecord
	PartnerCountryClean string      `json:"partner_country_clean" yaml:"partner_country_clean"`
	CountryCode         CountryCode `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Region              Region      `json:"region" yaml:"region"`
}

// HasCode reports whether the partner resolved to a country code.
func (r ResolvedRecord) HasCode() bool {
	return r.CountryCode != NoCountry
}

// ConvertedRecord is a ResolvedRecord valued in the selected currency.
// Value is NaN when no usable exchange rate exists for the record's month;
// AppliedRate is NaN when no conversion took place.
type ConvertedRecord struct {
	ResolvedRecord
	AppliedRate float64 `json:"-" yaml:"-"`
	Value       float64 `json:"-" yaml:"-"`
}

// Convertible reports whether Value holds a real amount.
func (r ConvertedRecord) Convertible() bool {
	return !math.IsNaN(r.Value)
}

// NormalizeColumn canonicalizes a header cell for case-insensitive matching.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
