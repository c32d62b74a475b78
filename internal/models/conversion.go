package models

// Conversion is the outcome of valuing a record set in one currency.
type Conversion struct {
	Records  []ConvertedRecord `json:"-" yaml:"-"`
	Currency Currency          `json:"currency" yaml:"currency"`
	// Identity is true when the target is the local currency.
	Identity bool `json:"identity" yaml:"identity"`
	// MeanRate is the fallback rate for months without an explicit one.
	MeanRate float64 `json:"mean_rate" yaml:"mean_rate"`
	// AllMonthsExplicit is true when every month 1-12 carries its own rate,
	// and always for identity conversions.
	AllMonthsExplicit bool `json:"all_months_explicit" yaml:"all_months_explicit"`
	// FallbackMonths lists the months present in the records that were
	// converted with the mean rate.
	FallbackMonths []int `json:"fallback_months,omitempty" yaml:"fallback_months,omitempty"`
	// Unconvertible counts records whose value is NaN.
	Unconvertible int `json:"unconvertible" yaml:"unconvertible"`
}
