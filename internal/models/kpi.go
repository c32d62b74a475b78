package models

// KPIs are the headline statistics over a filtered, converted record set.
// Coverage and MonthOverMonthChange are nil when not applicable.
type KPIs struct {
	TotalExport          float64  `json:"total_export" yaml:"total_export"`
	TotalImport          float64  `json:"total_import" yaml:"total_import"`
	Balance              float64  `json:"balance" yaml:"balance"`
	Coverage             *float64 `json:"coverage" yaml:"coverage"`
	PartnerCount         int      `json:"partner_count" yaml:"partner_count"`
	ReferenceMonth       int      `json:"reference_month" yaml:"reference_month"`
	MonthOverMonthChange *float64 `json:"month_over_month_change" yaml:"month_over_month_change"`
}

// HasCoverage reports whether the coverage ratio is defined.
func (k KPIs) HasCoverage() bool {
	return k.Coverage != nil
}

// HasMonthOverMonth reports whether the month-over-month change is defined.
func (k KPIs) HasMonthOverMonth() bool {
	return k.MonthOverMonthChange != nil
}
