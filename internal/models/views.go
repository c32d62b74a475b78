package models

// View names
const (
	ViewByMonthFlow   = "by_month_flow"
	ViewByPartnerFlow = "by_partner_flow"
	ViewByProductFlow = "by_product_flow"
	ViewByRegionFlow  = "by_region_flow"
	ViewByMonthRegion = "by_month_region"
)

// AggregateRow is one group of an AggregateView. Only the key fields named by
// the owning view are meaningful. Unconvertible counts the records in the group
// whose value could not be converted and was left out of Value.
type AggregateRow struct {
	Month         int         `json:"month,omitempty" yaml:"month,omitempty" csv:"month"`
	Flow          Flow        `json:"flow,omitempty" yaml:"flow,omitempty" csv:"flow"`
	Partner       string      `json:"partner,omitempty" yaml:"partner,omitempty" csv:"partner"`
	CountryCode   CountryCode `json:"country_code,omitempty" yaml:"country_code,omitempty" csv:"country_code"`
	Product       string      `json:"product,omitempty" yaml:"product,omitempty" csv:"product"`
	Region        Region      `json:"region,omitempty" yaml:"region,omitempty" csv:"region"`
	Value         float64     `json:"value" yaml:"value" csv:"value"`
	Unconvertible int         `json:"unconvertible,omitempty" yaml:"unconvertible,omitempty" csv:"unconvertible"`
}

// AggregateView is a grouped table with a single summed value measure.
type AggregateView struct {
	Name string         `json:"name" yaml:"name"`
	Keys []string       `json:"keys" yaml:"keys"`
	Rows []AggregateRow `json:"rows" yaml:"rows"`
}

// Total sums the value column.
func (v AggregateView) Total() float64 {
	total := 0.0
	for _, row := range v.Rows {
		total += row.Value
	}
	return total
}

// Len returns the number of groups.
func (v AggregateView) Len() int {
	return len(v.Rows)
}

// Views holds the five canonical aggregate views of a record set.
type Views struct {
	ByMonthFlow   AggregateView `json:"by_month_flow" yaml:"by_month_flow"`
	ByPartnerFlow AggregateView `json:"by_partner_flow" yaml:"by_partner_flow"`
	ByProductFlow AggregateView `json:"by_product_flow" yaml:"by_product_flow"`
	ByRegionFlow  AggregateView `json:"by_region_flow" yaml:"by_region_flow"`
	ByMonthRegion AggregateView `json:"by_month_region" yaml:"by_month_region"`
}

// All returns the views in canonical order.
func (v Views) All() []AggregateView {
	return []AggregateView{v.ByMonthFlow, v.ByPartnerFlow, v.ByProductFlow, v.ByRegionFlow, v.ByMonthRegion}
}

// Share is a labelled value with its percentage of the column total.
type Share struct {
	Label   string  `json:"label" yaml:"label" csv:"label"`
	Value   float64 `json:"value" yaml:"value" csv:"value"`
	Percent float64 `json:"percent" yaml:"percent" csv:"percent"`
}

// ParetoPoint is one entry of a cumulative-share ranking.
type ParetoPoint struct {
	Label             string  `json:"label" yaml:"label" csv:"label"`
	Value             float64 `json:"value" yaml:"value" csv:"value"`
	CumulativePercent float64 `json:"cumulative_percent" yaml:"cumulative_percent" csv:"cumulative_percent"`
}

// Pareto is a cumulative-share ranking. ThresholdIndex is the zero-based index
// of the first point whose cumulative share reaches the threshold, or -1.
type Pareto struct {
	Points         []ParetoPoint `json:"points" yaml:"points"`
	Threshold      float64       `json:"threshold" yaml:"threshold"`
	ThresholdIndex int           `json:"threshold_index" yaml:"threshold_index"`
}

// GroupsToThreshold returns how many leading groups are needed to reach the
// threshold, or 0 when it is never reached.
func (p Pareto) GroupsToThreshold() int {
	if p.ThresholdIndex < 0 {
		return 0
	}
	return p.ThresholdIndex + 1
}

// MonthBalance is the export, import and balance of one month.
type MonthBalance struct {
	Month   int     `json:"month" yaml:"month" csv:"month"`
	Name    string  `json:"name" yaml:"name" csv:"name"`
	Export  float64 `json:"export" yaml:"export" csv:"export"`
	Import  float64 `json:"import" yaml:"import" csv:"import"`
	Balance float64 `json:"balance" yaml:"balance" csv:"balance"`
}
