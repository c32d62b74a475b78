// Package aggregator groups converted trade records into the canonical views
// and derives rankings from them.
//
// Pipeline per view: group → sum finite values → sort by key. Values that
// could not be converted (NaN) are counted per group but never summed.
package aggregator

import (
	"math"
	"sort"

	"jovanny3/tradeflow/internal/models"

	"gonum.org/v1/gonum/floats"
)

// Dimension names a grouping key.
type Dimension string

const (
	DimensionMonth   Dimension = "month"
	DimensionFlow    Dimension = "flow"
	DimensionPartner Dimension = "partner"
	DimensionCode    Dimension = "country_code"
	DimensionProduct Dimension = "product"
	DimensionRegion  Dimension = "region"
)

// Label returns the display label of row along d.
func (d Dimension) Label(row models.AggregateRow) string {
	switch d {
	case DimensionMonth:
		return models.MonthName(row.Month)
	case DimensionFlow:
		return row.Flow.String()
	case DimensionPartner:
		return row.Partner
	case DimensionCode:
		return row.CountryCode.String()
	case DimensionProduct:
		return row.Product
	case DimensionRegion:
		return row.Region.String()
	default:
		return ""
	}
}

type groupKey struct {
	month   int
	flow    models.Flow
	partner string
	code    models.CountryCode
	product string
	region  models.Region
}

// keyOf projects a record onto the given dimensions; other fields stay zero.
func keyOf(rec models.ConvertedRecord, dims []Dimension) groupKey {
	var k groupKey
	for _, d := range dims {
		switch d {
		case DimensionMonth:
			k.month = rec.Month
		case DimensionFlow:
			k.flow = rec.Flow
		case DimensionPartner:
			k.partner = rec.PartnerCountryClean
		case DimensionCode:
			k.code = rec.CountryCode
		case DimensionProduct:
			k.product = rec.ProductDesc
		case DimensionRegion:
			k.region = rec.Region
			if k.region == "" {
				k.region = models.RegionOther
			}
		}
	}
	return k
}

// less orders keys dimension by dimension, in the order the view names them.
func (k groupKey) less(o groupKey, dims []Dimension) bool {
	for _, d := range dims {
		switch d {
		case DimensionMonth:
			if k.month != o.month {
				return k.month < o.month
			}
		case DimensionFlow:
			if k.flow != o.flow {
				return k.flow < o.flow
			}
		case DimensionPartner:
			if k.partner != o.partner {
				return k.partner < o.partner
			}
		case DimensionCode:
			if k.code != o.code {
				return k.code < o.code
			}
		case DimensionProduct:
			if k.product != o.product {
				return k.product < o.product
			}
		case DimensionRegion:
			if k.region.Rank() != o.region.Rank() {
				return k.region.Rank() < o.region.Rank()
			}
			if k.region != o.region {
				return k.region < o.region
			}
		}
	}
	return false
}

func (k groupKey) row() models.AggregateRow {
	return models.AggregateRow{
		Month:       k.month,
		Flow:        k.flow,
		Partner:     k.partner,
		CountryCode: k.code,
		Product:     k.product,
		Region:      k.region,
	}
}

type accumulator struct {
	values        []float64
	unconvertible int
}

// Group builds one view over records keyed by dims, sorted by key.
func Group(name string, records []models.ConvertedRecord, dims ...Dimension) models.AggregateView {
	keys := make([]string, len(dims))
	for i, d := range dims {
		keys[i] = string(d)
	}
	view := models.AggregateView{Name: name, Keys: keys, Rows: []models.AggregateRow{}}
	if len(records) == 0 {
		return view
	}

	groups := make(map[groupKey]*accumulator)
	for _, rec := range records {
		k := keyOf(rec, dims)
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{}
			groups[k] = acc
		}
		if rec.Convertible() {
			acc.values = append(acc.values, rec.Value)
		} else {
			acc.unconvertible++
		}
	}

	ordered := make([]groupKey, 0, len(groups))
	for k := range groups {
		ordered = append(ordered, k)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].less(ordered[j], dims) })

	view.Rows = make([]models.AggregateRow, 0, len(ordered))
	for _, k := range ordered {
		acc := groups[k]
		row := k.row()
		if len(acc.values) > 0 {
			row.Value = floats.Sum(acc.values)
		}
		row.Unconvertible = acc.unconvertible
		view.Rows = append(view.Rows, row)
	}
	return view
}

// Aggregate produces the five canonical views. Empty input yields empty
// views.
func Aggregate(records []models.ConvertedRecord) models.Views {
	return models.Views{
		ByMonthFlow:   Group(models.ViewByMonthFlow, records, DimensionMonth, DimensionFlow),
		ByPartnerFlow: Group(models.ViewByPartnerFlow, records, DimensionPartner, DimensionCode, DimensionFlow),
		ByProductFlow: Group(models.ViewByProductFlow, records, DimensionProduct, DimensionFlow),
		ByRegionFlow:  Group(models.ViewByRegionFlow, records, DimensionRegion, DimensionFlow),
		ByMonthRegion: Group(models.ViewByMonthRegion, records, DimensionMonth, DimensionRegion),
	}
}

// Totals sums records along a single dimension, keeping only flow when it is
// non-empty.
func Totals(records []models.ConvertedRecord, dim Dimension, flow models.Flow) []models.AggregateRow {
	if flow != "" {
		filtered := make([]models.ConvertedRecord, 0, len(records))
		for _, rec := range records {
			if rec.Flow == flow {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	rows := Group(string(dim), records, dim).Rows
	if flow != "" {
		for i := range rows {
			rows[i].Flow = flow
		}
	}
	return rows
}

// Total sums the finite values of records.
func Total(records []models.ConvertedRecord) float64 {
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.Convertible() {
			values = append(values, rec.Value)
		}
	}
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// rankDescending sorts a copy of rows by value, largest first, ties broken
// by label.
func rankDescending(rows []models.AggregateRow, dim Dimension) []models.AggregateRow {
	ranked := append([]models.AggregateRow(nil), rows...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return dim.Label(ranked[i]) < dim.Label(ranked[j])
	})
	return ranked
}

// TopN returns the n largest rows. A non-positive n selects DefaultTopN.
func TopN(rows []models.AggregateRow, dim Dimension, n int) []models.AggregateRow {
	if n <= 0 {
		n = DefaultTopN
	}
	ranked := rankDescending(rows, dim)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Participation expresses each row as a percentage of the rows' total. The
// percentage is 0 when the total is 0.
func Participation(rows []models.AggregateRow, dim Dimension) []models.Share {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.Value
	}
	total := 0.0
	if len(values) > 0 {
		total = floats.Sum(values)
	}

	shares := make([]models.Share, len(rows))
	for i, r := range rows {
		pct := 0.0
		if total != 0 {
			pct = r.Value / total * 100
		}
		shares[i] = models.Share{Label: dim.Label(r), Value: r.Value, Percent: pct}
	}
	return shares
}

// Pareto ranks rows descending and accumulates their share of the total.
// ThresholdIndex is the first point reaching threshold percent. A total of 0
// yields no points. A non-positive threshold selects DefaultParetoThreshold.
func Pareto(rows []models.AggregateRow, dim Dimension, threshold float64) models.Pareto {
	if threshold <= 0 {
		threshold = DefaultParetoThreshold
	}
	result := models.Pareto{Points: []models.ParetoPoint{}, Threshold: threshold, ThresholdIndex: -1}

	ranked := rankDescending(rows, dim)
	total := 0.0
	for _, r := range ranked {
		total += r.Value
	}
	if total <= 0 || math.IsNaN(total) {
		return result
	}

	cumulative := 0.0
	for i, r := range ranked {
		cumulative += r.Value
		pct := cumulative / total * 100
		result.Points = append(result.Points, models.ParetoPoint{
			Label:             dim.Label(r),
			Value:             r.Value,
			CumulativePercent: pct,
		})
		if result.ThresholdIndex < 0 && pct >= threshold-paretoEpsilon {
			result.ThresholdIndex = i
		}
	}
	return result
}

// MonthlyBalance returns export, import and balance for every month 1-12,
// zero-filled.
func MonthlyBalance(records []models.ConvertedRecord) []models.MonthBalance {
	balances := make([]models.MonthBalance, 0, models.MaxMonth)
	for m := models.MinMonth; m <= models.MaxMonth; m++ {
		balances = append(balances, models.MonthBalance{Month: m, Name: models.MonthName(m)})
	}

	for _, row := range Group(models.ViewByMonthFlow, records, DimensionMonth, DimensionFlow).Rows {
		if !models.ValidMonth(row.Month) {
			continue
		}
		b := &balances[row.Month-1]
		switch row.Flow {
		case models.FlowExport:
			b.Export = row.Value
		case models.FlowImport:
			b.Import = row.Value
		}
	}
	for i := range balances {
		balances[i].Balance = balances[i].Export - balances[i].Import
	}
	return balances
}
