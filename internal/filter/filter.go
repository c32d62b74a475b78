// Package filter selects the subset of converted records an analysis runs
// over.
package filter

import (
	"errors"
	"fmt"
	"sort"

	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/textutils"
)

// FilterParameters is an immutable selection. Empty fields do not restrict.
type FilterParameters struct {
	Months   []int       `json:"months,omitempty" yaml:"months,omitempty"`
	Partners []string    `json:"partners,omitempty" yaml:"partners,omitempty"`
	Products []string    `json:"products,omitempty" yaml:"products,omitempty"`
	Flow     models.Flow `json:"flow,omitempty" yaml:"flow,omitempty"`
	MinValue *float64    `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue *float64    `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Search   string      `json:"search,omitempty" yaml:"search,omitempty"`
}

// Validate reports inconsistent parameters.
func (p FilterParameters) Validate() error {
	for _, m := range p.Months {
		if !models.ValidMonth(m) {
			return fmt.Errorf("invalid month filter %d: must be between %d and %d", m, models.MinMonth, models.MaxMonth)
		}
	}
	if p.Flow != "" && !p.Flow.IsValid() {
		return fmt.Errorf("invalid flow filter %q: must be %s or %s", p.Flow, models.FlowExport, models.FlowImport)
	}
	if p.MinValue != nil && p.MaxValue != nil && *p.MinValue > *p.MaxValue {
		return errors.New("invalid value range: minimum exceeds maximum")
	}
	return nil
}

// HasValueRange reports whether a value bound is set.
func (p FilterParameters) HasValueRange() bool {
	return p.MinValue != nil || p.MaxValue != nil
}

// ReferenceMonth is the latest selected month, or 0 when no month is
// selected.
func (p FilterParameters) ReferenceMonth() int {
	ref := 0
	for _, m := range p.Months {
		if m > ref {
			ref = m
		}
	}
	return ref
}

func intSet(values []int) map[int]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Apply returns the records matching every set criterion. Records with no
// convertible value are kept unless a value range is set. The input slice
// is not modified.
func Apply(records []models.ConvertedRecord, p FilterParameters) []models.ConvertedRecord {
	months := intSet(p.Months)
	partners := stringSet(p.Partners)
	products := stringSet(p.Products)

	out := make([]models.ConvertedRecord, 0, len(records))
	for _, rec := range records {
		if months != nil {
			if _, ok := months[rec.Month]; !ok {
				continue
			}
		}
		if partners != nil {
			if _, ok := partners[rec.PartnerCountryClean]; !ok {
				continue
			}
		}
		if products != nil {
			if _, ok := products[rec.ProductDesc]; !ok {
				continue
			}
		}
		if p.Flow != "" && rec.Flow != p.Flow {
			continue
		}
		if p.HasValueRange() {
			if !rec.Convertible() {
				continue
			}
			if p.MinValue != nil && rec.Value < *p.MinValue {
				continue
			}
			if p.MaxValue != nil && rec.Value > *p.MaxValue {
				continue
			}
		}
		if p.Search != "" && !textutils.ContainsFold(rec.PartnerCountryClean, p.Search) && !textutils.ContainsFold(rec.ProductDesc, p.Search) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Facets lists the distinct selectable values of a record set.
type Facets struct {
	Months   []int    `json:"months" yaml:"months"`
	Partners []string `json:"partners" yaml:"partners"`
	Products []string `json:"products" yaml:"products"`
}

// FacetsOf returns the sorted distinct months, partners and products.
func FacetsOf(records []models.ConvertedRecord) Facets {
	months := make(map[int]struct{})
	partners := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, rec := range records {
		months[rec.Month] = struct{}{}
		partners[rec.PartnerCountryClean] = struct{}{}
		products[rec.ProductDesc] = struct{}{}
	}

	f := Facets{
		Months:   make([]int, 0, len(months)),
		Partners: make([]string, 0, len(partners)),
		Products: make([]string, 0, len(products)),
	}
	for m := range months {
		f.Months = append(f.Months, m)
	}
	for p := range partners {
		f.Partners = append(f.Partners, p)
	}
	for p := range products {
		f.Products = append(f.Products, p)
	}
	sort.Ints(f.Months)
	sort.Strings(f.Partners)
	sort.Strings(f.Products)
	return f
}
