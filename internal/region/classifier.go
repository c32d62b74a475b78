// Package region assigns trade-bloc labels to country codes.
package region

import (
	"sort"

	"jovanny3/tradeflow/internal/models"
)

// Classifier maps country codes to regions by set membership. Sets are
// checked in the order of models.Regions: SADC, then EU, then Asia.
type Classifier struct {
	sets map[models.Region]map[models.CountryCode]struct{}
}

// Overlap is a country code that belongs to more than one bloc set.
type Overlap struct {
	Code      models.CountryCode `json:"code" yaml:"code"`
	Regions   []models.Region    `json:"regions" yaml:"regions"`
	Effective models.Region      `json:"effective" yaml:"effective"`
}

// NewClassifier builds a classifier from membership sets.
func NewClassifier(blocs models.BlocSets) *Classifier {
	return &Classifier{
		sets: map[models.Region]map[models.CountryCode]struct{}{
			models.RegionSADC: toSet(blocs.SADC),
			models.RegionEU:   toSet(blocs.EU),
			models.RegionAsia: toSet(blocs.Asia),
		},
	}
}

func toSet(codes []models.CountryCode) map[models.CountryCode]struct{} {
	set := make(map[models.CountryCode]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// Classify returns the first region whose set contains code, or Other. An
// absent code is Other.
func (c *Classifier) Classify(code models.CountryCode) models.Region {
	if code == models.NoCountry {
		return models.RegionOther
	}
	for _, r := range models.Regions {
		if _, ok := c.sets[r][code]; ok {
			return r
		}
	}
	return models.RegionOther
}

// Members returns the sorted members of a region's set. Other has no
// explicit members.
func (c *Classifier) Members(r models.Region) []models.CountryCode {
	set := c.sets[r]
	out := make([]models.CountryCode, 0, len(set))
	for code := range set {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Overlaps lists codes present in more than one set, sorted by code, with the
// region Classify actually assigns.
func (c *Classifier) Overlaps() []Overlap {
	seen := make(map[models.CountryCode][]models.Region)
	for _, r := range models.Regions {
		for code := range c.sets[r] {
			seen[code] = append(seen[code], r)
		}
	}

	var overlaps []Overlap
	for code, regions := range seen {
		if len(regions) < 2 {
			continue
		}
		overlaps = append(overlaps, Overlap{Code: code, Regions: regions, Effective: c.Classify(code)})
	}
	sort.Slice(overlaps, func(i, j int) bool { return overlaps[i].Code < overlaps[j].Code })
	return overlaps
}
