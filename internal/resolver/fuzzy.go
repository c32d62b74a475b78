package resolver

import (
	"strings"
	"unicode/utf8"

	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/textutils"

	"github.com/agnivade/levenshtein"
)

// DefaultFuzzyMaxRatio is the largest accepted edit distance relative to the
// longer of the two compared names.
const DefaultFuzzyMaxRatio = 0.34

// minContainmentLength is the shortest query tried as a substring of
// database names; shorter queries only take part in edit-distance ranking.
const minContainmentLength = 3

type fuzzyEntry struct {
	folded string
	length int
	code   models.CountryCode
}

// FuzzyStrategy ranks every database name against the query. Names that
// contain the query win, shortest first; otherwise the smallest normalized
// edit distance wins if it is within the ratio. Ties go to the smaller code,
// so the result depends only on the database content.
type FuzzyStrategy struct {
	entries  []fuzzyEntry
	maxRatio float64
}

// NewFuzzyStrategy creates the strategy. A non-positive maxRatio selects
// DefaultFuzzyMaxRatio.
func NewFuzzyStrategy(countries []models.Country, maxRatio float64) *FuzzyStrategy {
	if maxRatio <= 0 {
		maxRatio = DefaultFuzzyMaxRatio
	}
	entries := make([]fuzzyEntry, 0, len(countries)*2)
	for _, c := range countries {
		for _, n := range c.Names() {
			folded := textutils.Fold(n)
			entries = append(entries, fuzzyEntry{
				folded: folded,
				length: utf8.RuneCountInString(folded),
				code:   c.Alpha3,
			})
		}
	}
	return &FuzzyStrategy{entries: entries, maxRatio: maxRatio}
}

// Name returns the name of this strategy for logging and debugging.
func (s *FuzzyStrategy) Name() string {
	return "Fuzzy"
}

// Resolve returns the top-ranked candidate, if any qualifies.
func (s *FuzzyStrategy) Resolve(name string) (models.CountryCode, bool) {
	query := textutils.Fold(name)
	if query == "" {
		return models.NoCountry, false
	}
	queryLen := utf8.RuneCountInString(query)

	if queryLen >= minContainmentLength {
		var best *fuzzyEntry
		for i := range s.entries {
			e := &s.entries[i]
			if !strings.Contains(e.folded, query) {
				continue
			}
			if best == nil || e.length < best.length || (e.length == best.length && e.code < best.code) {
				best = e
			}
		}
		if best != nil {
			return best.code, true
		}
	}

	bestCode := models.NoCountry
	bestRatio := s.maxRatio
	found := false
	for _, e := range s.entries {
		longest := e.length
		if queryLen > longest {
			longest = queryLen
		}
		ratio := float64(levenshtein.ComputeDistance(query, e.folded)) / float64(longest)
		if ratio > s.maxRatio {
			continue
		}
		if !found || ratio < bestRatio || (ratio == bestRatio && e.code < bestCode) {
			bestCode, bestRatio, found = e.code, ratio, true
		}
	}
	return bestCode, found
}
