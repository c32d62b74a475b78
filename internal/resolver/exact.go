package resolver

import (
	"strings"

	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/textutils"
)

// ExactStrategy matches a name case-insensitively against the alpha-2 and
// alpha-3 codes and every name of the country database.
type ExactStrategy struct {
	index map[string]models.CountryCode
}

// NewExactStrategy indexes countries. When two countries share a lookup
// key, the one listed first keeps it.
func NewExactStrategy(countries []models.Country) *ExactStrategy {
	index := make(map[string]models.CountryCode, len(countries)*4)
	add := func(key string, code models.CountryCode) {
		key = exactKey(key)
		if key == "" {
			return
		}
		if _, exists := index[key]; !exists {
			index[key] = code
		}
	}
	for _, c := range countries {
		add(c.Alpha2, c.Alpha3)
		add(string(c.Alpha3), c.Alpha3)
		for _, n := range c.Names() {
			add(n, c.Alpha3)
		}
	}
	return &ExactStrategy{index: index}
}

func exactKey(s string) string {
	return strings.ToLower(textutils.StripDiacritics(strings.TrimSpace(s)))
}

// Name returns the name of this strategy for logging and debugging.
func (s *ExactStrategy) Name() string {
	return "Exact"
}

// Resolve performs the exact lookup.
func (s *ExactStrategy) Resolve(name string) (models.CountryCode, bool) {
	key := exactKey(name)
	if key == "" {
		return models.NoCountry, false
	}
	code, ok := s.index[key]
	return code, ok
}
