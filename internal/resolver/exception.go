package resolver

import (
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/textutils"
)

// ExceptionStrategy resolves names through the curated exception table,
// keyed by slug.
type ExceptionStrategy struct {
	table map[string]models.CountryCode
}

// NewExceptionStrategy creates the strategy. Table keys must already be slugs.
func NewExceptionStrategy(table map[string]models.CountryCode) *ExceptionStrategy {
	if table == nil {
		table = map[string]models.CountryCode{}
	}
	return &ExceptionStrategy{table: table}
}

// Name returns the name of this strategy for logging and debugging.
func (s *ExceptionStrategy) Name() string {
	return "Exception"
}

// Resolve looks the slug of name up in the exception table.
func (s *ExceptionStrategy) Resolve(name string) (models.CountryCode, bool) {
	key := textutils.Slug(name)
	if key == "" {
		return models.NoCountry, false
	}
	code, ok := s.table[key]
	return code, ok
}
