package resolver

import "jovanny3/tradeflow/internal/models"

// Strategy defines one step of the partner-name resolution chain.
type Strategy interface {
	// Resolve attempts to map a raw partner name to a country code. The
	// boolean reports whether this strategy produced a code.
	Resolve(name string) (models.CountryCode, bool)

	// Name returns the name of this strategy for logging and explanations.
	Name() string
}
