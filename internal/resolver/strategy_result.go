package resolver

import (
	"fmt"
	"strings"

	"jovanny3/tradeflow/internal/models"
)

// StrategyResult records one strategy attempt.
type StrategyResult struct {
	Strategy string             `json:"strategy" yaml:"strategy"`
	Code     models.CountryCode `json:"code,omitempty" yaml:"code,omitempty"`
	Found    bool               `json:"found" yaml:"found"`
}

// StrategyResults is the ordered trail of attempts for one name.
type StrategyResults struct {
	Name    string           `json:"name" yaml:"name"`
	Results []StrategyResult `json:"results" yaml:"results"`
}

// Best returns the first successful result.
func (sr StrategyResults) Best() (StrategyResult, bool) {
	for _, r := range sr.Results {
		if r.Found {
			return r, true
		}
	}
	return StrategyResult{}, false
}

// Summary returns a human-readable summary of all strategy attempts
func (sr StrategyResults) Summary() string {
	if len(sr.Results) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(sr.Results))
	for _, r := range sr.Results {
		status := "no_match"
		if r.Found {
			status = "success"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", r.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
