package aggregator

// Defaults for derived rankings
const (
	DefaultTopN            = 10
	DefaultParetoThreshold = 80.0

	paretoEpsilon = 1e-9
)
