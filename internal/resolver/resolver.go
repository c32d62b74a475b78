// Package resolver maps free-text partner-country names to ISO 3166-1
// alpha-3 codes using an ordered strategy chain:
//  1. the curated exception table, keyed by slug
//  2. exact lookup against the country database
//  3. fuzzy matching against the same database
//
// A name no strategy resolves is reported as absent, never guessed.
package resolver

import (
	"fmt"
	"strings"

	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/region"
	"jovanny3/tradeflow/internal/store"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct raw names memoized.
const DefaultCacheSize = 1024

// Options tunes a Resolver built from a reference store.
type Options struct {
	CacheSize     int
	FuzzyMaxRatio float64
}

type cachedResolution struct {
	code     models.CountryCode
	found    bool
	strategy string
}

// Resolver runs the strategy chain and attaches codes and regions to records.
type Resolver struct {
	strategies []Strategy
	classifier *region.Classifier
	cache      *lru.Cache[string, cachedResolution]
	logger     logging.Logger
}

// New builds the default chain from the reference store.
func New(source store.Source, classifier *region.Classifier, opts Options, logger logging.Logger) (*Resolver, error) {
	exceptions, err := source.LoadExceptions()
	if err != nil {
		return nil, fmt.Errorf("failed to load exception table: %w", err)
	}
	countries, err := source.LoadCountries()
	if err != nil {
		return nil, fmt.Errorf("failed to load country database: %w", err)
	}

	strategies := []Strategy{
		NewExceptionStrategy(exceptions),
		NewExactStrategy(countries),
		NewFuzzyStrategy(countries, opts.FuzzyMaxRatio),
	}
	return NewWithStrategies(strategies, classifier, opts.CacheSize, logger)
}

// NewWithStrategies builds a resolver over an explicit chain. A cacheSize of
// zero selects DefaultCacheSize; a negative one disables memoization.
func NewWithStrategies(strategies []Strategy, classifier *region.Classifier, cacheSize int, logger logging.Logger) (*Resolver, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if classifier == nil {
		classifier = region.NewClassifier(models.BlocSets{})
	}

	r := &Resolver{
		strategies: strategies,
		classifier: classifier,
		logger:     logger,
	}

	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, cachedResolution](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create resolver cache: %w", err)
		}
		r.cache = cache
	}

	return r, nil
}

// Strategies returns the names of the strategies in evaluation order.
func (r *Resolver) Strategies() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the country code for name and whether one was found.
func (r *Resolver) Resolve(name string) (models.CountryCode, bool) {
	res := r.lookup(name)
	return res.code, res.found
}

func (r *Resolver) lookup(name string) cachedResolution {
	if strings.TrimSpace(name) == "" {
		return cachedResolution{}
	}
	if r.cache != nil {
		if res, ok := r.cache.Get(name); ok {
			return res
		}
	}

	res := cachedResolution{}
	for _, s := range r.strategies {
		if code, ok := s.Resolve(name); ok {
			res = cachedResolution{code: code, found: true, strategy: s.Name()}
			break
		}
	}

	if res.found {
		r.logger.Debug("Partner resolved",
			logging.Field{Key: logging.FieldPartner, Value: name},
			logging.Field{Key: logging.FieldCountryCode, Value: res.code},
			logging.Field{Key: logging.FieldStrategy, Value: res.strategy})
	} else {
		r.logger.Debug("Partner could not be resolved",
			logging.Field{Key: logging.FieldPartner, Value: name})
	}

	if r.cache != nil {
		r.cache.Add(name, res)
	}
	return res
}

// Explain runs every strategy against name, without stopping at the first
// match and without the cache, and returns the full attempt trail.
func (r *Resolver) Explain(name string) StrategyResults {
	results := StrategyResults{Name: name}
	if strings.TrimSpace(name) == "" {
		return results
	}
	for _, s := range r.strategies {
		code, ok := s.Resolve(name)
		results.Results = append(results.Results, StrategyResult{
			Strategy: s.Name(),
			Code:     code,
			Found:    ok,
		})
	}
	return results
}

// Classify returns the region of a code using the resolver's classifier.
func (r *Resolver) Classify(code models.CountryCode) models.Region {
	return r.classifier.Classify(code)
}

// Enrich derives the clean partner label, the country code and the region
// of every record. The input slice is not modified.
func (r *Resolver) Enrich(records []models.TradeRecord) []models.ResolvedRecord {
	out := make([]models.ResolvedRecord, len(records))
	for i, rec := range records {
		clean := strings.TrimSpace(rec.PartnerCountryRaw)
		code, _ := r.Resolve(clean)
		out[i] = models.ResolvedRecord{
			TradeRecord:         rec,
			PartnerCountryClean: clean,
			CountryCode:         code,
			Region:              r.classifier.Classify(code),
		}
	}
	return out
}

// CacheLen returns the number of memoized names.
func (r *Resolver) CacheLen() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}
