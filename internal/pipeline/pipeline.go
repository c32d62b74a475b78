// Package pipeline wires the trade stages together: normalization, partner
// resolution, currency conversion, filtering, aggregation, KPIs and insights.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"jovanny3/tradeflow/internal/aggregator"
	"jovanny3/tradeflow/internal/converter"
	"jovanny3/tradeflow/internal/filter"
	"jovanny3/tradeflow/internal/insights"
	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/normalizer"
	"jovanny3/tradeflow/internal/resolver"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoSize is the number of results kept when memoization is enabled.
const DefaultMemoSize = 16

// Stage names used in log entries.
const (
	StageNormalize = "normalize"
	StageResolve   = "resolve"
	StageConvert   = "convert"
	StageFilter    = "filter"
	StageAggregate = "aggregate"
	StageInsights  = "insights"
)

// Input is everything a single run depends on. An empty Currency selects the
// local currency; a non-positive TopN selects aggregator.DefaultTopN.
type Input struct {
	Table    models.RawTable
	Rates    models.RateTable
	Currency models.Currency
	Filter   filter.FilterParameters
	TopN     int
}

// Breakdown is a ranking of one dimension within the reference flow.
type Breakdown struct {
	Top           []models.AggregateRow `json:"top" yaml:"top"`
	Participation []models.Share        `json:"participation" yaml:"participation"`
}

// Result is the complete outcome of a run.
type Result struct {
	RunID              string                  `json:"run_id" yaml:"run_id"`
	ReportYear         int                     `json:"report_year" yaml:"report_year"`
	Currency           models.Currency         `json:"currency" yaml:"currency"`
	Filter             filter.FilterParameters `json:"filter" yaml:"filter"`
	Warnings           []string                `json:"warnings" yaml:"warnings"`
	Conversion         models.Conversion       `json:"conversion" yaml:"conversion"`
	RecordCount        int                     `json:"record_count" yaml:"record_count"`
	FilteredCount      int                     `json:"filtered_count" yaml:"filtered_count"`
	ReferenceFlow      models.Flow             `json:"reference_flow" yaml:"reference_flow"`
	Views              models.Views            `json:"views" yaml:"views"`
	Partners           Breakdown               `json:"partners" yaml:"partners"`
	Products           Breakdown               `json:"products" yaml:"products"`
	Pareto             models.Pareto           `json:"pareto" yaml:"pareto"`
	MonthlyBalance     []models.MonthBalance   `json:"monthly_balance" yaml:"monthly_balance"`
	KPIs               models.KPIs             `json:"kpis" yaml:"kpis"`
	Insights           []string                `json:"insights" yaml:"insights"`
	UnresolvedPartners []string                `json:"unresolved_partners" yaml:"unresolved_partners"`
	Facets             filter.Facets           `json:"facets" yaml:"facets"`

	// Records are the filtered, converted records the views were built from.
	Records []models.ConvertedRecord `json:"-" yaml:"-"`
}

// Options tunes a Pipeline. MemoSize 0 disables memoization.
type Options struct {
	TopN            int
	ParetoThreshold float64
	MemoSize        int
}

// Pipeline runs the stages in order. It is safe for concurrent use when its
// stages are.
type Pipeline struct {
	normalizer *normalizer.Normalizer
	resolver   *resolver.Resolver
	converter  *converter.Converter
	engine     *insights.Engine
	opts       Options
	memo       *lru.Cache[string, *Result]
	logger     logging.Logger
}

// New creates a pipeline from its stages.
func New(n *normalizer.Normalizer, r *resolver.Resolver, c *converter.Converter, opts Options, logger logging.Logger) (*Pipeline, error) {
	if n == nil || r == nil || c == nil {
		return nil, fmt.Errorf("pipeline requires a normalizer, a resolver and a converter")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if opts.TopN <= 0 {
		opts.TopN = aggregator.DefaultTopN
	}
	if opts.ParetoThreshold <= 0 {
		opts.ParetoThreshold = aggregator.DefaultParetoThreshold
	}

	p := &Pipeline{
		normalizer: n,
		resolver:   r,
		converter:  c,
		engine:     insights.New(opts.ParetoThreshold),
		opts:       opts,
		logger:     logger,
	}
	if opts.MemoSize > 0 {
		memo, err := lru.New[string, *Result](opts.MemoSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create result memo: %w", err)
		}
		p.memo = memo
	}
	return p, nil
}

// Fingerprint identifies an input by content. The second result is false
// when the input cannot be encoded, e.g. when a rate is NaN.
func Fingerprint(in Input) (string, bool) {
	months := make([]int, 0, len(in.Rates))
	for m := range in.Rates {
		months = append(months, m)
	}
	sort.Ints(months)
	rates := make([][2]float64, 0, len(months))
	for _, m := range months {
		rates = append(rates, [2]float64{float64(m), in.Rates[m]})
	}

	h := sha256.New()
	err := json.NewEncoder(h).Encode(struct {
		Columns  []string
		Rows     []map[string]string
		Rates    [][2]float64
		Currency models.Currency
		Filter   filter.FilterParameters
		TopN     int
	}{in.Table.Columns, in.Table.Rows, rates, models.ParseCurrency(string(in.Currency)), in.Filter, in.TopN})
	if err != nil {
		return "", false
	}
	return hex.EncodeToString(h.Sum(nil)), true
}

func (p *Pipeline) stageDone(runID, stage string, start time.Time, count int) {
	p.logger.Info("Stage completed",
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldStage, Value: stage},
		logging.Field{Key: logging.FieldCount, Value: count},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
}

// Run executes every stage over in. Fatal input problems come back as the
// typed errors of the tradeerror package. Memoized results are shared
// between callers and must not be modified.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	if err := in.Filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Currency == "" {
		in.Currency = p.converter.Local()
	}
	topN := in.TopN
	if topN <= 0 {
		topN = p.opts.TopN
	}

	key, memoizable := "", false
	if p.memo != nil {
		key, memoizable = Fingerprint(in)
		if memoizable {
			if cached, ok := p.memo.Get(key); ok {
				p.logger.Debug("Returning memoized result", logging.Field{Key: logging.FieldRunID, Value: cached.RunID})
				return cached, nil
			}
		}
	}

	runID := uuid.NewString()
	result := &Result{RunID: runID, ReportYear: p.normalizer.ReportYear(), Filter: in.Filter, Warnings: []string{}}

	start := time.Now()
	records, warnings, err := p.normalizer.Normalize(in.Table)
	if err != nil {
		p.logger.WithError(err).Error("Normalization failed", logging.Field{Key: logging.FieldRunID, Value: runID})
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	result.RecordCount = len(records)
	p.stageDone(runID, StageNormalize, start, len(records))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	resolved := p.resolver.Enrich(records)
	result.UnresolvedPartners = unresolved(resolved)
	p.stageDone(runID, StageResolve, start, len(resolved)-countUnresolved(resolved))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	conv, err := p.converter.Convert(resolved, in.Currency, in.Rates)
	if err != nil {
		p.logger.WithError(err).Error("Conversion failed", logging.Field{Key: logging.FieldRunID, Value: runID})
		return nil, err
	}
	result.Currency = conv.Currency
	result.Conversion = conv
	result.Warnings = append(result.Warnings, converter.Warnings(conv)...)
	result.Facets = filter.FacetsOf(conv.Records)
	p.stageDone(runID, StageConvert, start, len(conv.Records)-conv.Unconvertible)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	filtered := filter.Apply(conv.Records, in.Filter)
	result.Records = filtered
	result.FilteredCount = len(filtered)
	p.stageDone(runID, StageFilter, start, len(filtered))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	result.ReferenceFlow = models.FlowExport
	if in.Filter.Flow.IsValid() {
		result.ReferenceFlow = in.Filter.Flow
	}
	result.Views = aggregator.Aggregate(filtered)
	result.Partners = breakdown(filtered, aggregator.DimensionPartner, result.ReferenceFlow, topN)
	result.Products = breakdown(filtered, aggregator.DimensionProduct, result.ReferenceFlow, topN)
	result.Pareto = aggregator.Pareto(
		aggregator.Totals(filtered, aggregator.DimensionPartner, result.ReferenceFlow),
		aggregator.DimensionPartner, p.opts.ParetoThreshold)
	result.MonthlyBalance = aggregator.MonthlyBalance(filtered)
	p.stageDone(runID, StageAggregate, start, result.Views.ByPartnerFlow.Len())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	result.KPIs = p.engine.ComputeKPIs(filtered, in.Filter.ReferenceMonth())
	result.Insights = p.engine.ComputeInsights(filtered)
	p.stageDone(runID, StageInsights, start, len(result.Insights))

	if memoizable {
		p.memo.Add(key, result)
	}
	return result, nil
}

// breakdown ranks dim within flow. Participation percentages are relative to
// the whole flow, not to the retained top rows.
func breakdown(records []models.ConvertedRecord, dim aggregator.Dimension, flow models.Flow, topN int) Breakdown {
	rows := aggregator.Totals(records, dim, flow)
	ranked := aggregator.TopN(rows, dim, len(rows)+1)
	shares := aggregator.Participation(ranked, dim)
	if len(shares) > topN {
		shares = shares[:topN]
	}
	return Breakdown{Top: aggregator.TopN(rows, dim, topN), Participation: shares}
}

func unresolved(records []models.ResolvedRecord) []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, rec := range records {
		if rec.HasCode() {
			continue
		}
		if _, ok := seen[rec.PartnerCountryClean]; ok {
			continue
		}
		seen[rec.PartnerCountryClean] = struct{}{}
		names = append(names, rec.PartnerCountryClean)
	}
	sort.Strings(names)
	return names
}

func countUnresolved(records []models.ResolvedRecord) int {
	n := 0
	for _, rec := range records {
		if !rec.HasCode() {
			n++
		}
	}
	return n
}

// MemoLen returns the number of memoized results.
func (p *Pipeline) MemoLen() int {
	if p.memo == nil {
		return 0
	}
	return p.memo.Len()
}
