// Package container provides dependency injection for the tradeflow application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"jovanny3/tradeflow/internal/common"
	"jovanny3/tradeflow/internal/config"
	"jovanny3/tradeflow/internal/converter"
	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/normalizer"
	"jovanny3/tradeflow/internal/pipeline"
	"jovanny3/tradeflow/internal/region"
	"jovanny3/tradeflow/internal/report"
	"jovanny3/tradeflow/internal/resolver"
	"jovanny3/tradeflow/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It acts as the central registry for dependency injection, ensuring that all
// components receive their required dependencies through constructors.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      store.Source
	classifier *region.Classifier
	resolver   *resolver.Resolver
	normalizer *normalizer.Normalizer
	converter  *converter.Converter
	pipeline   *pipeline.Pipeline
	reporter   *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies, reading
// reference data from the files named in cfg or the embedded defaults.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	referenceStore := store.NewReferenceStore(
		cfg.Reference.ExceptionsFile,
		cfg.Reference.CountriesFile,
		cfg.Reference.BlocsFile,
		logger,
	)
	return NewContainerWithSource(cfg, referenceStore, logger)
}

// NewContainerWithSource wires the application over an explicit reference
// source and logger.
func NewContainerWithSource(cfg *config.Config, source store.Source, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("reference source cannot be nil")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	common.SetDelimiter(cfg.Delimiter())

	blocs, err := source.LoadBlocs()
	if err != nil {
		return nil, fmt.Errorf("failed to load bloc sets: %w", err)
	}
	classifier := region.NewClassifier(blocs)
	for _, o := range classifier.Overlaps() {
		logger.Debug("Country belongs to several blocs",
			logging.Field{Key: logging.FieldCountryCode, Value: o.Code},
			logging.Field{Key: logging.FieldRegion, Value: o.Effective})
	}

	res, err := resolver.New(source, classifier, resolver.Options{
		CacheSize:     cfg.Resolver.CacheSize,
		FuzzyMaxRatio: cfg.Resolver.FuzzyMaxRatio,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	norm := normalizer.New(cfg.Report.Year, cfg.Report.LocalValueColumn, logger)
	conv := converter.New(
		models.ParseCurrency(cfg.Report.LocalCurrency),
		models.ParseCurrency(cfg.Report.ReferenceCurrency),
		logger,
	)

	p, err := pipeline.New(norm, res, conv, pipeline.Options{
		TopN:            cfg.Analysis.TopN,
		ParetoThreshold: cfg.Analysis.ParetoThreshold,
		MemoSize:        cfg.Pipeline.MemoSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "strategies", Value: res.Strategies()},
		logging.Field{Key: "report_year", Value: norm.ReportYear()},
		logging.Field{Key: logging.FieldCurrency, Value: conv.Supported()})

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      source,
		classifier: classifier,
		resolver:   res,
		normalizer: norm,
		converter:  conv,
		pipeline:   p,
		reporter:   report.NewReportGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the reference data source.
func (c *Container) GetStore() store.Source {
	return c.store
}

// GetClassifier returns the region classifier.
func (c *Container) GetClassifier() *region.Classifier {
	return c.classifier
}

// GetResolver returns the country resolver.
func (c *Container) GetResolver() *resolver.Resolver {
	return c.resolver
}

// GetNormalizer returns the record normalizer.
func (c *Container) GetNormalizer() *normalizer.Normalizer {
	return c.normalizer
}

// GetConverter returns the currency converter.
func (c *Container) GetConverter() *converter.Converter {
	return c.converter
}

// GetPipeline returns the wired pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reporter
}

// Close performs cleanup of container resources.
// This method should be called when the container is no longer needed.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
