// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TRADEFLOW_REPORT_YEAR.
const EnvPrefix = "TRADEFLOW"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Report struct {
		Year              int    `mapstructure:"year" yaml:"year"`
		LocalCurrency     string `mapstructure:"local_currency" yaml:"local_currency"`
		ReferenceCurrency string `mapstructure:"reference_currency" yaml:"reference_currency"`
		LocalValueColumn  string `mapstructure:"local_value_column" yaml:"local_value_column"`
	} `mapstructure:"report" yaml:"report"`

	Analysis struct {
		TopN            int     `mapstructure:"top_n" yaml:"top_n"`
		ParetoThreshold float64 `mapstructure:"pareto_threshold" yaml:"pareto_threshold"`
	} `mapstructure:"analysis" yaml:"analysis"`

	Resolver struct {
		CacheSize     int     `mapstructure:"cache_size" yaml:"cache_size"`
		FuzzyMaxRatio float64 `mapstructure:"fuzzy_max_ratio" yaml:"fuzzy_max_ratio"`
	} `mapstructure:"resolver" yaml:"resolver"`

	Reference struct {
		ExceptionsFile string `mapstructure:"exceptions_file" yaml:"exceptions_file"`
		CountriesFile  string `mapstructure:"countries_file" yaml:"countries_file"`
		BlocsFile      string `mapstructure:"blocs_file" yaml:"blocs_file"`
	} `mapstructure:"reference" yaml:"reference"`

	Pipeline struct {
		MemoSize int `mapstructure:"memo_size" yaml:"memo_size"`
	} `mapstructure:"pipeline" yaml:"pipeline"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
// from the standard search paths.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile loads configuration with configFile taking the
// place of the search paths. An empty configFile searches $HOME/.tradeflow,
// .tradeflow and the working directory for config.yaml.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.tradeflow")
		v.AddConfigPath(".tradeflow")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		case !errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Unprefixed logging variables are honoured too
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind LOG_LEVEL environment variable: %v\n", err)
	}
	if err := v.BindEnv("log.format", EnvPrefix+"_LOG_FORMAT", "LOG_FORMAT"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind LOG_FORMAT environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Report defaults
	v.SetDefault("report.year", 2022)
	v.SetDefault("report.local_currency", "AOA")
	v.SetDefault("report.reference_currency", "USD")
	v.SetDefault("report.local_value_column", "value_aoa")

	// Analysis defaults
	v.SetDefault("analysis.top_n", 10)
	v.SetDefault("analysis.pareto_threshold", 80.0)

	// Resolver defaults
	v.SetDefault("resolver.cache_size", 1024)
	v.SetDefault("resolver.fuzzy_max_ratio", 0.34)

	// Reference overrides default to the embedded tables
	v.SetDefault("reference.exceptions_file", "")
	v.SetDefault("reference.countries_file", "")
	v.SetDefault("reference.blocs_file", "")

	// Pipeline defaults
	v.SetDefault("pipeline.memo_size", 16)
}

func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Validate checks every field and normalizes currency codes. Call it again
// after overriding fields from command-line flags.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	// Validate report settings
	if config.Report.Year < 1900 || config.Report.Year > 2100 {
		return fmt.Errorf("report.year must be between 1900 and 2100, got: %d", config.Report.Year)
	}
	config.Report.LocalCurrency = strings.ToUpper(strings.TrimSpace(config.Report.LocalCurrency))
	config.Report.ReferenceCurrency = strings.ToUpper(strings.TrimSpace(config.Report.ReferenceCurrency))
	if !validCurrency(config.Report.LocalCurrency) {
		return fmt.Errorf("report.local_currency must be a 3-letter code, got: %s", config.Report.LocalCurrency)
	}
	if !validCurrency(config.Report.ReferenceCurrency) {
		return fmt.Errorf("report.reference_currency must be a 3-letter code, got: %s", config.Report.ReferenceCurrency)
	}
	if config.Report.LocalCurrency == config.Report.ReferenceCurrency {
		return fmt.Errorf("report.local_currency and report.reference_currency must differ, both are %s", config.Report.LocalCurrency)
	}
	if strings.TrimSpace(config.Report.LocalValueColumn) == "" {
		return fmt.Errorf("report.local_value_column cannot be empty")
	}

	// Validate analysis settings
	if config.Analysis.TopN < 1 || config.Analysis.TopN > 1000 {
		return fmt.Errorf("analysis.top_n must be between 1 and 1000, got: %d", config.Analysis.TopN)
	}
	if config.Analysis.ParetoThreshold <= 0 || config.Analysis.ParetoThreshold > 100 {
		return fmt.Errorf("analysis.pareto_threshold must be in (0, 100], got: %f", config.Analysis.ParetoThreshold)
	}

	// Validate resolver settings
	if config.Resolver.CacheSize < -1 {
		return fmt.Errorf("resolver.cache_size must be -1 (disabled) or greater, got: %d", config.Resolver.CacheSize)
	}
	if config.Resolver.FuzzyMaxRatio < 0 || config.Resolver.FuzzyMaxRatio > 1 {
		return fmt.Errorf("resolver.fuzzy_max_ratio must be between 0.0 and 1.0, got: %f", config.Resolver.FuzzyMaxRatio)
	}

	// Validate pipeline settings
	if config.Pipeline.MemoSize < 0 {
		return fmt.Errorf("pipeline.memo_size cannot be negative, got: %d", config.Pipeline.MemoSize)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	runes := []rune(c.CSV.Delimiter)
	if len(runes) == 0 {
		return ','
	}
	return runes[0]
}
