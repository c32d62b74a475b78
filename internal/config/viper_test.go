package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearTestEnvVars isolates a test from the caller's environment and from
// any config.yaml in the working directory or home directory.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "LOG_FORMAT",
		"TRADEFLOW_LOG_LEVEL", "TRADEFLOW_LOG_FORMAT", "TRADEFLOW_CSV_DELIMITER",
		"TRADEFLOW_REPORT_YEAR", "TRADEFLOW_REPORT_LOCAL_CURRENCY", "TRADEFLOW_REPORT_REFERENCE_CURRENCY",
		"TRADEFLOW_REPORT_LOCAL_VALUE_COLUMN", "TRADEFLOW_ANALYSIS_TOP_N", "TRADEFLOW_ANALYSIS_PARETO_THRESHOLD",
		"TRADEFLOW_RESOLVER_CACHE_SIZE", "TRADEFLOW_RESOLVER_FUZZY_MAX_RATIO",
		"TRADEFLOW_REFERENCE_EXCEPTIONS_FILE", "TRADEFLOW_REFERENCE_COUNTRIES_FILE", "TRADEFLOW_REFERENCE_BLOCS_FILE",
		"TRADEFLOW_PIPELINE_MEMO_SIZE",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, 2022, config.Report.Year)
	assert.Equal(t, "AOA", config.Report.LocalCurrency)
	assert.Equal(t, "USD", config.Report.ReferenceCurrency)
	assert.Equal(t, "value_aoa", config.Report.LocalValueColumn)
	assert.Equal(t, 10, config.Analysis.TopN)
	assert.Equal(t, 80.0, config.Analysis.ParetoThreshold)
	assert.Equal(t, 1024, config.Resolver.CacheSize)
	assert.Equal(t, 0.34, config.Resolver.FuzzyMaxRatio)
	assert.Empty(t, config.Reference.ExceptionsFile)
	assert.Empty(t, config.Reference.CountriesFile)
	assert.Empty(t, config.Reference.BlocsFile)
	assert.Equal(t, 16, config.Pipeline.MemoSize)
	assert.Equal(t, ',', config.Delimiter())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	testEnvVars := map[string]string{
		"TRADEFLOW_LOG_LEVEL":           "debug",
		"TRADEFLOW_LOG_FORMAT":          "json",
		"TRADEFLOW_CSV_DELIMITER":       ";",
		"TRADEFLOW_REPORT_YEAR":         "2023",
		"TRADEFLOW_ANALYSIS_TOP_N":      "5",
		"TRADEFLOW_RESOLVER_CACHE_SIZE": "-1",
		"TRADEFLOW_PIPELINE_MEMO_SIZE":  "0",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ';', config.Delimiter())
	assert.Equal(t, 2023, config.Report.Year)
	assert.Equal(t, 5, config.Analysis.TopN)
	assert.Equal(t, -1, config.Resolver.CacheSize)
	assert.Equal(t, 0, config.Pipeline.MemoSize)
}

func TestInitializeConfig_UnprefixedLogVariables(t *testing.T) {
	clearTestEnvVars(t)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	dir, err := os.Getwd()
	require.NoError(t, err)
	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
report:
  year: 2021
  local_currency: "aoa"
analysis:
  pareto_threshold: 70
reference:
  exceptions_file: "my-exceptions.yaml"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 2021, config.Report.Year)
	assert.Equal(t, "AOA", config.Report.LocalCurrency)
	assert.Equal(t, 70.0, config.Analysis.ParetoThreshold)
	assert.Equal(t, "my-exceptions.yaml", config.Reference.ExceptionsFile)
}

func TestInitializeConfig_EnvironmentOverridesFile(t *testing.T) {
	clearTestEnvVars(t)

	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("analysis:\n  top_n: 3\n"), 0600))
	t.Setenv("TRADEFLOW_ANALYSIS_TOP_N", "7")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, config.Analysis.TopN)
}

func TestInitializeConfigFromFile(t *testing.T) {
	clearTestEnvVars(t)

	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("pipeline:\n  memo_size: 2\n"), 0600))

	config, err := InitializeConfigFromFile(file)
	require.NoError(t, err)
	assert.Equal(t, 2, config.Pipeline.MemoSize)

	_, err = InitializeConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"long delimiter", func(c *Config) { c.CSV.Delimiter = ";;" }, "single character"},
		{"empty delimiter", func(c *Config) { c.CSV.Delimiter = "" }, "single character"},
		{"year", func(c *Config) { c.Report.Year = 20 }, "report.year"},
		{"local currency", func(c *Config) { c.Report.LocalCurrency = "KWANZA" }, "report.local_currency"},
		{"reference currency", func(c *Config) { c.Report.ReferenceCurrency = "U$" }, "report.reference_currency"},
		{"same currencies", func(c *Config) { c.Report.ReferenceCurrency = "aoa" }, "must differ"},
		{"value column", func(c *Config) { c.Report.LocalValueColumn = " " }, "local_value_column"},
		{"top n", func(c *Config) { c.Analysis.TopN = 0 }, "analysis.top_n"},
		{"pareto high", func(c *Config) { c.Analysis.ParetoThreshold = 120 }, "analysis.pareto_threshold"},
		{"pareto zero", func(c *Config) { c.Analysis.ParetoThreshold = 0 }, "analysis.pareto_threshold"},
		{"cache size", func(c *Config) { c.Resolver.CacheSize = -5 }, "resolver.cache_size"},
		{"fuzzy ratio", func(c *Config) { c.Resolver.FuzzyMaxRatio = 1.5 }, "resolver.fuzzy_max_ratio"},
		{"memo size", func(c *Config) { c.Pipeline.MemoSize = -1 }, "pipeline.memo_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)
			err := validateConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.CSV.Delimiter = ","
	c.Report.Year = 2022
	c.Report.LocalCurrency = "AOA"
	c.Report.ReferenceCurrency = "USD"
	c.Report.LocalValueColumn = "value_aoa"
	c.Analysis.TopN = 10
	c.Analysis.ParetoThreshold = 80
	c.Resolver.CacheSize = 1024
	c.Resolver.FuzzyMaxRatio = 0.34
	c.Pipeline.MemoSize = 16
	return c
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := validConfig()
	config.Log.Level = "debug"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.DebugLevel, logger.Level)
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	config.Log.Level = "nope"
	config.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.InfoLevel, logger.Level)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestLoadEnv(t *testing.T) {
	clearTestEnvVars(t)
	dir, err := os.Getwd()
	require.NoError(t, err)

	file, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, file)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRADEFLOW_TEST_VALUE=from-dotenv\n"), 0600))
	t.Setenv("TRADEFLOW_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("TRADEFLOW_TEST_VALUE"))

	file, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", file)
	assert.Equal(t, "from-dotenv", GetEnv("TRADEFLOW_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("TRADEFLOW_TEST_MISSING", "fallback"))
}
