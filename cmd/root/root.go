// Package root contains the root command for the application
package root

import (
	"fmt"

	"jovanny3/tradeflow/internal/config"
	"jovanny3/tradeflow/internal/container"
	"jovanny3/tradeflow/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Config string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded by PersistentPreRunE
	AppConfig *config.Config

	// AppContainer is the dependency container built from AppConfig
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "tradeflow",
		Short: "A CLI tool to summarize monthly external-trade records.",
		Long: `tradeflow normalizes monthly external-trade records, resolves partner names
to ISO-3166 alpha-3 codes and trade blocs, converts values between the local
and the reference currency, and reports aggregate views, KPIs and insights.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to tradeflow!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initializeApp,
		SilenceUsage:      true,
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Configuration overrides
	LogLevel     string
	LogFormat    string
	CSVDelimiter string
)

// initializeApp loads .env, configuration and command-line overrides, then
// builds the container every subcommand uses.
func initializeApp(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadEnv(); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.InitializeConfigFromFile(SharedFlags.Config)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = LogFormat
	}
	if flags.Changed("csv-delimiter") {
		cfg.CSV.Delimiter = CSVDelimiter
	}
}

// GetContainer returns the application container, or an error when the
// root command has not initialized it.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application container is not initialized")
	}
	return AppContainer, nil
}

// GetConfig returns the loaded configuration, or nil before initialization.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogger returns the container's logger when available, else Log.
func GetLogger() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return Log
}

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (stdout when empty)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Config, "config", "", "Config file (default searches $HOME/.tradeflow, .tradeflow and .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Log format (text, json)")
	Cmd.PersistentFlags().StringVar(&CSVDelimiter, "csv-delimiter", "", "CSV delimiter for input and output")
}
