package main

import (
	"fmt"
	"os"
	"strings"

	"jovanny3/tradeflow/cmd/demo"
	"jovanny3/tradeflow/cmd/resolve"
	"jovanny3/tradeflow/cmd/root"
	"jovanny3/tradeflow/cmd/summarize"
	"jovanny3/tradeflow/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// Load .env silently before anything logs
	_, _ = config.LoadEnv()

	// Global logrus level applies until the container replaces the logger
	logrus.SetLevel(logLevelFromEnv())

	root.Init()

	root.Cmd.AddCommand(summarize.Cmd)
	root.Cmd.AddCommand(resolve.Cmd)
	root.Cmd.AddCommand(demo.Cmd)
}

// logLevelFromEnv reads TRADEFLOW_LOG_LEVEL, then LOG_LEVEL, defaulting to info.
func logLevelFromEnv() logrus.Level {
	raw := config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", config.GetEnv("LOG_LEVEL", "info"))
	level, err := logrus.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
