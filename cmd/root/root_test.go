package root_test

import (
	"os"
	"testing"

	"jovanny3/tradeflow/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "tradeflow", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "external-trade records")
	assert.Contains(t, root.Cmd.Long, "ISO-3166 alpha-3")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"config", ""},
		{"log-level", ""},
		{"log-format", ""},
		{"csv-delimiter", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestGetContainer_BeforeInitialization(t *testing.T) {
	original := root.AppContainer
	t.Cleanup(func() { root.AppContainer = original })

	root.AppContainer = nil
	_, err := root.GetContainer()
	assert.Error(t, err)
	assert.NotNil(t, root.GetLogger())
}

func TestPersistentPreRunE_BuildsContainer(t *testing.T) {
	originalConfig, originalContainer, originalLog := root.AppConfig, root.AppContainer, root.Log
	originalFlags, originalLevel := root.SharedFlags, root.LogLevel
	t.Cleanup(func() {
		root.AppConfig, root.AppContainer, root.Log = originalConfig, originalContainer, originalLog
		root.SharedFlags, root.LogLevel = originalFlags, originalLevel
	})

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&root.LogLevel, "log-level", "", "")
	require.NoError(t, cmd.Flags().Set("log-level", "warn"))
	root.SharedFlags.Config = ""

	require.NoError(t, root.Cmd.PersistentPreRunE(cmd, nil))

	c, err := root.GetContainer()
	require.NoError(t, err)
	assert.NotNil(t, c.GetPipeline())
	assert.Equal(t, "warn", root.GetConfig().Log.Level)
}

func TestPersistentPreRunE_InvalidOverride(t *testing.T) {
	originalLevel := root.LogLevel
	t.Cleanup(func() { root.LogLevel = originalLevel })

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&root.LogLevel, "log-level", "", "")
	require.NoError(t, cmd.Flags().Set("log-level", "loud"))

	err = root.Cmd.PersistentPreRunE(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestPersistentPreRunE_MissingConfigFile(t *testing.T) {
	originalFlags := root.SharedFlags
	t.Cleanup(func() { root.SharedFlags = originalFlags })

	root.SharedFlags.Config = "/nonexistent/tradeflow.yaml"
	err := root.Cmd.PersistentPreRunE(&cobra.Command{}, nil)
	assert.Error(t, err)
}
