package logging

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter_ParsesLevelAndFormat(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{"lowercase", "debug", "text", logrus.DebugLevel, false},
		{"uppercase level", "WARN", "text", logrus.WarnLevel, false},
		{"mixed case json", "Error", "JSON", logrus.ErrorLevel, true},
		{"unknown level falls back to info", "loud", "json", logrus.InfoLevel, true},
		{"unknown format is text", "info", "xml", logrus.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, ok := NewLogrusAdapter(tt.level, tt.format).(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.wantLevel, adapter.logger.GetLevel())

			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

func TestNewLogrusAdapterFromLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	logger := NewLogrusAdapterFromLogger(base).
		WithField(FieldRunID, "run-1").
		WithError(errors.New("no rate"))
	logger.Warn("Stage completed", Field{Key: FieldStage, Value: "convert"}, Field{Key: FieldCount, Value: 4})

	out := buf.String()
	assert.Contains(t, out, `"run_id":"run-1"`)
	assert.Contains(t, out, `"stage":"convert"`)
	assert.Contains(t, out, `"count":4`)
	assert.Contains(t, out, `"error":"no rate"`)

	assert.NotNil(t, NewLogrusAdapterFromLogger(nil))
}

func TestFieldConstants(t *testing.T) {
	assert.Equal(t, "file_path", FieldFile)
	assert.Equal(t, "count", FieldCount)
	assert.Equal(t, "input_file", FieldInputFile)
	assert.Equal(t, "output_file", FieldOutputFile)
	assert.Equal(t, "stage", FieldStage)
	assert.Equal(t, "run_id", FieldRunID)
	assert.Equal(t, "strategy", FieldStrategy)
	assert.Equal(t, "country_code", FieldCountryCode)
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	require.NotNil(t, logger)

	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, io.Discard, adapter.logger.Out)
	assert.NotPanics(t, func() {
		logger.WithField(FieldStage, "normalize").Info("dropped rows")
	})
}

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	mock := NewMockLogger()

	mock.WithField(FieldStage, "convert").WithError(errors.New("no rate")).Warn("fallback rate used")
	mock.Info("done", Field{Key: FieldCount, Value: 3})

	require.Len(t, mock.GetEntries(), 2)
	assert.True(t, mock.HasEntry("WARN", "fallback rate used"))
	assert.Len(t, mock.GetEntriesByLevel("INFO"), 1)

	stage, ok := mock.FieldValue("fallback rate used", FieldStage)
	require.True(t, ok)
	assert.Equal(t, "convert", stage)

	warn := mock.GetEntriesByLevel("WARN")[0]
	assert.EqualError(t, warn.Error, "no rate")
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
}
