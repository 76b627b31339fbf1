package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/dashboard/commands"
	"github.com/goliatone/go-admin-hub/components/theme"
)

var (
	_ dashboard.Telemetry = (*Recorder)(nil)
	_ commands.Telemetry  = (*Recorder)(nil)
	_ theme.Telemetry     = (*Recorder)(nil)
)

func TestRecorderWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Options{Level: "info", Writer: &buf})
	require.NoError(t, err)

	NewRecorder(logger).Record(context.Background(), "dashboard.theme.set", map[string]any{
		"preset":   "brutalist",
		"previous": "default",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "dashboard.theme.set", entry["event"])
	assert.Equal(t, "brutalist", entry["preset"])
	assert.Equal(t, "default", entry["previous"])
}

func TestRecorderLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Options{Level: "info", Writer: &buf})
	require.NoError(t, err)
	rec := NewRecorder(logger)

	rec.Record(context.Background(), "dashboard.layout.resolve", nil)
	assert.Zero(t, buf.Len(), "debug events are filtered at info level")

	rec.Record(context.Background(), "dashboard.theme.set_failed", map[string]any{"error": "disk full"})
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestNewLoggerConsoleAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Options{Format: "console", Writer: &buf})
	require.NoError(t, err)
	logger.Info().Msg("hello")
	assert.True(t, strings.Contains(buf.String(), "hello"))

	_, err = NewLogger(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() { rec.Record(context.Background(), "evt", nil) })
}
