package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info", Pretty: true}) })

	Info().Str("teacher_id", "t-1").Msg("payment generated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "t-1", entry["teacher_id"])
	assert.Equal(t, "payment generated", entry["message"])
}

func TestConfigureFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info", Pretty: true}) })

	Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	With("jobs").Warn().Msg("shown")
	assert.Contains(t, buf.String(), `"component":"jobs"`)
}

func TestReportLogsExtras(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info", Pretty: true}) })

	Report(assert.AnError, "monthly payment job failed", map[string]interface{}{"month": "2026-09"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "2026-09", entry["month"])
	assert.Equal(t, assert.AnError.Error(), entry["error"])
}
