package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscalcode/internal/platform/config"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, config.Log{Level: "info", Format: "json"})
		log.Info("fiscal code generated", "municipality", "Milano")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "fiscal code generated", line["msg"])
		assert.Equal(t, "Milano", line["municipality"])
	})

	t.Run("text format filters below level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, config.Log{Level: "warn", Format: "text"})
		log.Info("hidden")
		log.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
