package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/ende/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.Default()
		NewLogger(cfg, &buf, false).Info("hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.NotContains(t, record, "source")
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewLogger(config.Default(), &buf, true).Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.Default()
		cfg.LogLevel = config.LogLevelWarn
		logger := NewLogger(cfg, &buf, true)
		logger.Info("quiet")
		assert.Empty(t, buf.String())
		logger.Warn("loud")
		assert.Contains(t, buf.String(), "msg=loud")
	})

	t.Run("dev mode adds source", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.Default()
		cfg.DevMode = true
		NewLogger(cfg, &buf, true).Info("hello")
		assert.Contains(t, buf.String(), "source=")
	})
}
