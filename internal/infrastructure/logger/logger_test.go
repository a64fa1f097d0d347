package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("builds a logger from the default config", func(t *testing.T) {
		l, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("accepts json format and debug level", func(t *testing.T) {
		l, err := New(&Config{
			Level:      "debug",
			Format:     "json",
			Output:     "stdout",
			TimeFormat: "2006-01-02T15:04:05Z07:00",
		})
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("rejects a nil config", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})
}

func TestConfigZapLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			cfg := Config{Level: tt.level}
			assert.Equal(t, tt.want, cfg.zapLevel())
		})
	}
}

func TestConfigSink(t *testing.T) {
	t.Run("resolves the standard streams case-insensitively", func(t *testing.T) {
		for _, out := range []string{"stdout", "STDOUT", "stderr", ""} {
			cfg := Config{Output: out}
			assert.NotNil(t, cfg.sink())
		}
	})

	t.Run("opens a file sink", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		cfg := Config{Output: path}
		assert.NotNil(t, cfg.sink())

		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("falls back to stdout when the file cannot be opened", func(t *testing.T) {
		cfg := Config{Output: filepath.Join(t.TempDir(), "missing-dir", "app.log")}
		assert.NotNil(t, cfg.sink())
	})
}

func TestConfigEncoder(t *testing.T) {
	jsonCfg := Config{Format: "json", TimeFormat: "2006-01-02"}
	consoleCfg := Config{Format: "console", TimeFormat: "2006-01-02"}

	assert.NotNil(t, jsonCfg.encoder())
	assert.NotNil(t, consoleCfg.encoder())
}

func TestJSONOutputShape(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: "info", Format: "json", TimeFormat: "2006-01-02T15:04:05Z07:00"}
	core := zapcore.NewCore(cfg.encoder(), zapcore.AddSync(&buf), cfg.zapLevel())
	l := zap.New(core)

	l.Info("stock adjusted", zap.String("sku", "W-01"))
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stock adjusted", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "W-01", entry["sku"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: "warn", Format: "json", TimeFormat: "2006-01-02"}
	core := zapcore.NewCore(cfg.encoder(), zapcore.AddSync(&buf), cfg.zapLevel())
	l := zap.New(core)

	l.Info("below threshold")
	assert.Empty(t, buf.String())

	l.Warn("at threshold")
	assert.Contains(t, buf.String(), "at threshold")
}

func TestSync(t *testing.T) {
	l, err := New(DefaultConfig())
	require.NoError(t, err)

	// stdout may not support fsync; just check it does not panic.
	_ = Sync(l)
}
