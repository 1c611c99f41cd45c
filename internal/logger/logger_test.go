package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		checkFunc func(t *testing.T, log *slog.Logger, output *bytes.Buffer)
	}{
		{
			name:   "json format with debug level",
			config: Config{Level: "debug", Format: "json"},
			checkFunc: func(t *testing.T, log *slog.Logger, output *bytes.Buffer) {
				log.Debug("Deduplicated records", slog.Int("removed", 3))

				var entry map[string]any
				require.NoError(t, json.Unmarshal(output.Bytes(), &entry))
				assert.Equal(t, "DEBUG", entry["level"])
				assert.Equal(t, "Deduplicated records", entry["msg"])
				assert.Equal(t, float64(3), entry["removed"])
			},
		},
		{
			name:   "json format filters below level",
			config: Config{Level: "warn", Format: "json"},
			checkFunc: func(t *testing.T, log *slog.Logger, output *bytes.Buffer) {
				log.Info("hidden")
				log.Warn("Batch insert failed", slog.String("table", "jobs"))

				lines := strings.Split(strings.TrimSpace(output.String()), "\n")
				assert.Len(t, lines, 1)
				assert.Contains(t, lines[0], "Batch insert failed")
			},
		},
		{
			name:   "console format",
			config: Config{Level: "info", Format: "console"},
			checkFunc: func(t *testing.T, log *slog.Logger, output *bytes.Buffer) {
				log.Info("Message posted", slog.String("agent", "Guardian"))

				out := output.String()
				assert.Contains(t, out, "INF")
				assert.Contains(t, out, "Message posted")
				assert.Contains(t, out, "agent=Guardian")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &bytes.Buffer{}
			cfg := tt.config
			cfg.writer = output

			log, closer, err := New(cfg)
			require.NoError(t, err)
			require.NotNil(t, log)
			defer closer.Close()

			tt.checkFunc(t, log, output)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jobs.log")

	log, closer, err := New(Config{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	log.Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{level: "debug", expected: slog.LevelDebug},
		{level: "info", expected: slog.LevelInfo},
		{level: "warn", expected: slog.LevelWarn},
		{level: "warning", expected: slog.LevelWarn},
		{level: "error", expected: slog.LevelError},
		{level: "", expected: slog.LevelInfo},
		{level: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	require.NotNil(t, log)
	log.Error("dropped")
}
