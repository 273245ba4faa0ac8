package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/personnel-engine/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, 8, cfg.Report.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	// GIVEN: A config file and an environment override
	path := writeConfig(t, `
server:
  port: 9090
db:
  driver: memory
policy:
  files: [policies/2024.toml]
  holiday_feeds:
    - facility: f1
      path: holidays/f1.ics
scheduler:
  interval: 15m
log:
  format: console
`)
	t.Setenv("PENGINE_LOG_LEVEL", "debug")

	// WHEN: Loading
	cfg, err := config.Load(path)

	// THEN: The environment wins over the file, the file over defaults
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, []string{"policies/2024.toml"}, cfg.Policy.Files)
	require.Len(t, cfg.Policy.HolidayFeeds, 1)
	assert.Equal(t, "f1", cfg.Policy.HolidayFeeds[0].Facility)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)

	logger, err := config.NewLogger(cfg.Log)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port out of range", "server:\n  port: 70000\n"},
		{"unknown driver", "db:\n  driver: oracle\n"},
		{"sqlite without path", "db:\n  path: \"\"\n"},
		{"feed without path", "policy:\n  holiday_feeds:\n    - facility: f1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := config.NewLogger(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
