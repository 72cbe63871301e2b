package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.port)
	assert.Equal(t, "extended", cfg.profile)
	assert.Equal(t, "sqlite3", cfg.db.driver)
	assert.Equal(t, "movies.db", cfg.db.dsn)
	assert.Equal(t, 15*time.Minute, cfg.db.maxIdleTime)
	assert.True(t, cfg.limiter.enabled)
}

func TestParseFlagsRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"profile", []string{"-profile", "full"}, "-profile must be basic or extended"},
		{"driver", []string{"-db-driver", "mysql"}, "-db-driver must be sqlite3 or postgres"},
		{"port", []string{"-port", "0"}, "-port must be between 1 and 65535"},
		{"limiter", []string{"-limiter-rps", "0"}, "-limiter-rps must be greater than zero"},
		{"log format", []string{"-log-format", "xml"}, "-log-format must be text or json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLoggerWritesToRotatingFile(t *testing.T) {
	cfg, err := parseFlags([]string{"-log-format", "json", "-log-file", filepath.Join(t.TempDir(), "watchlog.log")})
	require.NoError(t, err)

	var stdout bytes.Buffer
	logger, closeLog := newLogger(cfg, &stdout)
	logger.Info("hello", "movie", "Dune")
	closeLog()

	assert.Contains(t, stdout.String(), `"msg":"hello"`)

	written, err := os.ReadFile(cfg.log.file)
	require.NoError(t, err)
	assert.Contains(t, string(written), `"movie":"Dune"`)
	assert.Contains(t, string(written), `"version":"1.0.0"`)
}

func TestNewLoggerLevel(t *testing.T) {
	cfg, err := parseFlags([]string{"-log-level", "warn"})
	require.NoError(t, err)

	var stdout bytes.Buffer
	logger, closeLog := newLogger(cfg, &stdout)
	defer closeLog()

	logger.Info("quiet")
	logger.Warn("loud")
	assert.NotContains(t, stdout.String(), "quiet")
	assert.Contains(t, stdout.String(), "loud")
}
