package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/vantage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vantage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "vantage:", cfg.Redis.Prefix)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `schema_version: v1
log_level: debug
output: json
scene: robot.yaml
redis:
  addr: localhost:6379
  db: 2
http:
  addr: ":9000"
  read_timeout: 2s
`)
	t.Setenv("VANTAGE__REDIS__PREFIX", "test:")
	t.Setenv("VANTAGE__OUTPUT", "markdown")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "markdown", cfg.Output, "env overrides the file")
	assert.Equal(t, "robot.yaml", cfg.Scene)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "test:", cfg.Redis.Prefix)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ReadTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"schema", "schema_version: v2\n"},
		{"output", "output: html\n"},
		{"log level", "log_level: loud\n"},
		{"redis db", "redis:\n  db: 99\n"},
		{"redis addr", "redis:\n  addr: not an address\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
