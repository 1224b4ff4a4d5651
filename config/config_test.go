package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portal.yaml"), []byte(body), 0o600))
	return dir
}

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := ReadConfig("does-not-exist", t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8000", cfg.Api.BaseURL)
	require.Equal(t, 30*time.Second, cfg.Api.Timeout)
	require.Equal(t, int64(8080), cfg.Server.Port)
	require.Equal(t, 100, cfg.Viewer.PageSize)
	require.Equal(t, "1/2/2006, 3:04:05 PM", cfg.Viewer.DateLayout)
	require.False(t, cfg.RedisEnabled())
	require.False(t, cfg.DatadogEnabled())
}

func TestReadConfigFile(t *testing.T) {
	dir := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
  session_ttl: 30m
api:
  base_url: https://reviews.example.com
  timeout: 5s
viewer:
  page_size: 20
  timezone: UTC
redis:
  host: localhost
  port: "6380"
datadog:
  host: localhost
log:
  level: debug
`)

	cfg, err := ReadConfig("portal", dir)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.ListenAddr())
	require.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	require.Equal(t, "https://reviews.example.com", cfg.Api.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Api.Timeout)
	require.Equal(t, 20, cfg.Viewer.PageSize)
	require.Equal(t, "6380", cfg.Redis.Port)
	require.True(t, cfg.RedisEnabled())
	require.True(t, cfg.DatadogEnabled())
	require.Equal(t, "debug", cfg.Log.Level)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:8000")
	t.Setenv("VIEWER_PAGE_SIZE", "7")

	cfg, err := ReadConfig("does-not-exist", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "http://backend:8000", cfg.Api.BaseURL)
	require.Equal(t, 7, cfg.Viewer.PageSize)
}

func TestReadConfigInvalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "relative base url", body: "api:\n  base_url: /api\n"},
		{name: "bad port", body: "server:\n  port: 70000\n"},
		{name: "unknown timezone", body: "viewer:\n  timezone: Mars/Olympus\n"},
		{name: "short csrf key", body: "server:\n  csrf_key: tooshort\n"},
		{name: "broken yaml", body: "server: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadConfig("portal", writeConfig(t, tc.body))
			require.Error(t, err)
		})
	}
}
