package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CHRONICLE_CONFIG_PATH",
		"CHRONICLE_SERVER_HOST",
		"CHRONICLE_SERVER_PORT",
		"CHRONICLE_TRANSPORT_MODE",
		"CHRONICLE_DB_PATH",
		"CHRONICLE_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "chronicle.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 3, cfg.Locator.MaxWalkDepth)
	require.Equal(t, "ignore", cfg.Snapshots.DuplicatePolicy)
	require.True(t, cfg.Registry.Watch)
	require.Equal(t, 30*time.Second, cfg.Registry.WatchInterval)
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 0.0.0.0
  port: 9090
transport:
  mode: http
locator:
  max_walk_depth: 5
snapshots:
  duplicate_policy: fail
registry:
  ttl: 720h
  watch: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CHRONICLE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 5, cfg.Locator.MaxWalkDepth)
	require.Equal(t, "fail", cfg.Snapshots.DuplicatePolicy)
	require.Equal(t, 720*time.Hour, cfg.Registry.TTL)
	require.False(t, cfg.Registry.Watch)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))
	t.Setenv("CHRONICLE_CONFIG_PATH", path)
	t.Setenv("CHRONICLE_SERVER_PORT", "7070")
	t.Setenv("CHRONICLE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHRONICLE_SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHRONICLE_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad transport mode", func(c *Config) { c.Transport.Mode = "grpc" }, true},
		{"empty db path", func(c *Config) { c.DB.Path = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"negative walk depth", func(c *Config) { c.Locator.MaxWalkDepth = -1 }, true},
		{"bad duplicate policy", func(c *Config) { c.Snapshots.DuplicatePolicy = "overwrite" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load()
			require.NoError(t, err)
			tc.mutate(&cfg)
			err = cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
