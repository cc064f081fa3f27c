package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxorio/webpool/pkg/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:7878", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Pool.Size)
	assert.Equal(t, 1024, cfg.Server.ReadBufferSize)
	assert.Equal(t, 5*time.Second, cfg.Server.SleepDelay)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "webpool.yaml", `
server:
  addr: 0.0.0.0:8080
  sleep_delay: 250ms
  max_connections: 2
pool:
  size: 8
log:
  level: debug
  json: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.SleepDelay)
	assert.Equal(t, 2, cfg.Server.MaxConnections)
	assert.Equal(t, 8, cfg.Pool.Size)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	// untouched sections keep their defaults
	assert.Equal(t, "static", cfg.Server.StaticDir)
	assert.True(t, cfg.Admin.Enabled)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "webpool.json", `{"pool": {"size": 2}, "admin": {"enabled": false}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Pool.Size)
	assert.False(t, cfg.Admin.Enabled)
}

func TestLoad_JSONUnknownField(t *testing.T) {
	path := writeFile(t, "webpool.json", `{"pool": {"workers": 2}}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "webpool.toml", "x = 1"))
	assert.True(t, core.HasCode(err, core.CodeInvalidConfig), "got %v", err)

	_, err = Load(writeFile(t, "bad.yaml", "pool: [size"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "zero.yaml", "pool:\n  size: 0\n"))
	assert.True(t, core.HasCode(err, core.CodeInvalidSize), "got %v", err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAddr:     "127.0.0.1:9999",
		EnvPoolSize: "16",
		EnvLogLevel: "error",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, 16, cfg.Pool.Size)
	assert.Equal(t, "ERROR", cfg.Log.Level)

	bad := Default()
	assert.Error(t, bad.ApplyEnv(func(k string) (string, bool) {
		if k == EnvPoolSize {
			return "many", true
		}
		return "", false
	}))

	untouched := Default()
	require.NoError(t, untouched.ApplyEnv(noEnv))
	assert.Equal(t, Default(), untouched)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"negative pool", func(c *Config) { c.Pool.Size = -1 }, core.CodeInvalidSize},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, core.CodeInvalidAddress},
		{"addr without port", func(c *Config) { c.Server.Addr = "localhost" }, core.CodeInvalidAddress},
		{"zero buffer", func(c *Config) { c.Server.ReadBufferSize = 0 }, core.CodeInvalidConfig},
		{"negative max conns", func(c *Config) { c.Server.MaxConnections = -1 }, core.CodeInvalidConfig},
		{"negative sleep", func(c *Config) { c.Server.SleepDelay = -time.Second }, core.CodeInvalidTimeout},
		{"bad admin addr", func(c *Config) { c.Admin.Addr = "nope" }, core.CodeInvalidAddress},
		{"bad level", func(c *Config) { c.Log.Level = "TRACE" }, core.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !core.HasCode(err, tt.code) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.code)
			}
		})
	}

	disabled := Default()
	disabled.Admin.Enabled = false
	disabled.Admin.Addr = ""
	assert.NoError(t, disabled.Validate())
}

