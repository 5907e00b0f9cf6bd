package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultValues checks the built-in defaults with no config files.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "inspirehub", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, DefaultStoragePath, cfg.Storage.Path)
	assert.Equal(t, DefaultGeminiModel, cfg.Gemini.Model)
	assert.Equal(t, 1, cfg.Gemini.MaxAttempts)
	assert.Equal(t, 40*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.True(t, cfg.MotivationEnabled())

	require.NoError(t, cfg.Validate())
}

// TestLoad_EnvVarOverrides checks double-underscore nesting, which keeps
// underscores inside key names intact.
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER__PORT", "9090")
	t.Setenv("APP_SERVER__READ_TIMEOUT", "7s")
	t.Setenv("APP_LOG__LEVEL", "warn")
	t.Setenv("APP_STORAGE__DRIVER", "memory")
	t.Setenv("APP_FEATURES__MOTIVATION", "false")
	t.Setenv("APP_TELEMETRY__ENABLED", "true")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.False(t, cfg.MotivationEnabled())
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestConfig_GeminiClient(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	got := cfg.GeminiClient()

	assert.Equal(t, cfg.Gemini.Timeout, got.Timeout, "an attempt may use the whole AI deadline")
	assert.Equal(t, cfg.Gemini.MaxAttempts, got.Retry.MaxAttempts)
	assert.Equal(t, cfg.Client.Retry.InitialInterval, got.Retry.InitialInterval)
	assert.Equal(t, cfg.Client.CircuitBreaker, got.CircuitBreaker)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout, "the shared section is left alone")
	assert.Equal(t, 3, cfg.Client.Retry.MaxAttempts)
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-gemini-env")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "from-gemini-env", cfg.Gemini.APIKey)

	t.Setenv("APP_GEMINI__API_KEY", "from-app-env")

	cfg, err = LoadFrom(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "from-app-env", cfg.Gemini.APIKey)
}

func TestLoad_ProfileLayering(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(`
app:
  environment: dev
server:
  port: 8081
log:
  format: text
`), 0o600))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.yaml"), []byte(`
server:
  port: 8082
storage:
  driver: memory
`), 0o600))

	cfg, err := LoadFrom(dir, "local")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Environment)
	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "memory", cfg.Storage.Driver)

	t.Run("missing profile falls back", func(t *testing.T) {
		cfg, err := LoadFrom(dir, "nonexistent")
		require.NoError(t, err)
		assert.Equal(t, 8081, cfg.Server.Port)
	})
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadFrom(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.read_timeout", envKey("APP_SERVER__READ_TIMEOUT"))
	assert.Equal(t, "gemini.api_key", envKey("APP_GEMINI__API_KEY"))
	assert.Equal(t, "client.circuit_breaker.max_failures", envKey("APP_CLIENT__CIRCUIT_BREAKER__MAX_FAILURES"))
}
