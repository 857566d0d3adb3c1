package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
service:
  name: bot-test
  admin_addr: ":9090"
upbit:
  access_key: file-access
  secret_key: file-secret
  http_timeout: 5s
  retry:
    max_attempts: 2
    backoff: 100ms
telegram:
  chat_id: 42
runner:
  interval: 1m
  jobs:
    - market: KRW-BTC
      strategy: rsi
      params:
        oversold: 25
    - market: KRW-ETH
      strategy: grid
      params:
        spacing: 0.01
        levels: 3
sampler:
  window: 10m
  top_n: 5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "bot-test", cfg.Service.Name)
	assert.Equal(t, ":9090", cfg.Service.AdminAddr)
	assert.Equal(t, 5*time.Second, cfg.Upbit.HTTPTimeout)
	assert.Equal(t, 2, cfg.Upbit.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Upbit.Retry.Backoff)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, time.Minute, cfg.Runner.Interval)
	assert.Equal(t, 10*time.Minute, cfg.Sampler.Window)
	assert.Equal(t, 5, cfg.Sampler.TopN)

	require.Len(t, cfg.Runner.Jobs, 2)
	assert.Equal(t, "KRW-BTC", cfg.Runner.Jobs[0].Market)
	assert.Equal(t, 25.0, cfg.Runner.Jobs[0].Params.Oversold)
	assert.Equal(t, 3, cfg.Runner.Jobs[1].Params.Levels)

	// дефолты, не указанные в файле
	assert.Equal(t, "https://api.upbit.com/v1", cfg.Upbit.RESTURL)
	assert.Equal(t, "KRW-", cfg.Sampler.QuotePrefix)
	assert.True(t, cfg.Upbit.RoundToTick)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("UPBIT_ACCESS_KEY", "env-access")
	t.Setenv("UPBIT_SECRET_KEY", "env-secret")
	t.Setenv("TELEGRAM_CHAT_ID", "-100500")
	t.Setenv("SAMPLER_WINDOW", "30s")
	t.Setenv("RUNNER_INTERVAL", "0s")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-access", cfg.Upbit.AccessKey)
	assert.Equal(t, "env-secret", cfg.Upbit.SecretKey)
	assert.Equal(t, int64(-100500), cfg.Telegram.ChatID)
	assert.Equal(t, 30*time.Second, cfg.Sampler.Window)
	assert.Equal(t, time.Duration(0), cfg.Runner.Interval)
	assert.True(t, cfg.HasCredentials())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Sampler.Window)
	assert.Equal(t, 10, cfg.Sampler.TopN)
	assert.Empty(t, cfg.Runner.Jobs)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "sampler:\n  top_n: -1\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "runner:\n  jobs:\n    - strategy: rsi\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "upbit: [not, a, map]\n"))
	require.Error(t, err)
}
