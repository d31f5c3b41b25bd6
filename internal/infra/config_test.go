package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "logger:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, SnapshotSourceNone, cfg.Snapshot.Source)
	assert.Equal(t, RedisKeySnapshot, cfg.Snapshot.RedisKey)
	assert.Equal(t, RedisChanSnapshotUpdated, cfg.Snapshot.Channel)
	assert.Equal(t, 100, cfg.Journal.BatchSize)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "operator", cfg.Auth.Operator.Username)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
redis:
  addr: localhost:6379
snapshot:
  source: redis
journal:
  flush_interval: 2s
`)
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, ":9100", cfg.Server.Addr())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Second, cfg.Journal.FlushInterval)
}

func TestLoadConfig_KeyFromEnv(t *testing.T) {
	t.Setenv("AUTH_PUBLIC_KEY_DATA", "-----BEGIN PUBLIC KEY-----")
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("-----BEGIN PUBLIC KEY-----"), cfg.Auth.PublicKey)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown source":       "snapshot:\n  source: s3\n",
		"file without path":    "snapshot:\n  source: file\n",
		"redis without addr":   "snapshot:\n  source: redis\n",
		"postgres without url": "snapshot:\n  source: postgres\n",
		"zero flush interval":  "journal:\n  flush_interval: 0s\n",
		"negative flush":       "journal:\n  flush_interval: -1s\n",
		"zero batch size":      "journal:\n  batch_size: 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1)) // debug выключен

	_, err = NewLogger(LoggerConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestGetWarmupLockKey(t *testing.T) {
	assert.Equal(t, "truverse:lock:warmup:snapshot", GetWarmupLockKey("snapshot"))
	assert.Equal(t, RedisKeyLockWarmupSnapshot, GetWarmupLockKey("snapshot"))
}
