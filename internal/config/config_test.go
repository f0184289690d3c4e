package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskcrafter/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	unset(t, "SERVER_PORT", "CLIENT_URL", "STORAGE_DRIVER", "SQLITE_PATH", "RELAY_PORT", "WS_PORT",
		"RELAY_URL", "RELAY_MAX_RETRIES", "RELAY_RETRY_DELAY", "MERGE_POLICY", "CYCLE_CHECK")

	cfg := config.Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, "3001", cfg.RelayPort)
	assert.Equal(t, "ws://localhost:3001/ws", cfg.RelayURL)
	assert.Equal(t, 5, cfg.RelayMaxRetries)
	assert.Equal(t, time.Second, cfg.RelayRetryDelay)
	assert.Equal(t, "none", cfg.MergePolicy)
	assert.False(t, cfg.CycleCheck)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WS_PORT", "4001")
	unset(t, "RELAY_PORT")
	t.Setenv("RELAY_MAX_RETRIES", "9")
	t.Setenv("RELAY_RETRY_DELAY", "250ms")
	t.Setenv("MERGE_POLICY", "lww")
	t.Setenv("CYCLE_CHECK", "true")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg := config.Load()

	assert.Equal(t, "4001", cfg.RelayPort, "WS_PORT is honoured when RELAY_PORT is unset")
	assert.Equal(t, 9, cfg.RelayMaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RelayRetryDelay)
	assert.Equal(t, "lww", cfg.MergePolicy)
	assert.True(t, cfg.CycleCheck)
	assert.Equal(t, "memory", cfg.StorageDriver)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RELAY_MAX_RETRIES", "many")
	t.Setenv("RELAY_RETRY_DELAY", "soon")
	t.Setenv("CYCLE_CHECK", "maybe")

	cfg := config.Load()

	assert.Equal(t, 5, cfg.RelayMaxRetries)
	assert.Equal(t, time.Second, cfg.RelayRetryDelay)
	assert.False(t, cfg.CycleCheck)
}

// unset removes keys for the duration of the test; t.Setenv restores them afterwards.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
