package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, uint16(8085), cfg.HttpServerPort)
	assert.Equal(t, 100, cfg.HistoryLimit)
	assert.Equal(t, 20, cfg.MaxNameLen)
	assert.Equal(t, 500, cfg.MaxMessageLen)
	assert.Equal(t, 3*time.Second, cfg.TypingWindow)
	assert.Equal(t, 5*time.Minute, cfg.RoomPurgeGrace)
	assert.Equal(t, 10*time.Minute, cfg.RoomSweepInterval)
	assert.Equal(t, time.Hour, cfg.RoomMaxIdle)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_SERVER_PORT", "9090")
	t.Setenv("HISTORY_LIMIT", "50")
	t.Setenv("TYPING_WINDOW", "1500ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, uint16(9090), cfg.HttpServerPort)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 1500*time.Millisecond, cfg.TypingWindow)
}

func TestLoadConfigRejectsInvalidPort(t *testing.T) {
	t.Setenv("HTTP_SERVER_PORT", "80")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsZeroHistory(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "0")

	_, err := LoadConfig()
	assert.Error(t, err)
}
