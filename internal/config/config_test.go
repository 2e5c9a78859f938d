package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("STREAM_BUFFER_SIZE", "")
	t.Setenv("HOT_TEMPERATURE", "")

	cfg := Load()
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 64, cfg.StreamBufferSize)
	assert.Equal(t, 1.1, cfg.HotTemperature)
	assert.Equal(t, time.Duration(0), cfg.GenerationTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STREAM_BUFFER_SIZE", "8")
	t.Setenv("COLD_TEMPERATURE", "0.2")
	t.Setenv("GENERATION_TIMEOUT_MS", "1500")
	t.Setenv("MAX_TOKENS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 8, cfg.StreamBufferSize)
	assert.Equal(t, 0.2, cfg.ColdTemperature)
	assert.Equal(t, 1500*time.Millisecond, cfg.GenerationTimeout)
	assert.Equal(t, 1024, cfg.MaxTokens)
}
