package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADVISOR_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 0.02, cfg.DiscountRate)
	assert.Equal(t, 4, cfg.CompareWorkers)
	assert.Equal(t, 20, cfg.UpstreamTimeout)
	assert.Equal(t, HistoryBackendMemory, cfg.HistoryBackend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADVISOR_DATA_DIR", t.TempDir())
	t.Setenv("ADVISOR_PORT", "9090")
	t.Setenv("ADVISOR_DISCOUNT_RATE", "0.03")
	t.Setenv("ADVISOR_COMPARE_WORKERS", "8")
	t.Setenv("ADVISOR_HISTORY_BACKEND", "sqlite")
	t.Setenv("ADVISOR_SIMULATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 0.03, cfg.DiscountRate)
	assert.Equal(t, 8, cfg.CompareWorkers)
	assert.Equal(t, HistoryBackendSQLite, cfg.HistoryBackend)
	assert.True(t, cfg.Simulate)
}

func TestSimulationImpliedByMissingKeys(t *testing.T) {
	cfg := &Config{GeminiAPIKey: "", FirecrawlAPIKey: ""}
	assert.True(t, cfg.SimulateReasoning())
	assert.True(t, cfg.SimulateResearch())

	cfg = &Config{GeminiAPIKey: "key", FirecrawlAPIKey: "key"}
	assert.False(t, cfg.SimulateReasoning())
	assert.False(t, cfg.SimulateResearch())

	cfg = &Config{GeminiAPIKey: "key", FirecrawlAPIKey: "key", Simulate: true}
	assert.True(t, cfg.SimulateReasoning())
	assert.True(t, cfg.SimulateResearch())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"negative workers", func(c *Config) { c.CompareWorkers = -1 }},
		{"zero timeout", func(c *Config) { c.UpstreamTimeout = 0 }},
		{"unknown backend", func(c *Config) { c.HistoryBackend = "redis" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:            8080,
				CompareWorkers:  4,
				UpstreamTimeout: 20,
				HistoryBackend:  HistoryBackendMemory,
			}
			tt.mod(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
