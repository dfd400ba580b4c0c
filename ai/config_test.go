package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "embeddinggemma", cfg.Model)
	assert.Equal(t, 768, cfg.Dimension)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("https://api.openai.com"),
		WithAPIKey("sk-test"),
		WithModel("text-embedding-3-small"),
		WithDimension(1536),
		WithMaxInputTokens(2048),
		WithRequestTimeout(5*time.Second),
		WithRateLimit(2.5, 4),
	)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://api.openai.com/v1", cfg.Host, "Normalize must append /v1")
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "text-embedding-3-small", cfg.Model)
	assert.Equal(t, 1536, cfg.Dimension)
	assert.Equal(t, 2048, cfg.MaxInputTokens)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	assert.Equal(t, 4, cfg.Burst)
}

func TestConfig_NormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:11434", "http://localhost:11434/v1"},
		{"http://localhost:11434/", "http://localhost:11434/v1"},
		{"http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"", ""},
	}
	for _, tt := range tests {
		cfg := &Config{Host: tt.in}
		cfg.Normalize()
		assert.Equal(t, tt.want, cfg.Host)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty host", func(c *Config) { c.Host = "" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"zero dimension", func(c *Config) { c.Dimension = 0 }},
		{"negative max tokens", func(c *Config) { c.MaxInputTokens = -1 }},
		{"negative rate", func(c *Config) { c.RequestsPerSecond = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_ValidateDefaultsBurst(t *testing.T) {
	cfg := NewConfig(WithRateLimit(1, 0))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Burst, "burst defaults to 1 when throttling is enabled")
}
