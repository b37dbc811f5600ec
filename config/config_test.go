package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/latif/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, recommend.DefaultWeights(), cfg.Engine.Weights.Weights())
	assert.Nil(t, cfg.Engine.Seed)
	assert.True(t, cfg.Engine.Propagation)
}

func TestLoadFromReader_Valid(t *testing.T) {
	src := `
log_level = "debug"

[engine]
fallback_threshold = 0.05
seed = 7

[engine.weights]
theme = 0.35

[corrector]
enabled = true

[server]
addr = ":9090"
`
	cfg, err := LoadFromReader(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, LogDebug, cfg.LogLevel)
	assert.InDelta(t, 0.05, cfg.Engine.FallbackThreshold, 1e-9)
	require.NotNil(t, cfg.Engine.Seed)
	assert.Equal(t, uint64(7), *cfg.Engine.Seed)
	assert.InDelta(t, 0.35, cfg.Engine.Weights.Theme, 1e-9)
	assert.True(t, cfg.Corrector.Enabled)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	// untouched keys keep their defaults
	assert.InDelta(t, 0.25, cfg.Engine.Weights.Emotion, 1e-9)
	assert.InDelta(t, -0.20, cfg.Engine.Weights.Negative, 1e-9)
	assert.Equal(t, 5, cfg.Engine.ContextCapacity)
	assert.InDelta(t, 0.90, cfg.Corrector.Threshold, 1e-9)
}

func TestLoadFromReader_EmptyIsValid(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromReader_UnknownKey(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("[engine]\nfalback = 1\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"negative weight", func(c *Config) { c.Engine.Weights.Keyword = -0.1 }, "engine.weights"},
		{"positive penalty", func(c *Config) { c.Engine.Weights.Negative = 0.2 }, "engine.weights"},
		{"threshold", func(c *Config) { c.Engine.FallbackThreshold = -1 }, "engine.fallback_threshold"},
		{"context capacity", func(c *Config) { c.Engine.ContextCapacity = 0 }, "engine.context_capacity"},
		{"corrector threshold", func(c *Config) { c.Corrector.Threshold = 1.5 }, "corrector.threshold"},
		{"server addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"max sessions", func(c *Config) { c.Server.MaxSessions = 0 }, "server.max_sessions"},
		{"workers", func(c *Config) { c.Replay.Workers = 0 }, "replay.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	cfg.Replay.Workers = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "replay.workers")
}

func TestWriteThenLoad(t *testing.T) {
	cfg := DefaultConfig()
	seed := uint64(99)
	cfg.Engine.Seed = &seed
	cfg.Storage.Path = "/var/lib/latif"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))

	path := filepath.Join(t.TempDir(), "latif.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvDB, "/tmp/verses")
	t.Setenv(EnvAddr, ":7070")

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/verses", cfg.Storage.Path)
	assert.Equal(t, ":7070", cfg.Server.Addr)

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
