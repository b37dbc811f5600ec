package config

import (
	"github.com/poiesic/latif/recommend"
	"github.com/poiesic/latif/session"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure.
type Config struct {
	LogLevel  LogLevel        `toml:"log_level"`
	Storage   StorageConfig   `toml:"storage"`
	Engine    EngineConfig    `toml:"engine"`
	Corrector CorrectorConfig `toml:"corrector"`
	Server    ServerConfig    `toml:"server"`
	Replay    ReplayConfig    `toml:"replay"`
}

// StorageConfig locates the verse library.
type StorageConfig struct {
	// Path is the badger database directory. Empty uses the embedded
	// sample collection without a database.
	Path string `toml:"path"`
}

// EngineConfig tunes the recommendation engine.
type EngineConfig struct {
	Weights           WeightsConfig `toml:"weights"`
	FallbackThreshold float64       `toml:"fallback_threshold"`
	ContextCapacity   int           `toml:"context_capacity"`
	Propagation       bool          `toml:"propagation"`
	// Seed fixes the fallback shuffle. Unset means a random seed per session.
	Seed *uint64 `toml:"seed,omitempty"`
}

// WeightsConfig mirrors recommend.Weights.
type WeightsConfig struct {
	Theme        float64 `toml:"theme"`
	Emotion      float64 `toml:"emotion"`
	Keyword      float64 `toml:"keyword"`
	Context      float64 `toml:"context"`
	Positive     float64 `toml:"positive"`
	Negative     float64 `toml:"negative"`
	Novelty      float64 `toml:"novelty"`
	NoveltyDecay float64 `toml:"novelty_decay"`
}

// Weights converts the configured values to recommend.Weights.
func (w WeightsConfig) Weights() recommend.Weights {
	return recommend.Weights{
		Theme:        w.Theme,
		Emotion:      w.Emotion,
		Keyword:      w.Keyword,
		Context:      w.Context,
		Positive:     w.Positive,
		Negative:     w.Negative,
		Novelty:      w.Novelty,
		NoveltyDecay: w.NoveltyDecay,
	}
}

func weightsConfig(w recommend.Weights) WeightsConfig {
	return WeightsConfig{
		Theme:        w.Theme,
		Emotion:      w.Emotion,
		Keyword:      w.Keyword,
		Context:      w.Context,
		Positive:     w.Positive,
		Negative:     w.Negative,
		Novelty:      w.Novelty,
		NoveltyDecay: w.NoveltyDecay,
	}
}

// CorrectorConfig controls fuzzy correction of transcripts before analysis.
type CorrectorConfig struct {
	Enabled   bool    `toml:"enabled"`
	Threshold float64 `toml:"threshold"`
	MinLength int     `toml:"min_length"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	AllowOrigins []string `toml:"allow_origins"`
	// MaxSessions caps concurrently open sessions.
	MaxSessions int `toml:"max_sessions"`
}

// ReplayConfig controls the replay runner.
type ReplayConfig struct {
	Workers int `toml:"workers"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: LogInfo,
		Engine: EngineConfig{
			Weights:         weightsConfig(recommend.DefaultWeights()),
			ContextCapacity: session.DefaultCapacity,
			Propagation:     true,
		},
		Corrector: CorrectorConfig{
			Enabled:   false,
			Threshold: 0.90,
			MinLength: 3,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			AllowOrigins: []string{"*"},
			MaxSessions:  1000,
		},
		Replay: ReplayConfig{
			Workers: 4,
		},
	}
}
