// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file settings.
const (
	EnvConfig = "LATIF_CONFIG"
	EnvDB     = "LATIF_DB"
	EnvAddr   = "LATIF_ADDR"
)

// Load reads a TOML file on top of DefaultConfig and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader parses TOML from r on top of DefaultConfig and validates
// the result. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("decode toml: %s", strict.String())
		}
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve returns the configuration named by path, or by LATIF_CONFIG when
// path is empty, with LATIF_DB and LATIF_ADDR applied on top. Without any
// file it returns DefaultConfig.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	ApplyEnv(cfg)
	return cfg, nil
}

// ApplyEnv overrides the storage path and server address from the
// environment when set.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
}

// Write encodes cfg as TOML to w.
func Write(w io.Writer, cfg *Config) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: encode toml: %w", err)
	}
	return nil
}

// Validate checks cfg and reports every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if err := cfg.Engine.Weights.Weights().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine.weights: %w", err))
	}
	if cfg.Engine.FallbackThreshold < 0 {
		errs = append(errs, fmt.Errorf("engine.fallback_threshold %.2f must not be negative", cfg.Engine.FallbackThreshold))
	}
	if cfg.Engine.ContextCapacity < 1 {
		errs = append(errs, fmt.Errorf("engine.context_capacity %d must be at least 1", cfg.Engine.ContextCapacity))
	}

	if cfg.Corrector.Threshold <= 0 || cfg.Corrector.Threshold > 1 {
		errs = append(errs, fmt.Errorf("corrector.threshold %.2f is out of range (0, 1]", cfg.Corrector.Threshold))
	}
	if cfg.Corrector.MinLength < 1 {
		errs = append(errs, fmt.Errorf("corrector.min_length %d must be at least 1", cfg.Corrector.MinLength))
	}

	if cfg.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if cfg.Server.MaxSessions < 1 {
		errs = append(errs, fmt.Errorf("server.max_sessions %d must be at least 1", cfg.Server.MaxSessions))
	}

	if cfg.Replay.Workers < 1 {
		errs = append(errs, fmt.Errorf("replay.workers %d must be at least 1", cfg.Replay.Workers))
	}

	return errors.Join(errs...)
}
