// Package config loads the TOML settings shared by the CLI and the HTTP
// server: scoring weights, session tunables, the transcript corrector and
// server limits.
//
// A file only needs the keys it changes; everything else keeps the value
// from DefaultConfig.
//
//	log_level = "debug"
//
//	[engine]
//	fallback_threshold = 0.05
//	seed = 7
//
//	[engine.weights]
//	theme = 0.35
//
//	[server]
//	addr = ":9090"
package config
