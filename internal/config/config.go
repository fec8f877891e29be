// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, an optional YAML file, and environment variables.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// OutcomeQueueSize bounds the in-memory outcome queue.
	OutcomeQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of outcome workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the outcome idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the session store.
	ShardCount int `koanf:"shard_count"`

	// CTASubject names the product in personalized CTA messages.
	CTASubject string `koanf:"cta_subject"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9090",
		OutcomeQueueSize: 10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       50_000,
		ShardCount:       8,
		CTASubject:       "the product",
	}
}
