// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers an optional YAML file and DEBUT_* env vars over the defaults.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataPath is the SQLite file holding game state and media. Empty keeps
	// everything in memory.
	DataPath string `koanf:"data_path"`

	// RemoteURL points at the optional profile/agency service.
	RemoteURL string `koanf:"remote_url"`

	// RemoteToken authenticates calls to the remote service.
	RemoteToken string `koanf:"remote_token"`

	// RemoteTimeoutMS bounds each remote call.
	RemoteTimeoutMS int `koanf:"remote_timeout_ms"`

	// SyncWorkers drain the remote sync outbox. Zero applies remote sync
	// inline on the request path.
	SyncWorkers int `koanf:"sync_workers"`

	// SyncQueueSize bounds the remote sync outbox. Tasks beyond it are
	// dropped.
	SyncQueueSize int `koanf:"sync_queue_size"`

	// MaxMediaBytes caps a single media upload.
	MaxMediaBytes int64 `koanf:"max_media_bytes"`

	// MemoryQuotaBytes caps the in-memory KV used when DataPath is empty.
	// Zero means unlimited.
	MemoryQuotaBytes int `koanf:"memory_quota_bytes"`

	// RandomSeed fixes the judging random source. Zero seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		RemoteTimeoutMS: 3000,
		SyncWorkers:     1,
		SyncQueueSize:   64,
		MaxMediaBytes:   32 << 20,
	}
}

// RemoteTimeout returns RemoteTimeoutMS as a duration.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.MaxMediaBytes <= 0 {
		return fmt.Errorf("%w: max_media_bytes must be positive", ErrInvalidConfig)
	}
	if c.RemoteTimeoutMS < 0 {
		return fmt.Errorf("%w: remote_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if c.SyncWorkers < 0 {
		return fmt.Errorf("%w: sync_workers must not be negative", ErrInvalidConfig)
	}
	if c.SyncWorkers > 0 && c.SyncQueueSize <= 0 {
		return fmt.Errorf("%w: sync_queue_size must be positive when sync_workers is set", ErrInvalidConfig)
	}
	if c.MemoryQuotaBytes < 0 {
		return fmt.Errorf("%w: memory_quota_bytes must not be negative", ErrInvalidConfig)
	}
	return nil
}
