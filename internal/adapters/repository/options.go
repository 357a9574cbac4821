package repository

import (
	"strings"
	"time"

	"github.com/okian/debut/pkg/logger"
)

// Option applies a configuration option to the StateStore.
type Option func(*StateStore)

// WithClock sets the clock used to stamp lastPlayed.
func WithClock(now func() time.Time) Option {
	return func(s *StateStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for dropped failures.
func WithLogger(l logger.Logger) Option {
	return func(s *StateStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *StateStore) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}
