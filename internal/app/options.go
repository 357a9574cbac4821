package service

import (
	"time"

	"github.com/okian/debut/internal/adapters/remote"
	"github.com/okian/debut/internal/domain/judging"
	"github.com/okian/debut/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStateStore sets the persistence for the game record.
func WithStateStore(store StateStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScorer sets the judging engine.
func WithScorer(scorer judging.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithMedia sets the blob store.
func WithMedia(m MediaStore) Option {
	return func(s *Service) {
		if m != nil {
			s.media = m
		}
	}
}

// WithRemote enables best-effort sync with the profile/agency service.
func WithRemote(c remote.Client) Option {
	return func(s *Service) {
		s.remote = c
	}
}

// WithOutbox sends remote sync tasks through o instead of applying them
// on the request path. It has no effect without WithRemote.
func WithOutbox(o Outbox) Option {
	return func(s *Service) {
		s.outbox = o
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides submission id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}
