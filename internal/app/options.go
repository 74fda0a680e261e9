package service

import (
	repository "github.com/moneta-app/insight/internal/adapters/repository"
	"github.com/moneta-app/insight/internal/config"
	"github.com/moneta-app/insight/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the engine configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPersister injects the history storage backend, overriding the one
// selected by configuration. Mostly useful in tests.
func WithPersister(p repository.Persister) Option {
	return func(s *Service) {
		s.persister = p
	}
}
