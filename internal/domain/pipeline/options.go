package pipeline

import (
	"time"

	"github.com/moneta-app/insight/internal/adapters/persist"
	"github.com/moneta-app/insight/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithWriter routes durable writes through the background writer.
func WithWriter(w *persist.Writer) Option {
	return func(p *Pipeline) {
		p.writer = w
	}
}

// WithTTL sets how long a fresh snapshot stays valid without new events.
func WithTTL(ttl time.Duration) Option {
	return func(p *Pipeline) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithLogger sets the logger instance.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}
