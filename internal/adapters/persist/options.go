package persist

import (
	"time"

	"github.com/moneta-app/insight/pkg/logger"
)

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithQueueSize bounds the pending save-request queue.
func WithQueueSize(size int) Option {
	return func(w *Writer) {
		if size > 0 {
			w.queueSize = size
		}
	}
}

// WithDrainTimeout bounds how long Close waits for pending writes.
func WithDrainTimeout(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.drainTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}
