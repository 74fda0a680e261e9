// Package persist runs best-effort durable writes off the caller's path.
//
// Appends schedule a save request here and return immediately; a single
// background goroutine drains the queue and writes. Failures are logged and
// counted, never propagated: the in-memory session continues, the data
// simply will not survive a restart.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/moneta-app/insight/pkg/logger"
	"github.com/moneta-app/insight/pkg/metrics"
)

// Default writer configuration constants.
const (
	defaultQueueSize    = 64
	defaultDrainTimeout = 5 * time.Second
	millisecondsPerNano = 1e6
)

// Saver is a history that knows how to flush itself to durable storage.
type Saver interface {
	Save(ctx context.Context) error
	Namespace() string
}

// Writer owns the save-request queue and the single writer goroutine.
type Writer struct {
	requests     chan Saver
	queueSize    int
	drainTimeout time.Duration
	logger       logger.Logger

	mu      sync.Mutex
	started bool
	closed  bool
	done    chan struct{}
}

// NewWriter creates a background writer with configuration options.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		queueSize:    defaultQueueSize,
		drainTimeout: defaultDrainTimeout,
		done:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.requests = make(chan Saver, w.queueSize)
	if w.logger == nil {
		w.logger = logger.Get().Named("persist")
	}

	metrics.UpdatePersistQueueDepth(0)
	return w
}

// Start launches the writer goroutine. It runs until Close.
func (w *Writer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}
	if w.closed {
		return ErrClosed
	}
	w.started = true

	go w.run(ctx)
	return nil
}

func (w *Writer) run(ctx context.Context) {
	defer close(w.done)

	for req := range w.requests {
		metrics.UpdatePersistQueueDepth(len(w.requests))

		start := time.Now()
		// Writes use a background context: the triggering request has long
		// since returned and must not cancel the flush.
		if err := req.Save(context.WithoutCancel(ctx)); err != nil {
			metrics.RecordPersistError()
			w.logger.Error(ctx, "history write failed",
				logger.String("namespace", req.Namespace()),
				logger.Error(err))
			continue
		}
		metrics.RecordPersistWrite()
		metrics.RecordPersistWriteDuration(float64(time.Since(start).Nanoseconds()) / millisecondsPerNano)
	}
}

// Schedule enqueues a save request without blocking. Returns false when the
// queue is full or the writer is closed; the request is then dropped.
func (w *Writer) Schedule(ctx context.Context, s Saver) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		metrics.RecordPersistDropped()
		return false
	}

	select {
	case w.requests <- s:
		w.mu.Unlock()
		metrics.UpdatePersistQueueDepth(len(w.requests))
		return true
	default:
		w.mu.Unlock()
		metrics.RecordPersistDropped()
		w.logger.Warn(ctx, "persist queue full, dropping save request",
			logger.String("namespace", s.Namespace()))
		return false
	}
}

// Len returns the number of pending save requests.
func (w *Writer) Len() int {
	return len(w.requests)
}

// Close stops accepting requests and waits (bounded) for the queue to drain.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	close(w.requests)
	w.mu.Unlock()

	if !started {
		return nil
	}

	select {
	case <-w.done:
		return nil
	case <-time.After(w.drainTimeout):
		return ErrDrainTimeout
	}
}
