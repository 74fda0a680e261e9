// Package repository holds the bounded event history and its persistence contract.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/moneta-app/insight/internal/domain/model"
)

// Default store configuration constants.
const (
	defaultCap = 500
)

// Persister reads and writes a capped, ordered event history under a
// namespaced key. Implementations must keep namespaces isolated.
type Persister interface {
	// Save replaces the stored history for namespace with events, in order.
	Save(ctx context.Context, namespace string, events []model.Event) error

	// Load returns the stored history for namespace, oldest first.
	// A namespace that was never saved yields an empty slice, not an error.
	Load(ctx context.Context, namespace string) ([]model.Event, error)

	// Reset removes all stored history for namespace.
	Reset(ctx context.Context, namespace string) error
}

// Log is the in-memory, time-ordered event history for one domain.
// All methods are safe for concurrent use; a single lock is enough at the
// data volumes involved.
type Log struct {
	mu        sync.Mutex
	namespace string
	cap       int
	persister Persister
	events    []model.Event
}

// NewLog creates an event log for namespace backed by persister.
func NewLog(namespace string, persister Persister, opts ...Option) *Log {
	l := &Log{
		namespace: namespace,
		cap:       defaultCap,
		persister: persister,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Namespace returns the storage key this log persists under.
func (l *Log) Namespace() string {
	return l.namespace
}

// Append validates e and appends it to the in-memory history.
// The durable write is scheduled separately by the caller.
func (l *Log) Append(ctx context.Context, e model.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

// All returns a defensive copy of the current history, oldest first.
func (l *Log) All(ctx context.Context) []model.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the current in-memory history length.
func (l *Log) Len(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Save writes the history to durable storage, retaining only the most
// recent cap events. The in-memory list is pruned to the same bound.
func (l *Log) Save(ctx context.Context) error {
	l.mu.Lock()
	if len(l.events) > l.cap {
		// keep most recent N by insertion order
		l.events = append(l.events[:0], l.events[len(l.events)-l.cap:]...)
	}
	snapshot := make([]model.Event, len(l.events))
	copy(snapshot, l.events)
	l.mu.Unlock()

	if err := l.persister.Save(ctx, l.namespace, snapshot); err != nil {
		return fmt.Errorf("save %s history: %w", l.namespace, err)
	}
	return nil
}

// Load replaces the in-memory history with the persisted one, truncated
// to the most recent cap events.
func (l *Log) Load(ctx context.Context) error {
	events, err := l.persister.Load(ctx, l.namespace)
	if err != nil {
		return fmt.Errorf("load %s history: %w", l.namespace, err)
	}
	if len(events) > l.cap {
		events = events[len(events)-l.cap:]
	}

	l.mu.Lock()
	l.events = events
	l.mu.Unlock()
	return nil
}

// Reset clears the in-memory history and removes the persisted one.
func (l *Log) Reset(ctx context.Context) error {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()

	if err := l.persister.Reset(ctx, l.namespace); err != nil {
		return fmt.Errorf("reset %s history: %w", l.namespace, err)
	}
	return nil
}
