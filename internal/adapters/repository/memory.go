package repository

import (
	"context"
	"sync"

	"github.com/moneta-app/insight/internal/domain/model"
)

// MemoryPersister keeps histories in process memory. It is the default when
// no database path is configured; history will not survive a restart.
type MemoryPersister struct {
	mu     sync.Mutex
	byName map[string][]model.Event
}

// NewMemoryPersister creates an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{byName: make(map[string][]model.Event)}
}

// Save replaces the stored history for namespace.
func (p *MemoryPersister) Save(ctx context.Context, namespace string, events []model.Event) error {
	stored := make([]model.Event, len(events))
	copy(stored, events)

	p.mu.Lock()
	p.byName[namespace] = stored
	p.mu.Unlock()
	return nil
}

// Load returns a copy of the stored history for namespace.
func (p *MemoryPersister) Load(ctx context.Context, namespace string) ([]model.Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored := p.byName[namespace]
	out := make([]model.Event, len(stored))
	copy(out, stored)
	return out, nil
}

// Reset removes the stored history for namespace.
func (p *MemoryPersister) Reset(ctx context.Context, namespace string) error {
	p.mu.Lock()
	delete(p.byName, namespace)
	p.mu.Unlock()
	return nil
}
