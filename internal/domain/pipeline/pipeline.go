// Package pipeline wires one domain's event log to its profile builder.
//
// Both engines share the same shape: bounded history, derived snapshot,
// per-event features, weighted scoring. The pipeline owns the first two
// stages and the staleness contract between them; the domain-specific
// feature and scoring strategies stay in their own packages.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/moneta-app/insight/internal/adapters/persist"
	"github.com/moneta-app/insight/internal/adapters/repository"
	"github.com/moneta-app/insight/internal/domain/model"
	"github.com/moneta-app/insight/internal/domain/profile"
	"github.com/moneta-app/insight/pkg/logger"
	"github.com/moneta-app/insight/pkg/metrics"
)

const (
	defaultTTL          = time.Hour
	millisecondsPerNano = 1e6
)

// Pipeline owns the event log and the lazily rebuilt profile snapshot for
// one domain. A snapshot is valid only for the exact event set it was built
// from: every append marks it stale, and the next Profile call rebuilds it.
type Pipeline struct {
	log      *repository.Log
	profiler profile.Builder
	writer   *persist.Writer
	logger   logger.Logger
	ttl      time.Duration

	mu          sync.Mutex // held across rebuilds; they are short and bounded
	snap        *profile.Snapshot
	stale       bool
	refreshedAt time.Time
}

// New creates a pipeline over log using profiler for snapshot rebuilds.
// Durable writes go through writer when one is provided.
func New(log *repository.Log, profiler profile.Builder, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:      log,
		profiler: profiler,
		ttl:      defaultTTL,
		stale:    true,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.Get().Named(log.Namespace())
	}

	return p
}

// Namespace returns the domain this pipeline serves.
func (p *Pipeline) Namespace() string {
	return p.log.Namespace()
}

// Append validates and records e, marks the snapshot stale and schedules a
// fire-and-forget durable write. A failed or dropped write is logged, never
// returned: the in-memory session continues either way.
func (p *Pipeline) Append(ctx context.Context, e model.Event) error {
	if err := p.log.Append(ctx, e); err != nil {
		metrics.RecordValidationError()
		return err
	}

	p.mu.Lock()
	p.stale = true
	p.mu.Unlock()

	metrics.RecordEventAppended(p.Namespace())
	if p.writer != nil {
		p.writer.Schedule(ctx, p.log)
	}
	return nil
}

// Profile returns the current snapshot, rebuilding it first when stale or
// past the TTL. The rebuild is synchronous and O(n) over the capped history.
func (p *Pipeline) Profile(ctx context.Context) *profile.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.snap != nil && !p.stale && time.Since(p.refreshedAt) < p.ttl {
		return p.snap
	}

	start := time.Now()
	events := p.log.All(ctx)
	p.snap = p.profiler.Build(events)
	p.stale = false
	p.refreshedAt = time.Now()

	metrics.RecordProfileRefresh(p.Namespace())
	metrics.RecordProfileRefreshDuration(float64(time.Since(start).Nanoseconds()) / millisecondsPerNano)
	metrics.UpdateProfileEventCount(p.Namespace(), len(events))

	p.logger.Debug(ctx, "profile rebuilt",
		logger.Int("events", len(events)),
		logger.Bool("fit", p.snap.Fit))
	return p.snap
}

// Invalidate forces the next Profile call to rebuild.
func (p *Pipeline) Invalidate() {
	p.mu.Lock()
	p.stale = true
	p.mu.Unlock()
}

// Events returns a defensive copy of the current history, oldest first.
func (p *Pipeline) Events(ctx context.Context) []model.Event {
	return p.log.All(ctx)
}

// Len returns the current history length.
func (p *Pipeline) Len(ctx context.Context) int {
	return p.log.Len(ctx)
}

// Load restores the persisted history and invalidates the snapshot.
func (p *Pipeline) Load(ctx context.Context) error {
	if err := p.log.Load(ctx); err != nil {
		return err
	}
	p.Invalidate()
	return nil
}

// Save flushes the history to durable storage synchronously.
func (p *Pipeline) Save(ctx context.Context) error {
	return p.log.Save(ctx)
}

// Reset wipes the in-memory and persisted history and invalidates the
// snapshot.
func (p *Pipeline) Reset(ctx context.Context) error {
	if err := p.log.Reset(ctx); err != nil {
		return err
	}
	p.Invalidate()
	return nil
}
