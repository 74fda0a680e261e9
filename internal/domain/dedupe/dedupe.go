// Package dedupe provides idempotency tracking for submitted event IDs.
package dedupe

import (
	"context"
	"sync"
)

const defaultCapacity = 10_000

// Deduper records seen event IDs so resubmissions become no-ops.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it if
	// not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes id so it can be submitted again. Used when an event
	// was recorded here but rejected further down the pipeline.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of IDs currently tracked.
	Size() int
}

// ringDeduper tracks IDs in a fixed-capacity ring: once full, each new ID
// overwrites the oldest one. Memory stays bounded no matter how long the
// process runs.
type ringDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	ring     []string
	capacity int
	next     int // ring slot the next ID goes into
}

// NewRingDeduper creates a bounded deduper with configuration options.
func NewRingDeduper(opts ...Option) Deduper {
	d := &ringDeduper{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{}, d.capacity)
	d.ring = make([]string, d.capacity)
	return d
}

func (d *ringDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if old := d.ring[d.next]; old != "" {
		delete(d.seen, old)
	}
	d.ring[d.next] = id
	d.seen[id] = struct{}{}
	d.next = (d.next + 1) % d.capacity
	return false
}

func (d *ringDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	for i, v := range d.ring {
		if v == id {
			d.ring[i] = ""
			break
		}
	}
}

func (d *ringDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
