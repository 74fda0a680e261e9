package dedupe

// Option applies a configuration option to the ring deduper.
type Option func(*ringDeduper)

// WithCapacity sets how many IDs are remembered before the oldest ones are
// overwritten.
func WithCapacity(capacity int) Option {
	return func(d *ringDeduper) {
		if capacity > 0 {
			d.capacity = capacity
		}
	}
}
