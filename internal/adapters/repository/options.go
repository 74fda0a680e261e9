package repository

// Option applies a configuration option to the Log.
type Option func(*Log)

// WithCap sets the maximum number of events retained on save.
func WithCap(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.cap = n
		}
	}
}
