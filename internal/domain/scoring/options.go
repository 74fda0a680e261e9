package scoring

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights sets the per-factor scoring weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// WithTriggers sets the per-factor explanation thresholds.
func WithTriggers(t Triggers) Option {
	return func(s *Scorer) {
		s.triggers = t
	}
}

// WithScoreDivisor sets the display-range scaling divisor.
func WithScoreDivisor(d float64) Option {
	return func(s *Scorer) {
		if d > 0 {
			s.divisor = d
		}
	}
}

// WithAnomalyThreshold sets the strict anomaly boundary.
func WithAnomalyThreshold(threshold int) Option {
	return func(s *Scorer) {
		if threshold >= 0 && threshold <= maxScoreValue {
			s.threshold = threshold
		}
	}
}
