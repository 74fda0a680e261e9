package feature

import "time"

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithLocationScale sets the distance (km) at which the location anomaly
// saturates to 1.
func WithLocationScale(km float64) Option {
	return func(x *Extractor) {
		if km > 0 {
			x.locationScaleKm = km
		}
	}
}

// WithUnknownLocationScore sets the anomaly assigned to a coordinate when
// no location history exists.
func WithUnknownLocationScore(score float64) Option {
	return func(x *Extractor) {
		if score >= 0 && score <= 1 {
			x.unknownLocationScore = score
		}
	}
}

// WithBurstWindow sets the trailing window for the burst count.
func WithBurstWindow(window time.Duration) Option {
	return func(x *Extractor) {
		if window > 0 {
			x.burstWindow = window
		}
	}
}

// WithBurstLimit sets the burst count at which the term saturates.
func WithBurstLimit(limit int) Option {
	return func(x *Extractor) {
		if limit > 0 {
			x.burstLimit = limit
		}
	}
}

// WithRecencyWindow sets the window over which the recency term decays to 0.
func WithRecencyWindow(window time.Duration) Option {
	return func(x *Extractor) {
		if window > 0 {
			x.recencyWindow = window
		}
	}
}

// WithFrequencyWeights sets the burst/recency mix of the frequency feature.
func WithFrequencyWeights(burst, recency float64) Option {
	return func(x *Extractor) {
		if burst >= 0 && recency >= 0 && burst+recency > 0 {
			x.burstWeight = burst
			x.recencyWeight = recency
		}
	}
}
