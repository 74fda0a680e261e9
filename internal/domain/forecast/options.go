package forecast

// Option applies a configuration option to the Forecaster.
type Option func(*Forecaster)

// WithColdStartFloor sets the minimum weekly estimate used before enough
// history exists.
func WithColdStartFloor(floor float64) Option {
	return func(f *Forecaster) {
		if floor >= 0 {
			f.coldStartFloor = floor
		}
	}
}

// WithAssumedEventsPerWeek sets the event rate assumed on the cold-start path.
func WithAssumedEventsPerWeek(n float64) Option {
	return func(f *Forecaster) {
		if n > 0 {
			f.assumedEventsPerWeek = n
		}
	}
}

// WithComparisonThresholds sets the trend-factor boundaries for the
// higher/lower labels.
func WithComparisonThresholds(higher, lower float64) Option {
	return func(f *Forecaster) {
		if higher > lower {
			f.higherThreshold = higher
			f.lowerThreshold = lower
		}
	}
}

// WithWarningThresholds sets the trend factor and spend share above which a
// category warning is attached.
func WithWarningThresholds(trendFactor, share float64) Option {
	return func(f *Forecaster) {
		if trendFactor > 0 && share > 0 && share < 1 {
			f.warningTrend = trendFactor
			f.warningShare = share
		}
	}
}

// WithSavingsRates sets the savings fractions applied to the forecast for
// rising and flat-or-falling trends.
func WithSavingsRates(rising, flat float64) Option {
	return func(f *Forecaster) {
		if rising >= 0 && flat >= 0 {
			f.savingsRateRising = rising
			f.savingsRateFlat = flat
		}
	}
}
