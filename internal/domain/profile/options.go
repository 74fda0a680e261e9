package profile

// FraudOption applies a configuration option to the FraudProfiler.
type FraudOption func(*FraudProfiler)

// WithFraudMinSamples sets the minimum history length for a fit profile.
func WithFraudMinSamples(n int) FraudOption {
	return func(p *FraudProfiler) {
		if n > 0 {
			p.minSamples = n
		}
	}
}

// WithGridPrecision sets the decimal places used for location grid cells.
func WithGridPrecision(decimals int) FraudOption {
	return func(p *FraudProfiler) {
		if decimals >= 0 {
			p.gridPrecision = decimals
		}
	}
}

// WithTopLocations caps the number of frequent locations kept.
func WithTopLocations(k int) FraudOption {
	return func(p *FraudProfiler) {
		if k > 0 {
			p.topLocations = k
		}
	}
}

// BudgetOption applies a configuration option to the BudgetProfiler.
type BudgetOption func(*BudgetProfiler)

// WithBudgetMinSamples sets the minimum history length for a fit profile.
func WithBudgetMinSamples(n int) BudgetOption {
	return func(p *BudgetProfiler) {
		if n > 0 {
			p.minSamples = n
		}
	}
}

// WithTrendWeeks sets how many recent weekly totals feed the overall trend.
func WithTrendWeeks(weeks int) BudgetOption {
	return func(p *BudgetProfiler) {
		if weeks > 1 {
			p.trendWeeks = weeks
		}
	}
}

// WithTrendClamp bounds trend coefficients to +/- clamp.
func WithTrendClamp(clamp float64) BudgetOption {
	return func(p *BudgetProfiler) {
		if clamp > 0 {
			p.trendClamp = clamp
		}
	}
}
