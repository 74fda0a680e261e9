// Package config defines engine configuration structures and loading hooks.
//
// Every hand-tuned weight and threshold in the scoring and forecasting
// formulas is a named, overridable field here rather than an inline literal.
// The defaults are calibration constants with no documented derivation;
// change them only when deliberately recalibrating.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath points at the SQLite history file. Empty selects the
	// in-memory persister (history will not survive restart).
	DBPath string `koanf:"db_path"`

	// HistoryCap bounds the persisted event history per domain; the most
	// recent N events are retained on save.
	HistoryCap int `koanf:"history_cap"`

	// ProfileTTLMinutes bounds how long a profile stays fresh without an
	// intervening append before the next use forces a rebuild.
	ProfileTTLMinutes int `koanf:"profile_ttl_minutes"`

	// MinSamples is the minimum history length before the full statistical
	// formulas apply; below it the cold-start paths are used.
	MinSamples int `koanf:"min_samples"`

	// PersistQueueSize bounds the background save-request queue.
	PersistQueueSize int `koanf:"persist_queue_size"`

	// DedupeSize sets the size of the submission idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// Anomaly scoring weights. They sum to 1 by convention.
	AmountWeight    float64 `koanf:"amount_weight"`
	TimeWeight      float64 `koanf:"time_weight"`
	LocationWeight  float64 `koanf:"location_weight"`
	MerchantWeight  float64 `koanf:"merchant_weight"`
	FrequencyWeight float64 `koanf:"frequency_weight"`

	// ScoreDivisor rescales the weighted sum onto the 0-100 display range.
	// Empirical; reconciles the unbounded amount-deviation term with a
	// bounded display score.
	ScoreDivisor float64 `koanf:"score_divisor"`

	// AnomalyThreshold flags scores strictly greater than this value.
	AnomalyThreshold int `koanf:"anomaly_threshold"`

	// Per-factor explanation triggers.
	AmountTrigger    float64 `koanf:"amount_trigger"`
	TimeTrigger      float64 `koanf:"time_trigger"`
	LocationTrigger  float64 `koanf:"location_trigger"`
	MerchantTrigger  float64 `koanf:"merchant_trigger"`
	FrequencyTrigger float64 `koanf:"frequency_trigger"`

	// Location feature tuning.
	LocationScaleKm      float64 `koanf:"location_scale_km"`
	UnknownLocationScore float64 `koanf:"unknown_location_score"`
	GridPrecision        int     `koanf:"grid_precision"`
	TopLocations         int     `koanf:"top_locations"`

	// Frequency feature tuning.
	BurstWindowHours   int     `koanf:"burst_window_hours"`
	BurstLimit         int     `koanf:"burst_limit"`
	RecencyWindowHours int     `koanf:"recency_window_hours"`
	BurstWeight        float64 `koanf:"burst_weight"`
	RecencyWeight      float64 `koanf:"recency_weight"`

	// Budget trend tuning.
	TrendClamp float64 `koanf:"trend_clamp"`
	TrendWeeks int     `koanf:"trend_weeks"`

	// Forecast cold-start tuning.
	ColdStartFloor       float64 `koanf:"cold_start_floor"`
	AssumedEventsPerWeek float64 `koanf:"assumed_events_per_week"`

	// Category labeling and warnings.
	HigherTrendFactor  float64 `koanf:"higher_trend_factor"`
	LowerTrendFactor   float64 `koanf:"lower_trend_factor"`
	WarningTrendFactor float64 `koanf:"warning_trend_factor"`
	WarningShare       float64 `koanf:"warning_share"`

	// Savings recommendation rates.
	SavingsRateRising float64 `koanf:"savings_rate_rising"`
	SavingsRateFlat   float64 `koanf:"savings_rate_flat"`
}

// New creates a Config with the calibrated defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DBPath:            "",
		HistoryCap:        500,
		ProfileTTLMinutes: 60,
		MinSamples:        5,
		PersistQueueSize:  64,
		DedupeSize:        10_000,

		AmountWeight:    0.30,
		TimeWeight:      0.15,
		LocationWeight:  0.25,
		MerchantWeight:  0.20,
		FrequencyWeight: 0.10,

		ScoreDivisor:     3.0,
		AnomalyThreshold: 70,

		AmountTrigger:    2.5,
		TimeTrigger:      0.8,
		LocationTrigger:  0.7,
		MerchantTrigger:  0.8,
		FrequencyTrigger: 0.8,

		LocationScaleKm:      5.0,
		UnknownLocationScore: 0.5,
		GridPrecision:        2,
		TopLocations:         10,

		BurstWindowHours:   24,
		BurstLimit:         20,
		RecencyWindowHours: 168,
		BurstWeight:        0.7,
		RecencyWeight:      0.3,

		TrendClamp: 0.3,
		TrendWeeks: 6,

		ColdStartFloor:       50,
		AssumedEventsPerWeek: 10,

		HigherTrendFactor:  1.1,
		LowerTrendFactor:   0.9,
		WarningTrendFactor: 1.2,
		WarningShare:       0.15,

		SavingsRateRising: 0.20,
		SavingsRateFlat:   0.10,
	}
}
