package synthetic

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL string        // Base URL of the engine API
	Weeks   int           // How many weeks of history to fabricate
	PerWeek int           // Events per week and domain
	Seed    int64         // RNG seed; same seed, same events
	Timeout time.Duration // HTTP request timeout
	Anomaly bool          // Cap the run with a suspicious transaction scored live
}

// Event is the wire shape submitted to the engine.
type Event struct {
	ID       string   `json:"id"`
	Amount   float64  `json:"amount"`
	TS       string   `json:"ts"`
	Merchant string   `json:"merchant,omitempty"`
	Category string   `json:"category"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
}

// Stats holds the outcome of a seeding run.
type Stats struct {
	Generated int
	Submitted int
	Failed    int
	Duration  time.Duration
}
