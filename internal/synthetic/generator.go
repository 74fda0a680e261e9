// Package synthetic fabricates plausible personal-finance histories for
// demos and load checks against a running engine.
package synthetic

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// A merchant with its category and a typical amount band.
type merchantProfile struct {
	name     string
	category string
	min, max float64
}

// Hand-picked catalog; amounts are in the account currency.
var catalog = []merchantProfile{
	{"Corner Grocer", "groceries", 12, 90},
	{"FreshMart", "groceries", 20, 120},
	{"Bella Trattoria", "dining", 18, 75},
	{"Noodle Bar", "dining", 9, 35},
	{"Metro Transit", "transport", 2.5, 6},
	{"City Cabs", "transport", 8, 40},
	{"PowerGrid Utility", "utilities", 45, 140},
	{"StreamFlix", "entertainment", 11, 16},
	{"Cinema Plaza", "entertainment", 10, 32},
	{"Corner Pharmacy", "health", 6, 60},
}

// Home coordinate the ordinary events cluster around.
const (
	homeLat = 52.3702
	homeLon = 4.8952
)

// GenerateHistory fabricates cfg.Weeks of events ending now, spread over
// plausible daytime hours, most of them near the home coordinate.
func GenerateHistory(cfg *Config) []Event {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := time.Now().UTC().Add(-time.Duration(cfg.Weeks*7*24) * time.Hour)

	total := cfg.Weeks * cfg.PerWeek
	events := make([]Event, 0, total)
	for i := 0; i < total; i++ {
		m := catalog[rng.Intn(len(catalog))]

		// Spread through the week: daytime hours only, 8:00 to 21:59.
		day := (i / cfg.PerWeek * 7) + rng.Intn(7)
		ts := start.Add(time.Duration(day*24)*time.Hour +
			time.Duration(8+rng.Intn(14))*time.Hour +
			time.Duration(rng.Intn(60))*time.Minute)

		e := Event{
			ID:       uuid.NewString(),
			Amount:   round2(m.min + rng.Float64()*(m.max-m.min)),
			TS:       ts.Format(time.RFC3339),
			Merchant: m.name,
			Category: m.category,
		}
		// Most purchases are local; jitter keeps them inside the home grid cell.
		if rng.Float64() < 0.8 {
			lat := homeLat + (rng.Float64()-0.5)*0.004
			lon := homeLon + (rng.Float64()-0.5)*0.004
			e.Lat, e.Lon = &lat, &lon
		}
		events = append(events, e)
	}
	return events
}

// Suspicious fabricates the classic bad transaction: an order of magnitude
// above the catalog bands, at 3 AM, from an unknown merchant far away.
func Suspicious(cfg *Config) Event {
	ts := time.Now().UTC().Truncate(24 * time.Hour).Add(3 * time.Hour)
	lat, lon := 40.7128, -74.0060

	return Event{
		ID:       uuid.NewString(),
		Amount:   1500,
		TS:       ts.Format(time.RFC3339),
		Merchant: "Wire Transfer Intl",
		Category: "general",
		Lat:      &lat,
		Lon:      &lon,
	}
}

func round2(v float64) float64 {
	return float64(int(v*100)) / 100
}
