// Package feature derives normalized deviation and frequency measures for
// one event against the current profile.
package feature

import (
	"math"
	"time"

	"github.com/moneta-app/insight/internal/domain/model"
	"github.com/moneta-app/insight/internal/domain/profile"
)

// Default extractor configuration constants.
const (
	defaultLocationScaleKm      = 5.0
	defaultUnknownLocationScore = 0.5
	defaultBurstWindow          = 24 * time.Hour
	defaultBurstLimit           = 20
	defaultRecencyWindow        = 168 * time.Hour
	defaultBurstWeight          = 0.7
	defaultRecencyWeight        = 0.3

	earthRadiusKm = 6371.0
)

// Vector holds the per-event fraud features. Ephemeral: created per scoring
// call and discarded after use.
type Vector struct {
	AmountDeviation  float64 `json:"amount_deviation"`
	TimeAnomaly      float64 `json:"time_anomaly"`
	LocationAnomaly  float64 `json:"location_anomaly"`
	MerchantAnomaly  float64 `json:"merchant_anomaly"`
	FrequencyAnomaly float64 `json:"frequency_anomaly"`
}

// Extractor computes fraud features from an event and a profile snapshot.
type Extractor struct {
	locationScaleKm      float64
	unknownLocationScore float64
	burstWindow          time.Duration
	burstLimit           int
	recencyWindow        time.Duration
	burstWeight          float64
	recencyWeight        float64
}

// NewExtractor creates a feature extractor with configuration options.
func NewExtractor(opts ...Option) *Extractor {
	x := &Extractor{
		locationScaleKm:      defaultLocationScaleKm,
		unknownLocationScore: defaultUnknownLocationScore,
		burstWindow:          defaultBurstWindow,
		burstLimit:           defaultBurstLimit,
		recencyWindow:        defaultRecencyWindow,
		burstWeight:          defaultBurstWeight,
		recencyWeight:        defaultRecencyWeight,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract computes the feature vector for e against snap.
// A profile below the minimum sample count has no usable baseline; the
// cold-start path returns a zero vector so sparse histories score low
// instead of erroring.
func (x *Extractor) Extract(e model.Event, snap *profile.Snapshot) Vector {
	if snap == nil || !snap.Fit {
		return Vector{}
	}

	return Vector{
		AmountDeviation:  x.amountDeviation(e, snap),
		TimeAnomaly:      x.timeAnomaly(e, snap),
		LocationAnomaly:  x.locationAnomaly(e, snap),
		MerchantAnomaly:  x.merchantAnomaly(e, snap),
		FrequencyAnomaly: x.frequencyAnomaly(e, snap),
	}
}

// amountDeviation is the absolute z-score of the amount. A zero-spread
// history (stdev 0) falls back to the relative distance from the mean so a
// clearly divergent amount still registers; the z-score itself is left
// unclamped, a known approximation.
func (x *Extractor) amountDeviation(e model.Event, snap *profile.Snapshot) float64 {
	diff := math.Abs(e.Amount - snap.AmountMean)
	if snap.AmountStdev > 0 {
		return diff / snap.AmountStdev
	}
	if diff == 0 || snap.AmountMean <= 0 {
		return 0
	}
	return diff / snap.AmountMean
}

func (x *Extractor) timeAnomaly(e model.Event, snap *profile.Snapshot) float64 {
	total := float64(snap.EventCount)
	hourRatio := float64(snap.HourHist[e.Timestamp.Hour()]) / total
	dayRatio := float64(snap.DayHist[int(e.Timestamp.Weekday())]) / total
	return 1 - hourRatio*dayRatio
}

func (x *Extractor) locationAnomaly(e model.Event, snap *profile.Snapshot) float64 {
	if e.Location == nil {
		return 0
	}
	if len(snap.TopLocations) == 0 {
		// Coordinates with no location history: fixed moderate suspicion.
		return x.unknownLocationScore
	}

	minDist := math.Inf(1)
	for _, cell := range snap.TopLocations {
		d := haversineKm(e.Location.Lat, e.Location.Lon, cell.Lat, cell.Lon)
		if d < minDist {
			minDist = d
		}
	}
	return math.Min(1, minDist/x.locationScaleKm)
}

func (x *Extractor) merchantAnomaly(e model.Event, snap *profile.Snapshot) float64 {
	seen := float64(snap.MerchantFreq[e.Merchant])
	return 1 - seen/float64(snap.EventCount)
}

func (x *Extractor) frequencyAnomaly(e model.Event, snap *profile.Snapshot) float64 {
	var burstCount int
	var last time.Time
	windowStart := e.Timestamp.Add(-x.burstWindow)

	for _, ts := range snap.Timestamps {
		if ts.After(e.Timestamp) {
			break
		}
		if ts.After(windowStart) {
			burstCount++
		}
		last = ts
	}

	burst := math.Min(1, float64(burstCount)/float64(x.burstLimit))

	recency := 0.0
	if !last.IsZero() {
		hoursSince := e.Timestamp.Sub(last).Hours()
		recency = 1 - math.Min(1, hoursSince/x.recencyWindow.Hours())
	}

	return x.burstWeight*burst + x.recencyWeight*recency
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
