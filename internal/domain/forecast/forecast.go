// Package forecast turns budget aggregates into a next-week spending
// forecast with per-category recommendations and a confidence score.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/moneta-app/insight/internal/domain/profile"
)

// Default forecaster configuration constants.
const (
	defaultColdStartFloor       = 50.0
	defaultAssumedEventsPerWeek = 10.0
	defaultColdConfidenceCap    = 30
	defaultColdConfidenceStep   = 5

	defaultHigherThreshold = 1.1
	defaultLowerThreshold  = 0.9
	defaultWarningTrend    = 1.2
	defaultWarningShare    = 0.15

	defaultSavingsRateRising = 0.20
	defaultSavingsRateFlat   = 0.10

	// Confidence terms are clamped independently so no single factor can
	// push past its intended weight.
	confidenceEventWeight    = 40.0
	confidenceEventTarget    = 30.0
	confidenceWeekWeight     = 40.0
	confidenceWeekTarget     = 8.0
	confidenceCategoryWeight = 20.0
	confidenceCategoryTarget = 5.0
	maxConfidence            = 100
)

// LowDataRationale is the fixed rationale line attached to every cold-start
// recommendation.
const LowDataRationale = "not enough history yet; these numbers are rough estimates based on limited data"

// Comparison labels for a category against its own average.
const (
	ComparedHigher  = "higher"
	ComparedLower   = "lower"
	ComparedSimilar = "similar"
)

// Hand-tuned cyclical multipliers: weekends and year-end run higher.
var (
	dayFactors = [7]float64{
		time.Sunday:    1.10,
		time.Monday:    0.95,
		time.Tuesday:   0.90,
		time.Wednesday: 0.90,
		time.Thursday:  0.95,
		time.Friday:    1.10,
		time.Saturday:  1.20,
	}

	monthFactors = [13]float64{
		time.January:   0.90,
		time.February:  0.90,
		time.March:     0.95,
		time.April:     1.00,
		time.May:       1.00,
		time.June:      1.05,
		time.July:      1.10,
		time.August:    1.05,
		time.September: 0.95,
		time.October:   1.00,
		time.November:  1.10,
		time.December:  1.25,
	}
)

// CategoryRecommendation is the advised budget for one category.
type CategoryRecommendation struct {
	Category          string  `json:"category"`
	Amount            int     `json:"amount"`
	PercentOfTotal    float64 `json:"percent_of_total"`
	ComparedToAverage string  `json:"compared_to_average"`
	Warning           string  `json:"warning,omitempty"`
}

// Recommendation is the immutable output of one forecasting call.
type Recommendation struct {
	WeeklyTotal           int                      `json:"weekly_total"`
	CategoryBreakdown     []CategoryRecommendation `json:"category_breakdown"`
	ConfidenceScore       int                      `json:"confidence_score"`
	NextWeekForecast      int                      `json:"next_week_forecast"`
	SavingsRecommendation int                      `json:"savings_recommendation"`
	Rationale             []string                 `json:"rationale"`
}

// Forecaster derives budget recommendations from a profile snapshot.
type Forecaster struct {
	coldStartFloor       float64
	assumedEventsPerWeek float64
	higherThreshold      float64
	lowerThreshold       float64
	warningTrend         float64
	warningShare         float64
	savingsRateRising    float64
	savingsRateFlat      float64
}

// NewForecaster creates a forecaster with configuration options.
func NewForecaster(opts ...Option) *Forecaster {
	f := &Forecaster{
		coldStartFloor:       defaultColdStartFloor,
		assumedEventsPerWeek: defaultAssumedEventsPerWeek,
		higherThreshold:      defaultHigherThreshold,
		lowerThreshold:       defaultLowerThreshold,
		warningTrend:         defaultWarningTrend,
		warningShare:         defaultWarningShare,
		savingsRateRising:    defaultSavingsRateRising,
		savingsRateFlat:      defaultSavingsRateFlat,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Generate produces the recommendation for the given snapshot. Sparse
// history is not an error: below the fit threshold the cold-start path
// returns a low-confidence estimate, never a failure.
func (f *Forecaster) Generate(snap *profile.Snapshot, now time.Time) Recommendation {
	if snap == nil || !snap.Fit {
		return f.coldStart(snap)
	}
	return f.warm(snap, now)
}

func (f *Forecaster) coldStart(snap *profile.Snapshot) Recommendation {
	var eventCount int
	var totalSpend float64
	if snap != nil {
		eventCount = snap.EventCount
		totalSpend = snap.TotalSpend
	}

	var avgPerEvent float64
	if eventCount > 0 {
		avgPerEvent = totalSpend / float64(eventCount)
	}
	weekly := math.Max(f.coldStartFloor, avgPerEvent*f.assumedEventsPerWeek)

	confidence := eventCount * defaultColdConfidenceStep
	if confidence > defaultColdConfidenceCap {
		confidence = defaultColdConfidenceCap
	}

	// Split the weekly estimate proportionally to what little spend exists.
	var breakdown []CategoryRecommendation
	if snap != nil && totalSpend > 0 {
		for category, stats := range snap.Categories {
			share := stats.Total / totalSpend
			breakdown = append(breakdown, CategoryRecommendation{
				Category:          category,
				Amount:            roundInt(weekly * share),
				PercentOfTotal:    share * 100,
				ComparedToAverage: ComparedSimilar,
			})
		}
		sortBreakdown(breakdown)
	}

	rationale := []string{LowDataRationale}
	if eventCount > 0 {
		rationale = append(rationale, fmt.Sprintf("based on only %d recorded events so far", eventCount))
	}

	return Recommendation{
		WeeklyTotal:           roundInt(weekly),
		CategoryBreakdown:     breakdown,
		ConfidenceScore:       confidence,
		NextWeekForecast:      roundInt(weekly),
		SavingsRecommendation: roundInt(weekly * f.savingsRateFlat),
		Rationale:             rationale,
	}
}

func (f *Forecaster) warm(snap *profile.Snapshot, now time.Time) Recommendation {
	var baseline float64
	for _, w := range snap.WeeklyTotals {
		baseline += w.Total
	}
	if n := len(snap.WeeklyTotals); n > 0 {
		baseline /= float64(n)
	}

	trend := snap.WeeklyTrend
	seasonal := seasonalFactor(now)
	forecast := baseline * (1 + trend) * seasonal

	breakdown := f.categoryBreakdown(snap, seasonal)

	savingsRate := f.savingsRateFlat
	if trend > 0 {
		savingsRate = f.savingsRateRising
	}

	return Recommendation{
		WeeklyTotal:           roundInt(baseline),
		CategoryBreakdown:     breakdown,
		ConfidenceScore:       f.confidence(snap),
		NextWeekForecast:      roundInt(forecast),
		SavingsRecommendation: roundInt(forecast * savingsRate),
		Rationale:             f.rationale(snap, trend, breakdown),
	}
}

func (f *Forecaster) categoryBreakdown(snap *profile.Snapshot, seasonal float64) []CategoryRecommendation {
	breakdown := make([]CategoryRecommendation, 0, len(snap.Categories))
	for category, stats := range snap.Categories {
		trendFactor := 1 + stats.Trend

		compared := ComparedSimilar
		switch {
		case trendFactor > f.higherThreshold:
			compared = ComparedHigher
		case trendFactor < f.lowerThreshold:
			compared = ComparedLower
		}

		var share float64
		if snap.TotalSpend > 0 {
			share = stats.Total / snap.TotalSpend
		}

		rec := CategoryRecommendation{
			Category:          category,
			Amount:            roundInt(stats.Average * trendFactor * seasonal),
			PercentOfTotal:    share * 100,
			ComparedToAverage: compared,
		}
		if trendFactor > f.warningTrend && share > f.warningShare {
			rec.Warning = fmt.Sprintf("spending on %s is rising fast and already makes up %.0f%% of your total", category, share*100)
		}
		breakdown = append(breakdown, rec)
	}
	sortBreakdown(breakdown)
	return breakdown
}

func (f *Forecaster) confidence(snap *profile.Snapshot) int {
	events := clampTerm(float64(snap.EventCount), confidenceEventTarget, confidenceEventWeight)
	weeks := clampTerm(float64(len(snap.WeeklyTotals)), confidenceWeekTarget, confidenceWeekWeight)
	categories := clampTerm(float64(len(snap.Categories)), confidenceCategoryTarget, confidenceCategoryWeight)

	confidence := roundInt(events + weeks + categories)
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return confidence
}

// rationale builds the ordered plain-language summary: history size, overall
// trend, then any fast-rising categories.
func (f *Forecaster) rationale(snap *profile.Snapshot, trend float64, breakdown []CategoryRecommendation) []string {
	lines := []string{
		fmt.Sprintf("based on %d events across %d weeks of history", snap.EventCount, len(snap.WeeklyTotals)),
	}

	switch {
	case trend > 0:
		lines = append(lines, fmt.Sprintf("overall spending is trending up by about %.0f%% week over week", trend*100))
	case trend < 0:
		lines = append(lines, fmt.Sprintf("overall spending is trending down by about %.0f%% week over week", -trend*100))
	default:
		lines = append(lines, "overall spending has been roughly flat")
	}

	for _, rec := range breakdown {
		if rec.Warning != "" {
			lines = append(lines, fmt.Sprintf("watch %s: it is growing faster than the rest of your budget", rec.Category))
		}
	}
	return lines
}

// seasonalFactor averages the day-of-week and month multipliers for now.
func seasonalFactor(now time.Time) float64 {
	return (dayFactors[now.Weekday()] + monthFactors[now.Month()]) / 2
}

// clampTerm scales value/target onto [0, weight].
func clampTerm(value, target, weight float64) float64 {
	term := weight * value / target
	if term > weight {
		return weight
	}
	if term < 0 {
		return 0
	}
	return term
}

// sortBreakdown orders categories by spend share, largest first, with the
// name as a stable tiebreak.
func sortBreakdown(breakdown []CategoryRecommendation) {
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].PercentOfTotal != breakdown[j].PercentOfTotal {
			return breakdown[i].PercentOfTotal > breakdown[j].PercentOfTotal
		}
		return breakdown[i].Category < breakdown[j].Category
	})
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
