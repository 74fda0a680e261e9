// Package profile rebuilds aggregate statistics over the event history.
//
// A Snapshot is derived wholesale from the event set it was built from and is
// never partially mutated; it is valid only relative to that exact set and
// goes stale the instant another event is appended. Rebuilds are O(n) over
// the capped history and idempotent.
package profile

import (
	"sort"
	"time"

	"github.com/moneta-app/insight/internal/domain/model"
)

// Default builder configuration constants.
const (
	defaultMinSamples        = 5
	defaultGridPrecision     = 2 // decimal places; ~1.1 km cells at the equator
	defaultTopLocations      = 10
	defaultTrendWeeks        = 6
	defaultTrendClamp        = 0.3
	defaultTrendSampleWindow = 10
)

// GridCell is a frequent location: a coordinate rounded onto a fixed grid
// with its occurrence count. This is fixed-resolution grid clustering, not a
// proper clustering algorithm.
type GridCell struct {
	Lat   float64
	Lon   float64
	Count int
}

// CategoryStats aggregates one spending category.
type CategoryStats struct {
	Count   int
	Total   float64
	Average float64
	Median  float64
	Stdev   float64
	Trend   float64 // clamped trend coefficient, early vs late half comparison
}

// WeekTotal is the spend total for one ISO week.
type WeekTotal struct {
	Year  int
	Week  int
	Total float64
}

// Snapshot is the statistical baseline derived from the event history.
type Snapshot struct {
	EventCount int
	Fit        bool // false below the minimum sample count; use cold-start paths
	BuiltAt    time.Time

	// Fraud aggregates
	AmountMean   float64
	AmountStdev  float64
	MerchantFreq map[string]int
	CategoryFreq map[string]int
	HourHist     [24]int
	DayHist      [7]int
	TopLocations []GridCell
	Timestamps   []time.Time // ascending; used by burst/recency features

	// Budget aggregates
	WeeklyTotals []WeekTotal // chronological
	WeeklyTrend  float64
	Categories   map[string]CategoryStats
	TotalSpend   float64
}

// Builder rebuilds a Snapshot from the current event set.
type Builder interface {
	Build(events []model.Event) *Snapshot
}

// FraudProfiler builds the transaction-side baseline: amount distribution,
// merchant/category frequencies, time-of-day and day-of-week histograms and
// frequent locations.
type FraudProfiler struct {
	minSamples    int
	gridPrecision int
	topLocations  int
}

// NewFraudProfiler creates a fraud-side builder with configuration options.
func NewFraudProfiler(opts ...FraudOption) *FraudProfiler {
	p := &FraudProfiler{
		minSamples:    defaultMinSamples,
		gridPrecision: defaultGridPrecision,
		topLocations:  defaultTopLocations,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build computes the fraud aggregates in one pass over events.
func (p *FraudProfiler) Build(events []model.Event) *Snapshot {
	snap := &Snapshot{
		EventCount:   len(events),
		Fit:          len(events) >= p.minSamples,
		BuiltAt:      time.Now(),
		MerchantFreq: make(map[string]int),
		CategoryFreq: make(map[string]int),
	}

	amounts := make([]float64, 0, len(events))
	cells := make(map[GridCell]int)
	snap.Timestamps = make([]time.Time, 0, len(events))

	for _, e := range events {
		amounts = append(amounts, e.Amount)
		snap.MerchantFreq[e.Merchant]++
		snap.CategoryFreq[e.Category]++
		snap.HourHist[e.Timestamp.Hour()]++
		snap.DayHist[int(e.Timestamp.Weekday())]++
		snap.Timestamps = append(snap.Timestamps, e.Timestamp)

		if e.Location != nil {
			cell := GridCell{
				Lat: roundToGrid(e.Location.Lat, p.gridPrecision),
				Lon: roundToGrid(e.Location.Lon, p.gridPrecision),
			}
			cells[cell]++
		}
	}

	snap.AmountMean = mean(amounts)
	snap.AmountStdev = stdev(amounts, snap.AmountMean)
	snap.TopLocations = rankCells(cells, p.topLocations)

	sort.Slice(snap.Timestamps, func(i, j int) bool {
		return snap.Timestamps[i].Before(snap.Timestamps[j])
	})

	return snap
}

// BudgetProfiler builds the spending-side baseline: weekly totals, the
// overall weekly trend and per-category statistics.
type BudgetProfiler struct {
	minSamples        int
	trendWeeks        int
	trendClamp        float64
	trendSampleWindow int
}

// NewBudgetProfiler creates a budget-side builder with configuration options.
func NewBudgetProfiler(opts ...BudgetOption) *BudgetProfiler {
	p := &BudgetProfiler{
		minSamples:        defaultMinSamples,
		trendWeeks:        defaultTrendWeeks,
		trendClamp:        defaultTrendClamp,
		trendSampleWindow: defaultTrendSampleWindow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build computes the budget aggregates from events.
func (p *BudgetProfiler) Build(events []model.Event) *Snapshot {
	snap := &Snapshot{
		EventCount: len(events),
		Fit:        len(events) >= p.minSamples,
		BuiltAt:    time.Now(),
		Categories: make(map[string]CategoryStats),
	}

	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	weeks := make(map[[2]int]float64)
	perCategory := make(map[string][]float64) // chronological amounts

	for _, e := range sorted {
		snap.TotalSpend += e.Amount
		year, week := e.Timestamp.ISOWeek()
		weeks[[2]int{year, week}] += e.Amount
		perCategory[e.Category] = append(perCategory[e.Category], e.Amount)
	}

	snap.WeeklyTotals = sortWeeks(weeks)

	// Overall trend from the most recent weekly totals.
	recent := snap.WeeklyTotals
	if len(recent) > p.trendWeeks {
		recent = recent[len(recent)-p.trendWeeks:]
	}
	totals := make([]float64, len(recent))
	for i, w := range recent {
		totals[i] = w.Total
	}
	snap.WeeklyTrend = halfSplitTrend(totals, p.trendClamp)

	for category, amounts := range perCategory {
		m := mean(amounts)
		trendWindow := amounts
		if len(trendWindow) > p.trendSampleWindow {
			trendWindow = trendWindow[len(trendWindow)-p.trendSampleWindow:]
		}
		snap.Categories[category] = CategoryStats{
			Count:   len(amounts),
			Total:   sum(amounts),
			Average: m,
			Median:  median(amounts),
			Stdev:   stdev(amounts, m),
			Trend:   halfSplitTrend(trendWindow, p.trendClamp),
		}
	}

	return snap
}

func sortWeeks(weeks map[[2]int]float64) []WeekTotal {
	out := make([]WeekTotal, 0, len(weeks))
	for key, total := range weeks {
		out = append(out, WeekTotal{Year: key[0], Week: key[1], Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}
