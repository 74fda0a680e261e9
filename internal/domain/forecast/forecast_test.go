package forecast_test

import (
	"fmt"
	"testing"
	"time"

	forecast "github.com/moneta-app/insight/internal/domain/forecast"
	model "github.com/moneta-app/insight/internal/domain/model"
	profile "github.com/moneta-app/insight/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

// weeklyHistory lays one event per category per week, starting on a Monday so
// every step lands in a distinct ISO week.
func weeklyHistory(start time.Time, weeks int, amounts func(week int, category string) float64, categories ...string) []model.Event {
	var events []model.Event
	for week := 0; week < weeks; week++ {
		for _, category := range categories {
			events = append(events, model.Event{
				ID:        fmt.Sprintf("evt-%d-%s", week, category),
				Amount:    amounts(week, category),
				Timestamp: start.Add(time.Duration(week) * 7 * 24 * time.Hour),
				Category:  category,
			})
		}
	}
	return events
}

func TestForecasterColdStart(t *testing.T) {
	builder := profile.NewBudgetProfiler()
	forecaster := forecast.NewForecaster()
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	Convey("Given an empty history", t, func() {
		rec := forecaster.Generate(builder.Build(nil), now)

		Convey("Then the floor estimate applies with zero confidence", func() {
			So(rec.WeeklyTotal, ShouldEqual, 50)
			So(rec.NextWeekForecast, ShouldEqual, 50)
			So(rec.ConfidenceScore, ShouldEqual, 0)
			So(rec.CategoryBreakdown, ShouldBeEmpty)
			So(rec.Rationale, ShouldContain, forecast.LowDataRationale)
		})
	})

	Convey("Given three expenses", t, func() {
		start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
		events := []model.Event{
			{ID: "evt-0", Amount: 30, Timestamp: start, Category: "groceries"},
			{ID: "evt-1", Amount: 60, Timestamp: start.Add(24 * time.Hour), Category: "groceries"},
			{ID: "evt-2", Amount: 90, Timestamp: start.Add(48 * time.Hour), Category: "dining"},
		}
		rec := forecaster.Generate(builder.Build(events), now)

		Convey("Then the estimate extrapolates the per-event average", func() {
			// avg 60 per event, assumed 10 events per week
			So(rec.WeeklyTotal, ShouldEqual, 600)
			So(rec.NextWeekForecast, ShouldEqual, 600)
		})

		Convey("Then confidence is capped low and scaled by event count", func() {
			So(rec.ConfidenceScore, ShouldEqual, 15)
			So(rec.ConfidenceScore, ShouldBeLessThanOrEqualTo, 30)
		})

		Convey("Then the low-data rationale line is present", func() {
			So(rec.Rationale[0], ShouldEqual, forecast.LowDataRationale)
		})

		Convey("Then categories split proportionally to observed spend", func() {
			So(rec.CategoryBreakdown, ShouldHaveLength, 2)
			So(rec.CategoryBreakdown[0].Category, ShouldEqual, "dining")
			So(rec.CategoryBreakdown[0].Amount, ShouldEqual, 300)
			So(rec.CategoryBreakdown[0].ComparedToAverage, ShouldEqual, forecast.ComparedSimilar)
		})
	})
}

func TestForecasterWarmPath(t *testing.T) {
	builder := profile.NewBudgetProfiler()
	forecaster := forecast.NewForecaster()

	// Monday, week 2 of 2026.
	start := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // Monday in March

	Convey("Given eight weeks where dining doubles while groceries stay flat", t, func() {
		events := weeklyHistory(start, 8, func(week int, category string) float64 {
			if category == "dining" {
				return 10 * float64(int(1)<<week) // 10, 20, 40, ... 1280
			}
			return 100
		}, "dining", "groceries")
		snap := builder.Build(events)
		rec := forecaster.Generate(snap, now)

		Convey("Then dining is labeled higher and carries a warning", func() {
			So(rec.CategoryBreakdown[0].Category, ShouldEqual, "dining")
			So(rec.CategoryBreakdown[0].ComparedToAverage, ShouldEqual, forecast.ComparedHigher)
			So(rec.CategoryBreakdown[0].Warning, ShouldNotBeEmpty)
		})

		Convey("Then groceries stay similar with no warning", func() {
			So(rec.CategoryBreakdown[1].Category, ShouldEqual, "groceries")
			So(rec.CategoryBreakdown[1].ComparedToAverage, ShouldEqual, forecast.ComparedSimilar)
			So(rec.CategoryBreakdown[1].Warning, ShouldBeEmpty)
		})

		Convey("Then the forecast scales the baseline by trend and season", func() {
			// baseline 418.75, trend clamped to +0.3, seasonal 0.95
			So(rec.WeeklyTotal, ShouldEqual, 419)
			So(rec.NextWeekForecast, ShouldEqual, 517)
		})

		Convey("Then the rising trend selects the higher savings rate", func() {
			So(rec.SavingsRecommendation, ShouldEqual, 103) // 20% of the forecast
		})

		Convey("Then the rationale mentions the trend and the hot category", func() {
			So(rec.Rationale[0], ShouldContainSubstring, "16 events")
			So(rec.Rationale[1], ShouldContainSubstring, "trending up")
			So(rec.Rationale[2], ShouldContainSubstring, "dining")
		})
	})

	Convey("Given eight flat weeks", t, func() {
		events := weeklyHistory(start, 8, func(int, string) float64 { return 100 }, "groceries")
		rec := forecaster.Generate(builder.Build(events), now)

		Convey("Then the flat trend selects the lower savings rate", func() {
			// forecast = 100 * 1.0 * 0.95 = 95, savings 10%
			So(rec.NextWeekForecast, ShouldEqual, 95)
			So(rec.SavingsRecommendation, ShouldEqual, 10)
			So(rec.Rationale[1], ShouldContainSubstring, "flat")
		})
	})

	Convey("Given the same history at a pricier time of year", t, func() {
		events := weeklyHistory(start, 8, func(int, string) float64 { return 100 }, "groceries")
		snap := builder.Build(events)

		// A Tuesday in March against a Saturday in December.
		march := forecaster.Generate(snap, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))
		december := forecaster.Generate(snap, time.Date(2026, 12, 19, 12, 0, 0, 0, time.UTC))

		Convey("Then the December forecast is higher", func() {
			So(december.NextWeekForecast, ShouldBeGreaterThan, march.NextWeekForecast)
		})
	})
}

func TestForecasterConfidence(t *testing.T) {
	forecaster := forecast.NewForecaster()
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	snapshot := func(events, weeks, categories int) *profile.Snapshot {
		snap := &profile.Snapshot{
			EventCount: events,
			Fit:        true,
			Categories: make(map[string]profile.CategoryStats),
		}
		for i := 0; i < weeks; i++ {
			snap.WeeklyTotals = append(snap.WeeklyTotals, profile.WeekTotal{Year: 2026, Week: i + 1, Total: 100})
		}
		for i := 0; i < categories; i++ {
			snap.Categories[fmt.Sprintf("cat-%d", i)] = profile.CategoryStats{Count: 1, Total: 100, Average: 100}
		}
		return snap
	}

	Convey("Given abundant history", t, func() {
		rec := forecaster.Generate(snapshot(300, 80, 50), now)

		Convey("Then confidence clamps at 100", func() {
			So(rec.ConfidenceScore, ShouldEqual, 100)
		})
	})

	Convey("Given each dimension varied with the others held fixed", t, func() {
		Convey("Then confidence is non-decreasing in event count", func() {
			previous := -1
			for events := 0; events <= 60; events += 5 {
				score := forecaster.Generate(snapshot(events, 4, 3), now).ConfidenceScore
				So(score, ShouldBeGreaterThanOrEqualTo, previous)
				previous = score
			}
		})

		Convey("Then confidence is non-decreasing in weeks of history", func() {
			previous := -1
			for weeks := 1; weeks <= 16; weeks++ {
				score := forecaster.Generate(snapshot(20, weeks, 3), now).ConfidenceScore
				So(score, ShouldBeGreaterThanOrEqualTo, previous)
				previous = score
			}
		})

		Convey("Then confidence is non-decreasing in category diversity", func() {
			previous := -1
			for categories := 1; categories <= 10; categories++ {
				score := forecaster.Generate(snapshot(20, 4, categories), now).ConfidenceScore
				So(score, ShouldBeGreaterThanOrEqualTo, previous)
				previous = score
			}
		})
	})

	Convey("Given a single clamped term at its maximum", t, func() {
		Convey("Then event count alone cannot exceed its weight", func() {
			rec := forecaster.Generate(snapshot(10_000, 1, 1), now)
			// events 40 (clamped) + weeks 5 + categories 4
			So(rec.ConfidenceScore, ShouldEqual, 49)
		})
	})
}
