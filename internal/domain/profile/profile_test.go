package profile_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	model "github.com/moneta-app/insight/internal/domain/model"
	profile "github.com/moneta-app/insight/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func txn(amount float64, ts time.Time, merchant string) model.Event {
	return model.Event{
		ID:        fmt.Sprintf("%s-%d", merchant, ts.UnixNano()),
		Amount:    amount,
		Timestamp: ts,
		Merchant:  merchant,
		Category:  "general",
	}
}

func TestFraudProfiler(t *testing.T) {
	base := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC) // a Monday

	Convey("Given a history of transactions", t, func() {
		builder := profile.NewFraudProfiler()
		events := []model.Event{
			txn(100, base, "Grocer"),
			txn(100, base.Add(24*time.Hour), "Grocer"),
			txn(100, base.Add(48*time.Hour), "Grocer"),
			txn(200, base.Add(72*time.Hour), "Cinema"),
			txn(100, base.Add(96*time.Hour), "Grocer"),
		}

		Convey("When building the profile", func() {
			snap := builder.Build(events)

			Convey("Then the amount statistics are correct", func() {
				So(snap.EventCount, ShouldEqual, 5)
				So(snap.Fit, ShouldBeTrue)
				So(snap.AmountMean, ShouldEqual, 120)
				So(snap.AmountStdev, ShouldAlmostEqual, 40, 1e-9)
			})

			Convey("Then frequency tables and histograms are filled", func() {
				So(snap.MerchantFreq["Grocer"], ShouldEqual, 4)
				So(snap.MerchantFreq["Cinema"], ShouldEqual, 1)
				So(snap.HourHist[12], ShouldEqual, 5)
				So(snap.DayHist[int(time.Monday)], ShouldEqual, 1)
				So(snap.DayHist[int(time.Friday)], ShouldEqual, 1)
			})

			Convey("Then timestamps come out ascending", func() {
				for i := 1; i < len(snap.Timestamps); i++ {
					So(snap.Timestamps[i].After(snap.Timestamps[i-1]), ShouldBeTrue)
				}
			})
		})

		Convey("When building twice from the same events", func() {
			a := builder.Build(events)
			b := builder.Build(events)

			Convey("Then the aggregates are identical", func() {
				a.BuiltAt = time.Time{}
				b.BuiltAt = time.Time{}
				So(reflect.DeepEqual(a, b), ShouldBeTrue)
			})
		})

		Convey("When the history is below the minimum sample count", func() {
			snap := builder.Build(events[:3])

			Convey("Then the profile reports itself not fit", func() {
				So(snap.Fit, ShouldBeFalse)
				So(snap.EventCount, ShouldEqual, 3)
			})
		})
	})

	Convey("Given transactions with coordinates", t, func() {
		builder := profile.NewFraudProfiler(profile.WithTopLocations(2))

		home := &model.GeoPoint{Lat: 52.3702, Lon: 4.8952}
		homeNearby := &model.GeoPoint{Lat: 52.3704, Lon: 4.8961} // same 0.01 deg cell
		office := &model.GeoPoint{Lat: 52.3105, Lon: 4.7683}
		airport := &model.GeoPoint{Lat: 52.3086, Lon: 4.7639}

		events := []model.Event{}
		for i, loc := range []*model.GeoPoint{home, homeNearby, home, office, office, airport} {
			e := txn(50, base.Add(time.Duration(i)*time.Hour), "Grocer")
			e.Location = loc
			events = append(events, e)
		}

		Convey("When building the profile", func() {
			snap := builder.Build(events)

			Convey("Then nearby points collapse onto one grid cell", func() {
				So(len(snap.TopLocations), ShouldEqual, 2)
				So(snap.TopLocations[0].Lat, ShouldEqual, 52.37)
				So(snap.TopLocations[0].Lon, ShouldEqual, 4.9)
				So(snap.TopLocations[0].Count, ShouldEqual, 3)
			})

			Convey("Then only the top K cells are kept", func() {
				So(len(snap.TopLocations), ShouldBeLessThanOrEqualTo, 2)
			})
		})
	})
}

func expense(amount float64, ts time.Time, category string) model.Event {
	return model.Event{
		ID:        fmt.Sprintf("%s-%d", category, ts.UnixNano()),
		Amount:    amount,
		Timestamp: ts,
		Category:  category,
	}
}

func TestBudgetProfiler(t *testing.T) {
	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	Convey("Given eight weeks of spending", t, func() {
		builder := profile.NewBudgetProfiler()

		var events []model.Event
		for week := 0; week < 8; week++ {
			ts := monday.Add(time.Duration(week) * 7 * 24 * time.Hour)
			events = append(events, expense(100, ts, "groceries"))
			events = append(events, expense(40, ts.Add(2*time.Hour), "transport"))
		}

		Convey("When building the profile", func() {
			snap := builder.Build(events)

			Convey("Then the weekly series covers every week", func() {
				So(len(snap.WeeklyTotals), ShouldEqual, 8)
				for _, w := range snap.WeeklyTotals {
					So(w.Total, ShouldEqual, 140)
				}
			})

			Convey("Then a flat history has zero trend", func() {
				So(snap.WeeklyTrend, ShouldEqual, 0)
				So(snap.Categories["groceries"].Trend, ShouldEqual, 0)
			})

			Convey("Then category statistics are correct", func() {
				groceries := snap.Categories["groceries"]
				So(groceries.Count, ShouldEqual, 8)
				So(groceries.Average, ShouldEqual, 100)
				So(groceries.Median, ShouldEqual, 100)
				So(groceries.Stdev, ShouldEqual, 0)
				So(snap.TotalSpend, ShouldEqual, 8*140)
			})
		})
	})

	Convey("Given a category that doubles every week", t, func() {
		builder := profile.NewBudgetProfiler()

		var events []model.Event
		amount := 10.0
		for week := 0; week < 8; week++ {
			ts := monday.Add(time.Duration(week) * 7 * 24 * time.Hour)
			events = append(events, expense(amount, ts, "dining"))
			events = append(events, expense(50, ts.Add(time.Hour), "groceries"))
			amount *= 2
		}

		Convey("When building the profile", func() {
			snap := builder.Build(events)

			Convey("Then the dining trend saturates at the clamp", func() {
				So(snap.Categories["dining"].Trend, ShouldEqual, 0.3)
				So(snap.Categories["groceries"].Trend, ShouldEqual, 0)
			})

			Convey("Then the weekly trend is clamped too", func() {
				So(snap.WeeklyTrend, ShouldEqual, 0.3)
			})
		})
	})

	Convey("Given a declining weekly spend", t, func() {
		builder := profile.NewBudgetProfiler()

		var events []model.Event
		for week := 0; week < 6; week++ {
			ts := monday.Add(time.Duration(week) * 7 * 24 * time.Hour)
			events = append(events, expense(100-float64(week)*10, ts, "groceries"))
		}

		snap := builder.Build(events)

		Convey("Then the trend is negative and within the clamp", func() {
			So(snap.WeeklyTrend, ShouldBeLessThan, 0)
			So(snap.WeeklyTrend, ShouldBeGreaterThanOrEqualTo, -0.3)
		})
	})

	Convey("Given an empty history", t, func() {
		snap := profile.NewBudgetProfiler().Build(nil)

		Convey("Then the profile is empty and not fit", func() {
			So(snap.Fit, ShouldBeFalse)
			So(snap.EventCount, ShouldEqual, 0)
			So(len(snap.WeeklyTotals), ShouldEqual, 0)
			So(snap.WeeklyTrend, ShouldEqual, 0)
		})
	})
}
