package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	repository "github.com/moneta-app/insight/internal/adapters/repository"
	model "github.com/moneta-app/insight/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func makeEvents(n int, start time.Time) []model.Event {
	events := make([]model.Event, n)
	for i := range events {
		events[i] = model.Event{
			ID:        fmt.Sprintf("evt-%03d", i),
			Amount:    10 + float64(i),
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Merchant:  "Grocer",
			Category:  "groceries",
		}
	}
	return events
}

func TestLog(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	Convey("Given an event log with a small cap", t, func() {
		persister := repository.NewMemoryPersister()
		log := repository.NewLog("fraud", persister, repository.WithCap(5))

		Convey("When appending a malformed event", func() {
			err := log.Append(ctx, model.Event{Amount: -1, Timestamp: start})

			Convey("Then it should be rejected with a validation error", func() {
				So(err, ShouldEqual, model.ErrInvalidAmount)
				So(log.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When appending more events than the cap", func() {
			for _, e := range makeEvents(8, start) {
				So(log.Append(ctx, e), ShouldBeNil)
			}

			Convey("Then the in-memory list holds them all until save", func() {
				So(log.Len(ctx), ShouldEqual, 8)
			})

			Convey("And after save only the most recent N survive, order preserved", func() {
				So(log.Save(ctx), ShouldBeNil)

				stored, err := persister.Load(ctx, "fraud")
				So(err, ShouldBeNil)
				So(len(stored), ShouldEqual, 5)
				So(stored[0].ID, ShouldEqual, "evt-003")
				So(stored[4].ID, ShouldEqual, "evt-007")
			})
		})

		Convey("When reading the history", func() {
			for _, e := range makeEvents(3, start) {
				So(log.Append(ctx, e), ShouldBeNil)
			}
			out := log.All(ctx)

			Convey("Then mutating the copy must not alias internal state", func() {
				out[0].Amount = 9999
				again := log.All(ctx)
				So(again[0].Amount, ShouldEqual, 10)
			})
		})

		Convey("When saving and loading", func() {
			for _, e := range makeEvents(8, start) {
				So(log.Append(ctx, e), ShouldBeNil)
			}
			So(log.Save(ctx), ShouldBeNil)

			reloaded := repository.NewLog("fraud", persister, repository.WithCap(5))
			So(reloaded.Load(ctx), ShouldBeNil)

			Convey("Then the round trip reproduces the capped list in order", func() {
				events := reloaded.All(ctx)
				So(len(events), ShouldEqual, 5)
				for i, e := range events {
					So(e.ID, ShouldEqual, fmt.Sprintf("evt-%03d", i+3))
				}
			})
		})

		Convey("When resetting", func() {
			for _, e := range makeEvents(4, start) {
				So(log.Append(ctx, e), ShouldBeNil)
			}
			So(log.Save(ctx), ShouldBeNil)
			So(log.Reset(ctx), ShouldBeNil)

			Convey("Then both memory and storage are empty", func() {
				So(log.Len(ctx), ShouldEqual, 0)
				stored, err := persister.Load(ctx, "fraud")
				So(err, ShouldBeNil)
				So(len(stored), ShouldEqual, 0)
			})
		})

		Convey("Then namespaces stay isolated", func() {
			other := repository.NewLog("budget", persister, repository.WithCap(5))
			So(log.Append(ctx, makeEvents(1, start)[0]), ShouldBeNil)
			So(log.Save(ctx), ShouldBeNil)

			So(other.Load(ctx), ShouldBeNil)
			So(other.Len(ctx), ShouldEqual, 0)
		})
	})
}
