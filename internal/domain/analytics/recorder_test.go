package analytics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	analytics "github.com/Raj7122/dealsense/internal/domain/analytics"
	"github.com/Raj7122/dealsense/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder_Record(t *testing.T) {
	Convey("Given a fresh recorder with a fixed clock and ID source", t, func() {
		fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		seq := 0
		rec := analytics.NewRecorder(
			analytics.WithClock(func() time.Time { return fixed }),
			analytics.WithIDGenerator(func() string {
				seq++
				return fmt.Sprintf("trigger-%d", seq)
			}),
		)
		ctx := context.Background()

		Convey("When recording a complete event", func() {
			value := 250.0
			stored := rec.Record(ctx, model.OutcomeEvent{
				TriggerType:     "intent_based",
				Outcome:         model.OutcomeConverted,
				ConversionValue: &value,
				BehaviorSnapshot: model.BehaviorRecord{
					VideosWatched: 2,
				},
			})

			Convey("Then it should be stored with a fresh ID and timestamp", func() {
				So(stored.TriggerID, ShouldEqual, "trigger-1")
				So(stored.Timestamp, ShouldEqual, fixed)
				So(stored.TriggerType, ShouldEqual, "intent_based")
				So(stored.Outcome, ShouldEqual, model.OutcomeConverted)
				So(*stored.ConversionValue, ShouldEqual, 250.0)
				So(rec.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When recording with missing fields", func() {
			stored := rec.Record(ctx, model.OutcomeEvent{})

			Convey("Then outcome and type should default", func() {
				So(stored.Outcome, ShouldEqual, model.OutcomeShown)
				So(stored.TriggerType, ShouldEqual, "unknown")
				So(stored.ConversionValue, ShouldBeNil)
			})
		})

		Convey("When the caller mutates the snapshot after recording", func() {
			snapshot := model.BehaviorRecord{ConversionSignals: []string{"pricing"}}
			rec.Record(ctx, model.OutcomeEvent{BehaviorSnapshot: snapshot})
			snapshot.ConversionSignals[0] = "mutated"

			Convey("Then the stored copy should be unaffected", func() {
				events := rec.Events(ctx)
				So(events, ShouldHaveLength, 1)
				So(events[0].BehaviorSnapshot.ConversionSignals, ShouldResemble, []string{"pricing"})
			})
		})

		Convey("When recording several events", func() {
			rec.Record(ctx, model.OutcomeEvent{TriggerType: "a"})
			rec.Record(ctx, model.OutcomeEvent{TriggerType: "b"})
			rec.Record(ctx, model.OutcomeEvent{TriggerType: "c"})

			Convey("Then IDs should be unique and the log append-only", func() {
				events := rec.Events(ctx)
				So(events, ShouldHaveLength, 3)
				So(events[0].TriggerID, ShouldEqual, "trigger-1")
				So(events[1].TriggerID, ShouldEqual, "trigger-2")
				So(events[2].TriggerID, ShouldEqual, "trigger-3")
			})
		})
	})
}

func TestRecorder_Metrics(t *testing.T) {
	Convey("Given a recorder", t, func() {
		rec := analytics.NewRecorder()
		ctx := context.Background()

		Convey("When no events have been recorded", func() {
			m := rec.Metrics(ctx)

			Convey("Then all aggregates should be zero", func() {
				So(m.TotalTriggers, ShouldEqual, 0)
				So(m.ConversionRate, ShouldEqual, 0)
				So(m.AverageConversionValue, ShouldEqual, 0)
				So(m.TopPerformingTriggers, ShouldBeEmpty)
			})
		})

		Convey("When two are shown and one converts with value", func() {
			value := 100.0
			rec.Record(ctx, model.OutcomeEvent{TriggerType: "intent_based", Outcome: model.OutcomeShown})
			rec.Record(ctx, model.OutcomeEvent{TriggerType: "intent_based", Outcome: model.OutcomeShown})
			rec.Record(ctx, model.OutcomeEvent{
				TriggerType:     "engagement_based",
				Outcome:         model.OutcomeConverted,
				ConversionValue: &value,
			})
			m := rec.Metrics(ctx)

			Convey("Then the rate is over all events and value over present values", func() {
				So(m.TotalTriggers, ShouldEqual, 3)
				So(m.ConversionRate, ShouldAlmostEqual, 1.0/3.0, 1e-9)
				So(m.AverageConversionValue, ShouldEqual, 100.0)
			})

			Convey("Then top performers rank by count with first-seen tie-break", func() {
				So(m.TopPerformingTriggers, ShouldResemble, []string{"intent_based", "engagement_based"})
			})
		})

		Convey("When more than three trigger types are present", func() {
			for i, tt := range []string{"a", "b", "c", "d"} {
				for j := 0; j <= i; j++ {
					rec.Record(ctx, model.OutcomeEvent{TriggerType: tt})
				}
			}
			m := rec.Metrics(ctx)

			Convey("Then only the top three should be reported", func() {
				So(m.TopPerformingTriggers, ShouldResemble, []string{"d", "c", "b"})
			})
		})

		Convey("When counts are tied", func() {
			rec.Record(ctx, model.OutcomeEvent{TriggerType: "later"})
			rec.Record(ctx, model.OutcomeEvent{TriggerType: "earlier"})
			rec.Record(ctx, model.OutcomeEvent{TriggerType: "earlier"})
			rec.Record(ctx, model.OutcomeEvent{TriggerType: "later"})
			m := rec.Metrics(ctx)

			Convey("Then first-seen order should break the tie", func() {
				So(m.TopPerformingTriggers, ShouldResemble, []string{"later", "earlier"})
			})
		})

		Convey("When conversion values are missing on some conversions", func() {
			value := 80.0
			rec.Record(ctx, model.OutcomeEvent{Outcome: model.OutcomeConverted, ConversionValue: &value})
			rec.Record(ctx, model.OutcomeEvent{Outcome: model.OutcomeConverted})
			m := rec.Metrics(ctx)

			Convey("Then the average should span only present values", func() {
				So(m.ConversionRate, ShouldEqual, 1.0)
				So(m.AverageConversionValue, ShouldEqual, 80.0)
			})
		})
	})
}

func TestRecorder_Concurrency(t *testing.T) {
	Convey("Given a recorder shared across goroutines", t, func() {
		rec := analytics.NewRecorder()
		ctx := context.Background()

		Convey("When recording and reading concurrently", func() {
			done := make(chan struct{})
			for i := 0; i < 8; i++ {
				go func() {
					defer func() { done <- struct{}{} }()
					for j := 0; j < 50; j++ {
						rec.Record(ctx, model.OutcomeEvent{TriggerType: "intent_based"})
						_ = rec.Metrics(ctx)
					}
				}()
			}
			for i := 0; i < 8; i++ {
				<-done
			}

			Convey("Then every event should be accounted for", func() {
				So(rec.Count(ctx), ShouldEqual, 400)
				So(rec.Metrics(ctx).TotalTriggers, ShouldEqual, 400)
			})
		})
	})
}
