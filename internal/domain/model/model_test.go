package model_test

import (
	"testing"

	model "github.com/Raj7122/dealsense/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOutcomeValid(t *testing.T) {
	Convey("Given the outcome enum", t, func() {
		Convey("Then the known values should validate", func() {
			for _, o := range []model.Outcome{
				model.OutcomeShown,
				model.OutcomeClicked,
				model.OutcomeDismissed,
				model.OutcomeConverted,
			} {
				So(o.Valid(), ShouldBeTrue)
			}
		})

		Convey("Then anything else should be rejected", func() {
			So(model.Outcome("").Valid(), ShouldBeFalse)
			So(model.Outcome("exploded").Valid(), ShouldBeFalse)
			So(model.Outcome("Shown").Valid(), ShouldBeFalse)
		})
	})
}

func TestBehaviorRecordClone(t *testing.T) {
	Convey("Given a behavior record with slices", t, func() {
		r := model.BehaviorRecord{
			SessionDurationSeconds: 120,
			VideosWatched:          2,
			SpecificInterests:      []string{"reporting"},
			ConversionSignals:      []string{"pricing", "demo"},
		}

		Convey("When cloning it", func() {
			c := r.Clone()

			Convey("Then scalar fields should match", func() {
				So(c.SessionDurationSeconds, ShouldEqual, 120)
				So(c.VideosWatched, ShouldEqual, 2)
			})

			Convey("And mutating the clone's slices should not touch the original", func() {
				c.ConversionSignals[0] = "mutated"
				c.SpecificInterests[0] = "mutated"
				So(r.ConversionSignals[0], ShouldEqual, "pricing")
				So(r.SpecificInterests[0], ShouldEqual, "reporting")
			})
		})

		Convey("When cloning a record with nil slices", func() {
			c := model.BehaviorRecord{}.Clone()

			Convey("Then the slices should stay nil", func() {
				So(c.SpecificInterests, ShouldBeNil)
				So(c.ConversionSignals, ShouldBeNil)
			})
		})
	})
}

func TestBehaviorRecordHasSignal(t *testing.T) {
	Convey("Given a record with a signal trail", t, func() {
		r := model.BehaviorRecord{ConversionSignals: []string{"pricing", "demo", "pricing"}}

		Convey("Then present tags should match", func() {
			So(r.HasSignal("pricing"), ShouldBeTrue)
			So(r.HasSignal("demo"), ShouldBeTrue)
		})

		Convey("Then any-of semantics should apply", func() {
			So(r.HasSignal("buy", "demo"), ShouldBeTrue)
			So(r.HasSignal("buy", "trial"), ShouldBeFalse)
		})

		Convey("Then an empty trail should never match", func() {
			So(model.BehaviorRecord{}.HasSignal("pricing"), ShouldBeFalse)
		})

		Convey("Then matching should be exact, not substring", func() {
			So(r.HasSignal("price"), ShouldBeFalse)
		})
	})
}
