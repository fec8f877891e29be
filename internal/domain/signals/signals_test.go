package signals_test

import (
	"testing"

	signals "github.com/Raj7122/dealsense/internal/domain/signals"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtract(t *testing.T) {
	Convey("Given the signal extractor", t, func() {
		Convey("When the message contains a pricing keyword", func() {
			got := signals.Extract("How much does this cost?", "")

			Convey("Then it should yield the pricing signal once", func() {
				So(got, ShouldResemble, []signals.Signal{signals.Pricing})
			})
		})

		Convey("When the message matches multiple keywords of one category", func() {
			got := signals.Extract("what's the price and the cost and the pricing", "")

			Convey("Then the category should appear only once", func() {
				So(got, ShouldResemble, []signals.Signal{signals.Pricing})
			})
		})

		Convey("When the message spans several categories", func() {
			got := signals.Extract("can we get a demo before we buy? my manager wants pricing", "")

			Convey("Then signals should follow declaration order, not text order", func() {
				So(got, ShouldResemble, []signals.Signal{
					signals.Pricing,
					signals.Buy,
					signals.Demo,
					signals.DecisionMaker,
				})
			})
		})

		Convey("When the message uses mixed case", func() {
			got := signals.Extract("Could you SHOW ME a TRIAL?", "")

			Convey("Then matching should be case-insensitive", func() {
				So(got, ShouldResemble, []signals.Signal{signals.Demo})
			})
		})

		Convey("When the message contains no keywords", func() {
			got := signals.Extract("That makes sense, thanks.", "")

			Convey("Then no signals should be extracted", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the message is empty", func() {
			got := signals.Extract("", "")

			Convey("Then no signals should be extracted", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the AI response carries keywords but the visitor message does not", func() {
			got := signals.Extract("okay", "Our pricing starts at $99 and a demo is available")

			Convey("Then only the visitor message should drive extraction", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When extraction runs twice on the same message", func() {
			first := signals.Extract("when can we get started with the integration?", "")
			second := signals.Extract("when can we get started with the integration?", "")

			Convey("Then results should be identical", func() {
				So(second, ShouldResemble, first)
				So(first, ShouldResemble, []signals.Signal{
					signals.Buy,
					signals.Timeline,
					signals.FeatureInterest,
				})
			})
		})

		Convey("When a keyword appears embedded in a longer word", func() {
			got := signals.Extract("we drove to vsauce headquarters", "")

			Convey("Then substring matching still applies", func() {
				// "vs" matches inside "vsauce"; substring matching is deliberate.
				So(got, ShouldResemble, []signals.Signal{signals.Comparison})
			})
		})
	})
}

func TestTags(t *testing.T) {
	Convey("Given extracted signals", t, func() {
		Convey("When converting a non-empty slice", func() {
			tags := signals.Tags([]signals.Signal{signals.Pricing, signals.Demo})

			Convey("Then order and values should be preserved", func() {
				So(tags, ShouldResemble, []string{"pricing", "demo"})
			})
		})

		Convey("When converting an empty slice", func() {
			Convey("Then the result should be nil", func() {
				So(signals.Tags(nil), ShouldBeNil)
				So(signals.Tags([]signals.Signal{}), ShouldBeNil)
			})
		})
	})
}
