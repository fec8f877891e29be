package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/Raj7122/dealsense/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When recording a fresh ID", func() {
			seen := d.SeenAndRecord(ctx, "event-1")

			Convey("Then it should not have been seen before", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again should report it as seen", func() {
				So(d.SeenAndRecord(ctx, "event-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording a seen ID", func() {
			d.SeenAndRecord(ctx, "event-2")
			d.Unrecord(ctx, "event-2")

			Convey("Then it should be recordable again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "event-2"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			d.Unrecord(ctx, "never-seen")

			Convey("Then nothing should change", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording distinct IDs", func() {
			for i := 0; i < 100; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("event-%d", i)), ShouldBeFalse)
			}

			Convey("Then size should track them all", func() {
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}

func TestInMemoryDeduper_Eviction(t *testing.T) {
	Convey("Given a deduper bounded to three IDs", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When a fourth ID arrives", func() {
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.SeenAndRecord(ctx, "c")
			d.SeenAndRecord(ctx, "d")

			Convey("Then the oldest should be evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse) // evicted, so fresh again
				So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
			})
		})

		Convey("When an evicted slot is freed by Unrecord", func() {
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.SeenAndRecord(ctx, "c")
			d.Unrecord(ctx, "b")
			d.SeenAndRecord(ctx, "d")

			Convey("Then no eviction should occur", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When many IDs are recorded", func() {
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("event-%d", i))
			}

			Convey("Then none should be evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, "event-0"), ShouldBeTrue)
			})
		})
	})
}

func TestInMemoryDeduper_Concurrency(t *testing.T) {
	Convey("Given a deduper shared across goroutines", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When the same ID is recorded concurrently", func() {
			const goroutines = 16
			fresh := make(chan bool, goroutines)
			var wg sync.WaitGroup
			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					fresh <- !d.SeenAndRecord(ctx, "contested")
				}()
			}
			wg.Wait()
			close(fresh)

			Convey("Then exactly one should win", func() {
				wins := 0
				for f := range fresh {
					if f {
						wins++
					}
				}
				So(wins, ShouldEqual, 1)
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}
