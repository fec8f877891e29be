package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	repository "github.com/Raj7122/dealsense/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSessionStore(t *testing.T) {
	Convey("Given a new session store", t, func() {
		ctx := context.Background()
		store := repository.NewSessionStore(ctx)

		Convey("When creating a session", func() {
			id, err := store.Create(ctx)

			Convey("Then it should be retrievable with a zeroed record", func() {
				So(err, ShouldBeNil)
				So(id, ShouldNotBeEmpty)

				rec, err := store.Get(ctx, id)
				So(err, ShouldBeNil)
				So(rec.MessagesSent, ShouldEqual, 0)
				So(rec.EngagementScore, ShouldEqual, 0)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When looking up an unknown session", func() {
			_, err := store.Get(ctx, "no-such-session")

			Convey("Then it should report not found", func() {
				So(errors.Is(err, repository.ErrSessionNotFound), ShouldBeTrue)
			})
		})

		Convey("When applying a turn", func() {
			id, _ := store.Create(ctx)
			rec, err := store.ApplyTurn(ctx, id, []string{"pricing"}, true, []string{"reporting"})

			Convey("Then counters, signals, and interests should update", func() {
				So(err, ShouldBeNil)
				So(rec.MessagesSent, ShouldEqual, 1)
				So(rec.QuestionsAsked, ShouldEqual, 1)
				So(rec.ConversionSignals, ShouldResemble, []string{"pricing"})
				So(rec.SpecificInterests, ShouldResemble, []string{"reporting"})
			})

			Convey("And the engagement score should be recomputed", func() {
				// 1 question (0.1) + 1 message (0.02)
				So(rec.EngagementScore, ShouldAlmostEqual, 0.12, 1e-9)
			})

			Convey("And a repeated interest should not duplicate", func() {
				rec, err := store.ApplyTurn(ctx, id, nil, false, []string{"reporting"})
				So(err, ShouldBeNil)
				So(rec.SpecificInterests, ShouldResemble, []string{"reporting"})
			})

			Convey("And repeated signal tags should accumulate", func() {
				rec, err := store.ApplyTurn(ctx, id, []string{"pricing"}, false, nil)
				So(err, ShouldBeNil)
				So(rec.ConversionSignals, ShouldResemble, []string{"pricing", "pricing"})
			})
		})

		Convey("When recording a video", func() {
			id, _ := store.Create(ctx)
			rec, err := store.RecordVideo(ctx, id)

			Convey("Then the counter and score should update", func() {
				So(err, ShouldBeNil)
				So(rec.VideosWatched, ShouldEqual, 1)
				So(rec.EngagementScore, ShouldAlmostEqual, 0.1, 1e-9)
			})
		})

		Convey("When ticking the session clock", func() {
			id, _ := store.Create(ctx)
			rec, err := store.Tick(ctx, id, 120)

			Convey("Then the duration should advance", func() {
				So(err, ShouldBeNil)
				So(rec.SessionDurationSeconds, ShouldEqual, 120)
			})

			Convey("And a stale lower tick should not move it backwards", func() {
				rec, err := store.Tick(ctx, id, 60)
				So(err, ShouldBeNil)
				So(rec.SessionDurationSeconds, ShouldEqual, 120)
			})
		})

		Convey("When mutating a returned snapshot", func() {
			id, _ := store.Create(ctx)
			rec, _ := store.ApplyTurn(ctx, id, []string{"demo"}, false, nil)
			rec.ConversionSignals[0] = "mutated"

			Convey("Then the stored record should be unaffected", func() {
				fresh, err := store.Get(ctx, id)
				So(err, ShouldBeNil)
				So(fresh.ConversionSignals, ShouldResemble, []string{"demo"})
			})
		})

		Convey("When ending a session", func() {
			id, _ := store.Create(ctx)
			err := store.End(ctx, id)

			Convey("Then it should be gone", func() {
				So(err, ShouldBeNil)
				_, err := store.Get(ctx, id)
				So(errors.Is(err, repository.ErrSessionNotFound), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)
			})

			Convey("And ending it twice should report not found", func() {
				So(errors.Is(store.End(ctx, id), repository.ErrSessionNotFound), ShouldBeTrue)
			})
		})

		Convey("When mutating an unknown session", func() {
			_, turnErr := store.ApplyTurn(ctx, "nope", nil, false, nil)
			_, videoErr := store.RecordVideo(ctx, "nope")
			_, tickErr := store.Tick(ctx, "nope", 10)

			Convey("Then every mutation should report not found", func() {
				So(errors.Is(turnErr, repository.ErrSessionNotFound), ShouldBeTrue)
				So(errors.Is(videoErr, repository.ErrSessionNotFound), ShouldBeTrue)
				So(errors.Is(tickErr, repository.ErrSessionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestSessionStore_Sharding(t *testing.T) {
	Convey("Given a store with a single shard", t, func() {
		ctx := context.Background()
		store := repository.NewSessionStore(ctx, repository.WithShardCount(1))

		Convey("When creating many sessions", func() {
			for i := 0; i < 50; i++ {
				_, err := store.Create(ctx)
				So(err, ShouldBeNil)
			}

			Convey("Then all should be counted", func() {
				So(store.Count(ctx), ShouldEqual, 50)
			})
		})
	})

	Convey("Given a store under concurrent mutation", t, func() {
		ctx := context.Background()
		store := repository.NewSessionStore(ctx)
		id, _ := store.Create(ctx)

		Convey("When goroutines hammer one session", func() {
			const goroutines = 8
			const turnsEach = 25
			var wg sync.WaitGroup
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < turnsEach; i++ {
						_, _ = store.ApplyTurn(ctx, id, nil, true, nil)
					}
				}()
			}
			wg.Wait()

			Convey("Then no update should be lost", func() {
				rec, err := store.Get(ctx, id)
				So(err, ShouldBeNil)
				So(rec.MessagesSent, ShouldEqual, goroutines*turnsEach)
				So(rec.QuestionsAsked, ShouldEqual, goroutines*turnsEach)
			})
		})
	})
}
