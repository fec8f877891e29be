package logger_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	logger "github.com/Raj7122/dealsense/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("When fetching the global logger", func() {
			l := logger.Get()

			Convey("Then it should not be nil", func() {
				So(l, ShouldNotBeNil)
			})

			Convey("And logging at every level should not panic", func() {
				So(func() {
					l.Debug(ctx, "debug line", logger.String("k", "v"))
					l.Info(ctx, "info line", logger.Int("count", 3))
					l.Warn(ctx, "warn line", logger.Float64("ratio", 0.5))
					l.Error(ctx, "error line", logger.Error(errors.New("boom")))
				}, ShouldNotPanic)
			})
		})

		Convey("When deriving a named logger", func() {
			named := logger.Named("component")

			Convey("Then it should log without panicking", func() {
				So(named, ShouldNotBeNil)
				So(func() { named.Info(ctx, "nested", logger.Bool("ok", true)) }, ShouldNotPanic)
			})

			Convey("And it should nest further", func() {
				So(func() { named.Named("inner").Info(ctx, "deeper") }, ShouldNotPanic)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the level parser", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When setting recognized levels", func() {
			for _, level := range []string{"debug", "info", "WARN", "warning", "Error", ""} {
				So(logger.SetLevelString(level), ShouldBeNil)
			}
		})

		Convey("When setting an unknown level", func() {
			err := logger.SetLevelString("shouty")

			Convey("Then it should be rejected", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "shouty")
			})
		})

		Convey("When setting a level directly", func() {
			So(func() { logger.SetLevel(slog.LevelDebug) }, ShouldNotPanic)
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field constructors", t, func() {
		Convey("Then each should carry its key and value", func() {
			So(logger.String("a", "b"), ShouldResemble, logger.Field{Key: "a", Value: "b"})
			So(logger.Int("n", 7), ShouldResemble, logger.Field{Key: "n", Value: 7})
			So(logger.Float64("f", 1.5), ShouldResemble, logger.Field{Key: "f", Value: 1.5})
			So(logger.Bool("ok", true), ShouldResemble, logger.Field{Key: "ok", Value: true})
			So(logger.Any("x", []int{1}), ShouldResemble, logger.Field{Key: "x", Value: []int{1}})

			err := errors.New("boom")
			So(logger.Error(err), ShouldResemble, logger.Field{Key: "error", Value: err})
		})
	})
}
