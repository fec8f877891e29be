package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/Raj7122/dealsense/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		ctx := context.Background()
		for _, key := range []string{
			"DEALSENSE_CONFIG",
			"DEALSENSE_ADDR",
			"DEALSENSE_LOG_LEVEL",
			"DEALSENSE_QUEUE_SIZE",
			"DEALSENSE_WORKER_COUNT",
			"DEALSENSE_CTA_SUBJECT",
		} {
			So(os.Unsetenv(key), ShouldBeNil)
		}

		Convey("When loading with nothing set", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults should apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
				So(cfg.OutcomeQueueSize, ShouldEqual, 10_000)
			})
		})

		Convey("When environment variables override defaults", func() {
			So(os.Setenv("DEALSENSE_ADDR", ":8123"), ShouldBeNil)
			So(os.Setenv("DEALSENSE_LOG_LEVEL", "debug"), ShouldBeNil)
			So(os.Setenv("DEALSENSE_QUEUE_SIZE", "500"), ShouldBeNil)
			So(os.Setenv("DEALSENSE_CTA_SUBJECT", "Acme CRM"), ShouldBeNil)
			defer func() {
				_ = os.Unsetenv("DEALSENSE_ADDR")
				_ = os.Unsetenv("DEALSENSE_LOG_LEVEL")
				_ = os.Unsetenv("DEALSENSE_QUEUE_SIZE")
				_ = os.Unsetenv("DEALSENSE_CTA_SUBJECT")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then the overrides should win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8123")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.OutcomeQueueSize, ShouldEqual, 500)
				So(cfg.CTASubject, ShouldEqual, "Acme CRM")
			})

			Convey("And untouched fields should keep defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.ShardCount, ShouldEqual, 8)
			})
		})

		Convey("When a YAML file provides values", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			content := []byte("addr: \":7070\"\nlog_level: warn\n")
			So(os.WriteFile(path, content, 0600), ShouldBeNil)
			So(os.Setenv("DEALSENSE_CONFIG", path), ShouldBeNil)
			defer func() { _ = os.Unsetenv("DEALSENSE_CONFIG") }()

			cfg, err := config.Load(ctx)

			Convey("Then file values should override defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.LogLevel, ShouldEqual, "warn")
			})

			Convey("And environment variables should override the file", func() {
				So(os.Setenv("DEALSENSE_ADDR", ":6060"), ShouldBeNil)
				defer func() { _ = os.Unsetenv("DEALSENSE_ADDR") }()

				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
			})
		})

		Convey("When the config file path is bogus", func() {
			So(os.Setenv("DEALSENSE_CONFIG", "/nonexistent/config.yaml"), ShouldBeNil)
			defer func() { _ = os.Unsetenv("DEALSENSE_CONFIG") }()

			_, err := config.Load(ctx)

			Convey("Then loading should fail with the load sentinel", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When the address is blanked out", func() {
			So(os.Setenv("DEALSENSE_ADDR", ""), ShouldBeNil)
			defer func() { _ = os.Unsetenv("DEALSENSE_ADDR") }()

			_, err := config.Load(ctx)

			Convey("Then validation should reject it", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the queue size is non-positive", func() {
			So(os.Setenv("DEALSENSE_QUEUE_SIZE", "0"), ShouldBeNil)
			defer func() { _ = os.Unsetenv("DEALSENSE_QUEUE_SIZE") }()

			_, err := config.Load(ctx)

			Convey("Then validation should reject it", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
