package simulate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Raj7122/dealsense/pkg/logger"
)

// Per-session pacing constants.
const (
	videoEveryNTurns = 3
	tickStepSeconds  = 45
	settleDelay      = 500 * time.Millisecond
)

// Run executes the simulation: spins up worker goroutines, each walking
// whole visitor sessions through create/turn/video/tick, posting outcomes
// for every received trigger, and finally verifies that the analytics log
// reflects them.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("simulate")
	c := newClient(cfg)

	stats := &Stats{StartTime: time.Now()}
	var (
		turns     atomic.Int64
		videos    atomic.Int64
		triggers  atomic.Int64
		outcomes  atomic.Int64
		failures  atomic.Int64
		sessionCh = make(chan int)
	)

	log.Info(ctx, "starting simulation",
		logger.Int("sessions", cfg.Sessions),
		logger.Int("turnsPerSession", cfg.Turns),
		logger.Int("workers", cfg.Workers),
		logger.String("baseURL", cfg.BaseURL),
	)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range sessionCh {
				if err := runSession(ctx, c, cfg, &turns, &videos, &triggers, &outcomes); err != nil {
					failures.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "session failed", logger.Error(err))
					}
				}
			}
		}()
	}

	for i := 0; i < cfg.Sessions; i++ {
		select {
		case sessionCh <- i:
		case <-ctx.Done():
			close(sessionCh)
			wg.Wait()
			return fmt.Errorf("simulation cancelled: %w", ctx.Err())
		}
	}
	close(sessionCh)
	wg.Wait()

	// Let the outcome workers drain the queue before reading metrics.
	time.Sleep(settleDelay)

	stats.SessionsCreated = cfg.Sessions - int(failures.Load())
	stats.TurnsSubmitted = int(turns.Load())
	stats.VideosReported = int(videos.Load())
	stats.TriggersReceived = int(triggers.Load())
	stats.OutcomesPosted = int(outcomes.Load())
	stats.RequestsFailed = int(failures.Load())
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	return verify(ctx, c, stats, log)
}

// runSession walks one synthetic visitor through a whole conversation.
func runSession(ctx context.Context, c *client, cfg *Config, turns, videos, triggers, outcomes *atomic.Int64) error {
	sessionID, err := c.createSession(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	duration := 0
	for t := 0; t < cfg.Turns; t++ {
		d, err := c.postTurn(ctx, sessionID, nextUtterance(), nextInterests())
		if err != nil {
			return fmt.Errorf("turn %d: %w", t, err)
		}
		turns.Add(1)
		if err := reportTrigger(ctx, c, sessionID, d, triggers, outcomes); err != nil {
			return err
		}

		if (t+1)%videoEveryNTurns == 0 {
			d, err := c.postVideo(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("video after turn %d: %w", t, err)
			}
			videos.Add(1)
			if err := reportTrigger(ctx, c, sessionID, d, triggers, outcomes); err != nil {
				return err
			}
		}

		duration += tickStepSeconds
		d, err = c.postTick(ctx, sessionID, duration)
		if err != nil {
			return fmt.Errorf("tick after turn %d: %w", t, err)
		}
		if err := reportTrigger(ctx, c, sessionID, d, triggers, outcomes); err != nil {
			return err
		}
	}
	return nil
}

// reportTrigger posts an outcome for a received trigger, if any.
func reportTrigger(ctx context.Context, c *client, sessionID string, d *decision, triggers, outcomes *atomic.Int64) error {
	if d == nil || d.Trigger == nil {
		return nil
	}
	triggers.Add(1)
	eventID := uuid.New().String()
	if err := c.postOutcome(ctx, eventID, sessionID, d.Trigger.Type, nextOutcome()); err != nil {
		return fmt.Errorf("post outcome: %w", err)
	}
	outcomes.Add(1)
	return nil
}

// verify fetches the aggregate metrics and checks the round-trip.
func verify(ctx context.Context, c *client, stats *Stats, log logger.Logger) error {
	m, err := c.getMetrics(ctx)
	if err != nil {
		return fmt.Errorf("fetch metrics: %w", err)
	}

	log.Info(ctx, "simulation finished",
		logger.Int("sessions", stats.SessionsCreated),
		logger.Int("turns", stats.TurnsSubmitted),
		logger.Int("videos", stats.VideosReported),
		logger.Int("triggersReceived", stats.TriggersReceived),
		logger.Int("outcomesPosted", stats.OutcomesPosted),
		logger.Int("failed", stats.RequestsFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Int("recordedTriggers", m.TotalTriggers),
		logger.Float64("conversionRate", m.ConversionRate),
	)

	if m.TotalTriggers < stats.OutcomesPosted {
		return fmt.Errorf("analytics round-trip short: posted %d outcomes, recorded %d",
			stats.OutcomesPosted, m.TotalTriggers)
	}
	return nil
}
