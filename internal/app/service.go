// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	outcomequeue "github.com/Raj7122/dealsense/internal/adapters/mq/queue"
	workerpool "github.com/Raj7122/dealsense/internal/adapters/mq/worker"
	repository "github.com/Raj7122/dealsense/internal/adapters/repository"
	"github.com/Raj7122/dealsense/internal/domain/action"
	"github.com/Raj7122/dealsense/internal/domain/analytics"
	"github.com/Raj7122/dealsense/internal/domain/dedupe"
	"github.com/Raj7122/dealsense/internal/domain/model"
	"github.com/Raj7122/dealsense/internal/domain/signals"
	"github.com/Raj7122/dealsense/internal/domain/trigger"
	"github.com/Raj7122/dealsense/pkg/logger"
	"github.com/Raj7122/dealsense/pkg/metrics"
)

// Service implements the API dependencies for the CTA engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessions     repository.Store
	recorder     *analytics.Recorder
	deduper      dedupe.Deduper
	outcomeQueue outcomequeue.Queue
	workerPool   *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	ctaSubject  string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of outcome worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the outcome queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the outcome idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of shards in the session store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithCTASubject names the product in personalized CTA messages.
func WithCTASubject(subject string) Option {
	return func(s *Service) {
		if subject != "" {
			s.ctaSubject = subject
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		dedupeSize:  50_000,
		shardCount:  8,
		ctaSubject:  "the product",
		logger:      nil, // resolved at Start
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting CTA engine...")

	s.sessions = repository.NewSessionStore(ctx,
		repository.WithShardCount(s.shardCount),
	)
	s.recorder = analytics.NewRecorder()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.outcomeQueue = outcomequeue.NewInMemoryQueue(
		outcomequeue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.outcomeQueue, s.recorder)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "CTA engine started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("shardCount", s.shardCount),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping CTA engine...")

	if s.outcomeQueue != nil {
		_ = s.outcomeQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "CTA engine stopped")
}

// CreateSession registers a new visitor session.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	id, err := s.sessions.Create(ctx)
	if err != nil {
		return "", err
	}
	metrics.UpdateActiveSessions(s.sessions.Count(ctx))
	s.logger.Debug(ctx, "session created", logger.String("sessionID", id))
	return id, nil
}

// GetSession returns a snapshot of the session's behavior record.
func (s *Service) GetSession(ctx context.Context, sessionID string) (model.BehaviorRecord, error) {
	return s.sessions.Get(ctx, sessionID)
}

// EndSession discards the session's record.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.End(ctx, sessionID); err != nil {
		return err
	}
	metrics.UpdateActiveSessions(s.sessions.Count(ctx))
	return nil
}

// ProcessTurn folds one visitor utterance into the session's record and
// resolves the CTA decision for this turn. The trigger is nil when no rule
// matches. Interests are advisory topic tags supplied by the caller's
// conversation-analysis layer; they feed message personalization only and
// never gate a trigger.
func (s *Service) ProcessTurn(ctx context.Context, sessionID, visitorMessage, aiResponse string, interests []string) (model.BehaviorRecord, *model.CTATrigger, error) {
	sigs := signals.Extract(visitorMessage, aiResponse)
	for _, sig := range sigs {
		metrics.RecordSignalExtracted(string(sig))
	}
	questioned := strings.Contains(visitorMessage, "?")

	rec, err := s.sessions.ApplyTurn(ctx, sessionID, signals.Tags(sigs), questioned, interests)
	if err != nil {
		return model.BehaviorRecord{}, nil, err
	}
	metrics.RecordTurnProcessed()

	return rec, s.resolve(ctx, sessionID, rec), nil
}

// RecordVideo notes a video playback and re-resolves the CTA decision.
func (s *Service) RecordVideo(ctx context.Context, sessionID string) (model.BehaviorRecord, *model.CTATrigger, error) {
	rec, err := s.sessions.RecordVideo(ctx, sessionID)
	if err != nil {
		return model.BehaviorRecord{}, nil, err
	}
	return rec, s.resolve(ctx, sessionID, rec), nil
}

// Tick updates the session duration and re-resolves the CTA decision. This
// is the caller-driven timer: timing-sensitive rules fire because the
// conversation layer re-invokes the resolver, not because the engine owns a
// timer.
func (s *Service) Tick(ctx context.Context, sessionID string, durationSeconds int) (model.BehaviorRecord, *model.CTATrigger, error) {
	rec, err := s.sessions.Tick(ctx, sessionID, durationSeconds)
	if err != nil {
		return model.BehaviorRecord{}, nil, err
	}
	return rec, s.resolve(ctx, sessionID, rec), nil
}

// resolve runs the trigger rules over a record snapshot and tracks metrics.
func (s *Service) resolve(ctx context.Context, sessionID string, rec model.BehaviorRecord) *model.CTATrigger {
	start := time.Now()
	t := trigger.Resolve(rec)
	metrics.RecordResolveLatency(float64(time.Since(start).Milliseconds()))

	if t == nil {
		metrics.RecordTriggerHeld()
		return nil
	}
	metrics.RecordTriggerEmitted(string(t.Type), string(t.Urgency))
	s.logger.Debug(ctx, "trigger emitted",
		logger.String("sessionID", sessionID),
		logger.String("type", string(t.Type)),
		logger.String("urgency", string(t.Urgency)),
		logger.String("reason", t.Reason),
		logger.Float64("confidence", t.Confidence),
	)
	return t
}

// DecodeAction strictly decodes a vendor action payload. ShowCTA actions
// missing a message are enriched with the personalization helper when the
// originating session is known.
func (s *Service) DecodeAction(ctx context.Context, sessionID string, payload []byte) (action.Action, error) {
	a, err := action.Decode(payload)
	if err != nil {
		return action.Action{}, err
	}

	if a.Kind == action.ShowCTA && a.Message == "" && sessionID != "" {
		rec, err := s.sessions.Get(ctx, sessionID)
		if err == nil {
			subject := a.Subject
			if subject == "" {
				subject = s.ctaSubject
			}
			a.Message = trigger.PersonalizedMessage(rec, subject)
		}
	}
	return a, nil
}

// SeenAndRecord atomically checks if an outcome event id was seen and
// records it if not. Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordOutcomeDuplicate()
	}
	return seen
}

// Unrecord removes an outcome event ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// EnqueueOutcome submits a trigger outcome for asynchronous recording.
// Returns false on backpressure. The behavior snapshot is filled from the
// live session when the presentation layer did not provide one and the
// session is still alive.
func (s *Service) EnqueueOutcome(ctx context.Context, ev model.OutcomeEvent) bool {
	if ev.SessionID != "" && isZeroRecord(ev.BehaviorSnapshot) {
		if rec, err := s.sessions.Get(ctx, ev.SessionID); err == nil {
			ev.BehaviorSnapshot = rec
		}
	}

	ok := s.outcomeQueue.Enqueue(ctx, ev)
	if !ok {
		s.logger.Warn(ctx, "outcome queue backpressure",
			logger.String("eventID", ev.EventID),
		)
	}
	return ok
}

// isZeroRecord reports whether a snapshot carries no information at all.
func isZeroRecord(r model.BehaviorRecord) bool {
	return r.SessionDurationSeconds == 0 && r.VideosWatched == 0 &&
		r.QuestionsAsked == 0 && r.MessagesSent == 0 &&
		len(r.SpecificInterests) == 0 && len(r.ConversionSignals) == 0
}

// CTAMetrics computes the aggregate conversion metrics and refreshes the
// related gauges.
func (s *Service) CTAMetrics(ctx context.Context) analytics.Metrics {
	m := s.recorder.Metrics(ctx)
	metrics.UpdateConversionRate(m.ConversionRate)
	metrics.UpdateAnalyticsEvents(m.TotalTriggers)
	return m
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"shardCount":  s.shardCount,
	}

	if s.started {
		activeSessions := s.sessions.Count(ctx)
		queueLen := s.outcomeQueue.Len(ctx)
		stats["activeSessions"] = activeSessions
		stats["queueLength"] = queueLen
		stats["analyticsEvents"] = s.recorder.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateActiveSessions(activeSessions)
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return stats
}
