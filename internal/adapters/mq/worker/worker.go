// Package worker drains the outcome queue into the analytics recorder.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Raj7122/dealsense/internal/domain/model"
	"github.com/Raj7122/dealsense/pkg/logger"
	"github.com/Raj7122/dealsense/pkg/metrics"
)

// Worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Event is what workers read off the queue.
type Event = model.OutcomeEvent

// Recorder appends outcome events to the analytics log.
type Recorder interface {
	Record(ctx context.Context, ev model.OutcomeEvent) model.CTAAnalyticsEvent
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes outcome events from the queue.
type Worker struct {
	queue    Queue
	recorder Recorder
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewWorker creates a new worker.
func NewWorker(queue Queue, recorder Recorder, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled, shutdown is signaled,
// or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.processEvent(ctx, event)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.signalShutdown()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processEvent appends a single outcome event to the analytics log.
func (w *Worker) processEvent(ctx context.Context, event Event) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if !event.Outcome.Valid() && event.Outcome != "" {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "invalid_outcome")
		w.logger.Warn(ctx, "dropping outcome event with invalid outcome",
			logger.String("eventID", event.EventID),
			logger.String("outcome", string(event.Outcome)),
		)
		return
	}

	stored := w.recorder.Record(ctx, event)
	metrics.RecordOutcome(string(stored.Outcome))
	w.logger.Debug(ctx, "recorded outcome",
		logger.String("triggerID", stored.TriggerID),
		logger.String("triggerType", stored.TriggerType),
		logger.String("outcome", string(stored.Outcome)),
	)
}

// Pool manages multiple workers draining the same queue.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(queue, recorder, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.signalShutdown()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

func (w *Worker) signalShutdown() {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
}
