// Package analytics keeps the append-only trigger outcome log and derives
// aggregate conversion metrics from it.
package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Raj7122/dealsense/internal/domain/model"
)

// Number of trigger types reported as top performers.
const topPerformerCount = 3

// Metrics is the aggregate view derived from the event log.
type Metrics struct {
	TotalTriggers          int      `json:"total_triggers"`
	ConversionRate         float64  `json:"conversion_rate"`
	AverageConversionValue float64  `json:"average_conversion_value"`
	TopPerformingTriggers  []string `json:"top_performing_triggers"`
}

// Recorder accumulates CTA analytics events for the lifetime of the process.
// It is the only cross-session shared resource in the engine; the log is
// append-only, so interleaving between sessions does not affect correctness.
//
// A Recorder is constructor-injected and owned by its service, never a
// module-level singleton, so tests and tenants stay isolated.
type Recorder struct {
	mu     sync.RWMutex
	events []model.CTAAnalyticsEvent

	now   func() time.Time
	newID func() string
}

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides the trigger ID source. Used by tests.
func WithIDGenerator(newID func() string) Option {
	return func(r *Recorder) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends one trigger lifecycle event and returns the stored copy.
// A fresh trigger ID is assigned, a missing outcome defaults to shown, a
// missing trigger type defaults to unknown, and the timestamp is stamped at
// call time. Prior events are never edited.
func (r *Recorder) Record(_ context.Context, ev model.OutcomeEvent) model.CTAAnalyticsEvent {
	stored := model.CTAAnalyticsEvent{
		TriggerID:        r.newID(),
		TriggerType:      ev.TriggerType,
		BehaviorSnapshot: ev.BehaviorSnapshot.Clone(),
		Timestamp:        r.now(),
		Outcome:          ev.Outcome,
		ConversionValue:  ev.ConversionValue,
	}
	if stored.TriggerType == "" {
		stored.TriggerType = "unknown"
	}
	if stored.Outcome == "" {
		stored.Outcome = model.OutcomeShown
	}

	r.mu.Lock()
	r.events = append(r.events, stored)
	r.mu.Unlock()
	return stored
}

// Metrics computes aggregates over all recorded events. An event recorded
// before this call is always reflected; there is no buffering.
func (r *Recorder) Metrics(_ context.Context) Metrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m := Metrics{TotalTriggers: len(r.events)}
	if len(r.events) == 0 {
		return m
	}

	converted := 0
	valueSum := 0.0
	valueCount := 0
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for i, ev := range r.events {
		if ev.Outcome == model.OutcomeConverted {
			converted++
		}
		if ev.ConversionValue != nil {
			valueSum += *ev.ConversionValue
			valueCount++
		}
		if _, ok := firstSeen[ev.TriggerType]; !ok {
			firstSeen[ev.TriggerType] = i
		}
		counts[ev.TriggerType]++
	}

	m.ConversionRate = float64(converted) / float64(len(r.events))
	if valueCount > 0 {
		m.AverageConversionValue = valueSum / float64(valueCount)
	}
	m.TopPerformingTriggers = topPerformers(counts, firstSeen)
	return m
}

// Count returns the number of recorded events.
func (r *Recorder) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// Events returns a copy of the log for inspection.
func (r *Recorder) Events(_ context.Context) []model.CTAAnalyticsEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.CTAAnalyticsEvent, len(r.events))
	copy(out, r.events)
	return out
}

// topPerformers ranks trigger types by raw event count, descending, ties
// broken by first-seen order so the result is stable across calls.
func topPerformers(counts map[string]int, firstSeen map[string]int) []string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.SliceStable(types, func(i, j int) bool {
		if counts[types[i]] != counts[types[j]] {
			return counts[types[i]] > counts[types[j]]
		}
		return firstSeen[types[i]] < firstSeen[types[j]]
	})
	if len(types) > topPerformerCount {
		types = types[:topPerformerCount]
	}
	return types
}
