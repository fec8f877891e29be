// Package model contains domain models passed between layers.
package model

import "time"

// TriggerType classifies what kind of heuristic produced a CTA trigger.
type TriggerType string

// Trigger type values.
const (
	TriggerTimeBased       TriggerType = "time_based"
	TriggerEngagementBased TriggerType = "engagement_based"
	TriggerIntentBased     TriggerType = "intent_based"
	TriggerAIRecommended   TriggerType = "ai_recommended"
)

// Urgency is a presentation hint controlling how assertively a trigger is surfaced.
type Urgency string

// Urgency values.
const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Timing tells the presentation layer when, relative to the current turn,
// a trigger should be shown.
type Timing string

// Timing values.
const (
	TimingImmediate  Timing = "immediate"
	TimingDelayed    Timing = "delayed"
	TimingExitIntent Timing = "exit_intent"
)

// Outcome records what the visitor did with a shown CTA.
type Outcome string

// Outcome values.
const (
	OutcomeShown     Outcome = "shown"
	OutcomeClicked   Outcome = "clicked"
	OutcomeDismissed Outcome = "dismissed"
	OutcomeConverted Outcome = "converted"
)

// Valid reports whether o is one of the known outcome values.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeShown, OutcomeClicked, OutcomeDismissed, OutcomeConverted:
		return true
	default:
		return false
	}
}

// BehaviorRecord is the per-visitor mutable aggregate of engagement counters
// for one conversation session. It is owned by the session store and mutated
// only through its serialized operations.
//
// EngagementScore is a cache, not independent state: it is recomputed from
// the numeric counters after every update and must never be set directly.
type BehaviorRecord struct {
	SessionDurationSeconds int      `json:"session_duration_seconds"`
	VideosWatched          int      `json:"videos_watched"`
	QuestionsAsked         int      `json:"questions_asked"`
	MessagesSent           int      `json:"messages_sent"`
	EngagementScore        float64  `json:"engagement_score"`
	SpecificInterests      []string `json:"specific_interests"`
	ConversionSignals      []string `json:"conversion_signals"`
}

// Clone returns a deep copy so analytics snapshots never observe later
// mutations of the live record.
func (r BehaviorRecord) Clone() BehaviorRecord {
	c := r
	if r.SpecificInterests != nil {
		c.SpecificInterests = make([]string, len(r.SpecificInterests))
		copy(c.SpecificInterests, r.SpecificInterests)
	}
	if r.ConversionSignals != nil {
		c.ConversionSignals = make([]string, len(r.ConversionSignals))
		copy(c.ConversionSignals, r.ConversionSignals)
	}
	return c
}

// HasSignal reports whether any of the given tags appears anywhere in the
// session's signal trail. Signals are never cleared during a session, so a
// tag recorded three turns ago still matches now.
func (r BehaviorRecord) HasSignal(tags ...string) bool {
	for _, s := range r.ConversionSignals {
		for _, t := range tags {
			if s == t {
				return true
			}
		}
	}
	return false
}

// CTATrigger is the ephemeral decision output instructing the presentation
// layer to show a conversion prompt. It is produced fresh on each resolver
// invocation and never persisted directly; only its analytics projection is.
type CTATrigger struct {
	Type          TriggerType `json:"type"`
	Urgency       Urgency     `json:"urgency"`
	Reason        string      `json:"reason"`
	Confidence    float64     `json:"confidence"`
	CustomMessage string      `json:"custom_message"`
	Timing        Timing      `json:"timing"`
}

// CTAAnalyticsEvent is the append-only projection of one trigger lifecycle
// event. Instances are never mutated after creation.
type CTAAnalyticsEvent struct {
	TriggerID        string         `json:"trigger_id"`
	TriggerType      string         `json:"trigger_type"`
	BehaviorSnapshot BehaviorRecord `json:"behavior_snapshot"`
	Timestamp        time.Time      `json:"timestamp"`
	Outcome          Outcome        `json:"outcome"`
	ConversionValue  *float64       `json:"conversion_value,omitempty"`
}

// OutcomeEvent is the transport value reported by the presentation layer
// after the visitor's reaction to a trigger is known. It flows through the
// outcome queue into the analytics recorder.
type OutcomeEvent struct {
	EventID          string         // unique id for idempotency
	SessionID        string         // originating visitor session
	TriggerType      string         // copy of CTATrigger.Type at emission time
	Outcome          Outcome        // shown, clicked, dismissed, converted
	ConversionValue  *float64       // optional, non-negative
	BehaviorSnapshot BehaviorRecord // record state when the trigger fired
}
