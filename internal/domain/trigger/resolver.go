// Package trigger decides whether, and with what message, to interrupt an
// avatar conversation with a conversion prompt.
package trigger

import (
	"fmt"
	"math"

	"github.com/Raj7122/dealsense/internal/domain/engagement"
	"github.com/Raj7122/dealsense/internal/domain/model"
	"github.com/Raj7122/dealsense/internal/domain/signals"
)

// Rule thresholds. Evaluation order encodes business priority: intent
// signals preempt generic engagement and time heuristics even when a later
// rule would also match.
const (
	highEngagementScore  = 0.8
	highEngagementVideos = 2

	extendedSessionSecs   = 300
	extendedSessionVideos = 1

	repeatQuestionCount = 3
	repeatQuestionScore = 0.6

	exitIntentSecs  = 180
	exitIntentScore = 0.4

	secondsPerMinute = 60
)

// Rule confidence levels.
const (
	confidenceHighEngagement = 0.9
	confidencePricing        = 0.95
	confidencePurchase       = 0.98
	confidenceDemo           = 0.85
	confidenceExtended       = 0.7
	confidenceRepeatQuestion = 0.75
	confidenceExitIntent     = 0.6
)

// Resolve evaluates the trigger rules top to bottom against a behavior
// record snapshot and returns the first match, or nil when no rule matches
// and no CTA should be shown this turn.
//
// Resolve is a pure function of the record: no hidden state, no I/O. It is
// invoked on the conversation hot path and never panics for any well-formed
// record; suspect inputs are sanitized inward rather than propagated.
func Resolve(r model.BehaviorRecord) *model.CTATrigger {
	// The score field is cache; recompute so a stale or hand-built record
	// cannot bypass a rule.
	score := engagement.Score(r)

	switch {
	case r.HasSignal(string(signals.Pricing), "cost"):
		return &model.CTATrigger{
			Type:          model.TriggerIntentBased,
			Urgency:       model.UrgencyHigh,
			Reason:        "Pricing inquiry detected",
			Confidence:    confidencePricing,
			CustomMessage: "Since you're interested in pricing, let's set up a call to discuss a plan that fits your needs.",
			Timing:        model.TimingImmediate,
		}

	case r.HasSignal(string(signals.Buy), "purchase", "get started"):
		return &model.CTATrigger{
			Type:          model.TriggerIntentBased,
			Urgency:       model.UrgencyHigh,
			Reason:        "Purchase intent detected",
			Confidence:    confidencePurchase,
			CustomMessage: "Sounds like you're ready to get started. Let's make it happen.",
			Timing:        model.TimingImmediate,
		}

	case r.HasSignal(string(signals.Demo), "trial"):
		return &model.CTATrigger{
			Type:          model.TriggerIntentBased,
			Urgency:       model.UrgencyMedium,
			Reason:        "Demo request detected",
			Confidence:    confidenceDemo,
			CustomMessage: "Want to try it yourself? I can set you up with a personalized demo right now.",
			Timing:        model.TimingImmediate,
		}

	case score > highEngagementScore && r.VideosWatched >= highEngagementVideos:
		return &model.CTATrigger{
			Type:       model.TriggerEngagementBased,
			Urgency:    model.UrgencyHigh,
			Reason:     "High engagement detected",
			Confidence: confidenceHighEngagement,
			CustomMessage: fmt.Sprintf(
				"You've watched %d videos and asked %d questions. Ready to see how this works for your team?",
				r.VideosWatched, r.QuestionsAsked),
			Timing: model.TimingImmediate,
		}

	case r.SessionDurationSeconds > extendedSessionSecs && r.VideosWatched >= extendedSessionVideos:
		return &model.CTATrigger{
			Type:       model.TriggerTimeBased,
			Urgency:    model.UrgencyMedium,
			Reason:     "Extended session engagement",
			Confidence: confidenceExtended,
			CustomMessage: fmt.Sprintf(
				"You've spent %d minutes exploring the product. Shall we talk about next steps?",
				roundMinutes(r.SessionDurationSeconds)),
			Timing: model.TimingDelayed,
		}

	case r.QuestionsAsked >= repeatQuestionCount && score > repeatQuestionScore:
		return &model.CTATrigger{
			Type:          model.TriggerEngagementBased,
			Urgency:       model.UrgencyMedium,
			Reason:        "Repeated questioning pattern",
			Confidence:    confidenceRepeatQuestion,
			CustomMessage: "You've got great questions. A specialist can answer all of them on a quick call.",
			Timing:        model.TimingImmediate,
		}

	case r.SessionDurationSeconds > exitIntentSecs && score < exitIntentScore:
		return &model.CTATrigger{
			Type:          model.TriggerEngagementBased,
			Urgency:       model.UrgencyLow,
			Reason:        "Low engagement exit risk",
			Confidence:    confidenceExitIntent,
			CustomMessage: "Before you go, can I send you a summary of what we covered?",
			Timing:        model.TimingExitIntent,
		}
	}

	return nil
}

// roundMinutes converts a duration in seconds to whole minutes, rounded.
func roundMinutes(seconds int) int {
	if seconds < 0 {
		return 0
	}
	return int(math.Round(float64(seconds) / secondsPerMinute))
}
