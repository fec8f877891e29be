// Package signals categorizes visitor utterances into buying-intent tags.
package signals

import "strings"

// Signal is a categorical tag inferred from visitor text indicating a topic
// of buying-relevant interest.
type Signal string

// Signal categories, in evaluation order.
const (
	Pricing         Signal = "pricing"
	Buy             Signal = "buy"
	Demo            Signal = "demo"
	Comparison      Signal = "comparison"
	Timeline        Signal = "timeline"
	FeatureInterest Signal = "feature_interest"
	DecisionMaker   Signal = "decision_maker"
)

// category pairs a signal with its trigger keywords. Matching is
// category-level: a message hitting two keywords of the same category still
// yields that category once.
type category struct {
	signal   Signal
	keywords []string
}

// categories declares the keyword sets. Output order of Extract follows this
// declaration order, not input-text order.
var categories = []category{
	{Pricing, []string{"price", "cost", "pricing", "how much", "expensive"}},
	{Buy, []string{"buy", "purchase", "get started", "sign up", "subscribe"}},
	{Demo, []string{"demo", "trial", "test", "try it", "show me"}},
	{Comparison, []string{"compare", "alternative", "vs", "better than", "different from"}},
	{Timeline, []string{"when", "how long", "timeline", "asap", "urgent"}},
	{FeatureInterest, []string{"feature", "capability", "can it", "does it", "integration"}},
	{DecisionMaker, []string{"team", "boss", "manager", "decision", "approve"}},
}

// Extract parses a single conversational turn into intent signals.
// Categorization is driven by the visitor message only; the AI response is
// accepted for future use. Case-insensitive substring matching, no state,
// no side effects. The caller appends the result to the session's signal
// trail.
func Extract(visitorMessage, _ string) []Signal {
	msg := strings.ToLower(visitorMessage)
	var out []Signal
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(msg, kw) {
				out = append(out, c.signal)
				break
			}
		}
	}
	return out
}

// Tags converts extracted signals to plain strings for the behavior record's
// signal trail.
func Tags(sigs []Signal) []string {
	if len(sigs) == 0 {
		return nil
	}
	tags := make([]string, len(sigs))
	for i, s := range sigs {
		tags[i] = string(s)
	}
	return tags
}
