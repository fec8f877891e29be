package trigger

import (
	"fmt"
	"strings"

	"github.com/Raj7122/dealsense/internal/domain/model"
)

// Personalization thresholds for the externally-triggered CTA path.
const (
	combinedCountVideos    = 2
	combinedCountQuestions = 2
	durationMessageSecs    = 300
)

// PersonalizedMessage enriches an externally-decided CTA with message text.
//
// This is a deliberately separate decision tree from Resolve: the AI model
// (or another caller) has already decided that a CTA should be shown, and
// only the wording is chosen here. Resolve alone gates whether a CTA is
// shown at all; the two must not be merged.
func PersonalizedMessage(r model.BehaviorRecord, subject string) string {
	if subject == "" {
		subject = "the product"
	}

	switch {
	case r.VideosWatched > combinedCountVideos && r.QuestionsAsked > combinedCountQuestions:
		return fmt.Sprintf(
			"You've watched %d videos and asked %d questions about %s. Let's connect you with our team for a personalized walkthrough.",
			r.VideosWatched, r.QuestionsAsked, subject)

	case len(r.SpecificInterests) > 0:
		return fmt.Sprintf(
			"I noticed you're interested in %s. Want to see how %s handles that for teams like yours?",
			strings.Join(r.SpecificInterests, ", "), subject)

	case r.SessionDurationSeconds > durationMessageSecs:
		return fmt.Sprintf(
			"You've spent %d minutes with %s already. Ready to take the next step?",
			roundMinutes(r.SessionDurationSeconds), subject)

	default:
		return fmt.Sprintf("Interested in learning more about %s? Let's set up a quick call.", subject)
	}
}
