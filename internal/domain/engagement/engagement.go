// Package engagement folds a behavior record into a normalized score.
package engagement

import (
	"math"

	"github.com/Raj7122/dealsense/internal/domain/model"
)

// Component weights and caps. Each component saturates independently; the
// caps sum to 1.0 so the outer clamp is defensive only.
const (
	videoWeight = 0.1
	videoCap    = 0.4

	questionWeight = 0.1
	questionCap    = 0.3

	timeCap            = 0.2
	timeSaturationSecs = 600 // saturates at 10 minutes

	messageWeight = 0.02
	messageCap    = 0.1

	maxScore = 1.0
)

// Score computes the normalized engagement score in [0,1] for a record.
// Pure, deterministic, and monotonic in each counter: increasing any input
// cannot decrease the score. Negative counters are clamped to zero so a
// malformed caller cannot push the score outside [0,1].
func Score(r model.BehaviorRecord) float64 {
	videos := clampNonNegative(r.VideosWatched)
	questions := clampNonNegative(r.QuestionsAsked)
	duration := clampNonNegative(r.SessionDurationSeconds)
	messages := clampNonNegative(r.MessagesSent)

	videoComponent := math.Min(videoCap, float64(videos)*videoWeight)
	questionComponent := math.Min(questionCap, float64(questions)*questionWeight)
	timeComponent := math.Min(timeCap, float64(duration)/timeSaturationSecs*timeCap)
	messageComponent := math.Min(messageCap, float64(messages)*messageWeight)

	return math.Min(maxScore, videoComponent+questionComponent+timeComponent+messageComponent)
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
