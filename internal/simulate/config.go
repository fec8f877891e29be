// Package simulate drives the CTA engine's HTTP API with synthetic visitor
// sessions for load and behavior testing.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Sessions int           // Number of visitor sessions to simulate
	Turns    int           // Conversational turns per session
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for simulator output
	Verbose  bool          // Enable verbose logging
}

// Stats holds simulation statistics.
type Stats struct {
	SessionsCreated  int
	TurnsSubmitted   int
	VideosReported   int
	TriggersReceived int
	OutcomesPosted   int
	RequestsFailed   int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

// decision mirrors the API's decision response shape.
type decision struct {
	SessionID string `json:"session_id"`
	Behavior  struct {
		VideosWatched     int      `json:"videos_watched"`
		QuestionsAsked    int      `json:"questions_asked"`
		MessagesSent      int      `json:"messages_sent"`
		EngagementScore   float64  `json:"engagement_score"`
		ConversionSignals []string `json:"conversion_signals"`
	} `json:"behavior"`
	Trigger *struct {
		Type          string  `json:"type"`
		Urgency       string  `json:"urgency"`
		Reason        string  `json:"reason"`
		Confidence    float64 `json:"confidence"`
		CustomMessage string  `json:"custom_message"`
		Timing        string  `json:"timing"`
	} `json:"trigger"`
}

// ctaMetrics mirrors GET /cta/metrics.
type ctaMetrics struct {
	TotalTriggers          int      `json:"total_triggers"`
	ConversionRate         float64  `json:"conversion_rate"`
	AverageConversionValue float64  `json:"average_conversion_value"`
	TopPerformingTriggers  []string `json:"top_performing_triggers"`
}
