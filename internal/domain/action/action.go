// Package action decodes avatar directives from the conversational-AI
// vendor into a closed set of typed variants.
package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies one of the known avatar directives.
type Kind string

// The closed action set. Unknown names are rejected at the boundary rather
// than silently ignored.
const (
	Speak       Kind = "speak"
	PlayVideo   Kind = "play_video"
	ShowCTA     Kind = "show_cta"
	RequestDemo Kind = "request_demo"
)

// Action is one decoded directive. Exactly the fields relevant to its kind
// are populated.
type Action struct {
	Kind    Kind   `json:"action"`
	Text    string `json:"text,omitempty"`     // Speak
	VideoID string `json:"video_id,omitempty"` // PlayVideo
	Message string `json:"message,omitempty"`  // ShowCTA, RequestDemo
	Subject string `json:"subject,omitempty"`  // ShowCTA personalization subject
}

// payload mirrors the vendor's loosely-typed JSON shape.
type payload struct {
	Action  string `json:"action"`
	Text    string `json:"text"`
	VideoID string `json:"video_id"`
	Message string `json:"message"`
	Subject string `json:"subject"`
}

// Decode parses a single vendor action payload with strict validation.
func Decode(data []byte) (Action, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p payload
	if err := dec.Decode(&p); err != nil {
		return Action{}, fmt.Errorf("%w: %w", ErrMalformedAction, err)
	}

	kind := Kind(strings.ToLower(strings.TrimSpace(p.Action)))
	switch kind {
	case Speak:
		if p.Text == "" {
			return Action{}, fmt.Errorf("%w: speak requires text", ErrMalformedAction)
		}
		return Action{Kind: Speak, Text: p.Text}, nil
	case PlayVideo:
		if p.VideoID == "" {
			return Action{}, fmt.Errorf("%w: play_video requires video_id", ErrMalformedAction)
		}
		return Action{Kind: PlayVideo, VideoID: p.VideoID}, nil
	case ShowCTA:
		return Action{Kind: ShowCTA, Message: p.Message, Subject: p.Subject}, nil
	case RequestDemo:
		return Action{Kind: RequestDemo, Message: p.Message}, nil
	default:
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, p.Action)
	}
}
