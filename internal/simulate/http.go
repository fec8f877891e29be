package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// client wraps the HTTP calls against the engine's API.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(cfg *Config) *client {
	return &client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *client) createSession(ctx context.Context) (string, error) {
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := c.post(ctx, "/sessions", nil, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

func (c *client) postTurn(ctx context.Context, sessionID, message string, interests []string) (*decision, error) {
	body := map[string]any{
		"visitor_message": message,
		"ai_response":     "Happy to help with that.",
	}
	if len(interests) > 0 {
		body["interests"] = interests
	}
	var d decision
	if err := c.post(ctx, "/sessions/"+sessionID+"/turns", body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *client) postVideo(ctx context.Context, sessionID string) (*decision, error) {
	var d decision
	if err := c.post(ctx, "/sessions/"+sessionID+"/videos", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *client) postTick(ctx context.Context, sessionID string, durationSeconds int) (*decision, error) {
	body := map[string]int{"session_duration_seconds": durationSeconds}
	var d decision
	if err := c.post(ctx, "/sessions/"+sessionID+"/ticks", body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *client) postOutcome(ctx context.Context, eventID, sessionID, triggerType, outcome string) error {
	body := map[string]string{
		"event_id":     eventID,
		"session_id":   sessionID,
		"trigger_type": triggerType,
		"outcome":      outcome,
	}
	return c.post(ctx, "/outcomes", body, nil)
}

func (c *client) getMetrics(ctx context.Context) (*ctaMetrics, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cta/metrics", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get metrics: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get metrics: unexpected status %d", resp.StatusCode)
	}
	var m ctaMetrics
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	return &m, nil
}

// post sends a JSON body and decodes a JSON response when out is non-nil.
func (c *client) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post %s: unexpected status %d", path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
