package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DiscordSink posts bulletins to a Discord webhook.
type DiscordSink struct {
	webhookURL     string
	username       string
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

type discordPayload struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

// NewDiscordSink creates a Discord webhook sink.
func NewDiscordSink(webhookURL, username string, timeout time.Duration, maxRetries int, retryDelayBase time.Duration) *DiscordSink {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &DiscordSink{
		webhookURL:     webhookURL,
		username:       username,
		httpClient:     &http.Client{Timeout: timeout},
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

func (s *DiscordSink) Name() string { return "discord" }

// Deliver posts the message with linear-backoff retry. Discord answers a
// webhook post with 204 No Content.
func (s *DiscordSink) Deliver(ctx context.Context, message string) error {
	body, err := json.Marshal(discordPayload{Content: message, Username: s.username})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		if err := s.post(ctx, body); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(s.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", s.maxRetries, lastErr)
}

func (s *DiscordSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook rejected message: status %d", resp.StatusCode)
	}
	return nil
}
