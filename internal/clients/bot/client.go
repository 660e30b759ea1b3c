package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"voicebot-relay/internal/observability"
)

// ForwardRequest is the payload posted to the text bot for one caller turn.
// The bot replies asynchronously to WebhookURL, echoing ID so the reply can
// be matched to its call.
type ForwardRequest struct {
	ID          string `json:"id"`
	TextRequest string `json:"textRequest"`
	Language    string `json:"language"`
	WebhookURL  string `json:"webhookUrl"`
}

// Client posts caller transcripts to the Conversational Agent endpoint.
type Client struct {
	botURL     string
	httpClient *http.Client
	logger     *observability.Logger
}

// NewClient creates a bot forwarding client for the given bot URL
func NewClient(botURL string, logger *observability.Logger) *Client {
	return &Client{
		botURL: botURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Forward sends one transcript to the bot. The reply arrives later on the
// webhook; a non-2xx status here only means the bot never received the turn.
func (c *Client) Forward(ctx context.Context, req ForwardRequest) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_uuid", Value: req.ID},
		observability.Field{Key: "bot_url", Value: c.botURL},
	)

	payload, err := json.Marshal(req)
	if err != nil {
		c.logger.Error(ctx, "failed to marshal bot request", err)
		return fmt.Errorf("failed to prepare bot request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.botURL, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error(ctx, "failed to create bot request", err)
		return fmt.Errorf("failed to create bot request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error(ctx, "bot request failed", err)
		return fmt.Errorf("bot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("bot returned status %d", resp.StatusCode)
		c.logger.Error(ctx, "bot rejected forwarded transcript", err)
		return err
	}

	c.logger.Info(ctx, "transcript forwarded to bot")
	return nil
}
