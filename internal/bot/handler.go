package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	openaiclient "voicebot-relay/internal/clients/openai"
	"voicebot-relay/internal/observability"

	"github.com/gin-gonic/gin"
)

// botRequest is a forwarded caller turn, as posted by the relay
type botRequest struct {
	ID          string `json:"id"`
	TextRequest string `json:"textRequest"`
	Language    string `json:"language"`
	WebhookURL  string `json:"webhookUrl"`
}

// botCallback is the asynchronous reply delivered to the relay's webhook.
// The field name matches the bot callback wire contract.
type botCallback struct {
	ID              string `json:"id"`
	BotTextResponse string `json:"botTextReponse"`
}

// Handler is a stand-in Conversational Agent: it accepts forwarded turns and
// replies asynchronously on the supplied webhook, either through a chat model
// or with a canned echo when no model is configured.
type Handler struct {
	ai         *openaiclient.Client
	httpClient *http.Client
	logger     *observability.Logger
}

// New creates a demo bot handler. ai may be nil, in which case replies are
// canned echoes.
func New(ai *openaiclient.Client, logger *observability.Logger) Handler {
	return Handler{
		ai: ai,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// HandleBot accepts one forwarded turn, acknowledges immediately, and
// delivers the reply to the caller-supplied webhook
func (h *Handler) HandleBot(c *gin.Context) {
	ctx := c.Request.Context()

	var req botRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.InfoWithError(ctx, "malformed bot request", err)
		c.String(http.StatusOK, "Ok")
		return
	}

	c.String(http.StatusOK, "Ok")

	if req.ID == "" || req.WebhookURL == "" {
		h.logger.Warn(ctx, "bot request missing id or webhook url")
		return
	}

	replyCtx := context.WithoutCancel(ctx)
	go h.reply(replyCtx, req)
}

func (h *Handler) reply(ctx context.Context, req botRequest) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_uuid", Value: req.ID},
	)

	text := h.composeReply(ctx, req.TextRequest)

	payload, err := json.Marshal(botCallback{ID: req.ID, BotTextResponse: text})
	if err != nil {
		h.logger.Error(ctx, "failed to marshal bot callback", err)
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		h.logger.Error(ctx, "failed to create bot callback request", err)
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		h.logger.Error(ctx, "failed to deliver bot reply", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Error(ctx, "bot reply webhook rejected",
			fmt.Errorf("webhook returned status %d", resp.StatusCode))
		return
	}
	h.logger.Info(ctx, "bot reply delivered")
}

func (h *Handler) composeReply(ctx context.Context, text string) string {
	if h.ai != nil {
		reply, err := h.ai.Reply(ctx, text)
		if err == nil && reply != "" {
			return reply
		}
		if err != nil {
			h.logger.InfoWithError(ctx, "chat model unavailable, using canned reply", err)
		}
	}
	if text == "" {
		return "How may I help you?"
	}
	return fmt.Sprintf("You said: %s. How else may I help you?", text)
}
