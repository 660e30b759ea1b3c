package handler

import (
	"context"
	"net/http"

	"voicebot-relay/internal/apierrors"
	"voicebot-relay/internal/clients/vonage"
	"voicebot-relay/internal/observability"
	"voicebot-relay/internal/relay/processor"

	"github.com/gin-gonic/gin"
)

// placeCallRequest initiates an outbound call to a phone number
type placeCallRequest struct {
	Number string `json:"number" binding:"required"`
}

// callEvent is the platform's call-lifecycle notification payload
type callEvent struct {
	UUID             string `json:"uuid"`
	ConversationUUID string `json:"conversation_uuid"`
	Type             string `json:"type"`
	Status           string `json:"status"`
	Direction        string `json:"direction"`
}

// asrWebhook is the speech-recognition result payload
type asrWebhook struct {
	UUID   string `json:"uuid"`
	Speech struct {
		Results []struct {
			Text       string `json:"text"`
			Confidence string `json:"confidence"`
		} `json:"results"`
		TimeoutReason string `json:"timeout_reason"`
		Error         string `json:"error"`
	} `json:"speech"`
}

// rtcEvent is a real-time call event; audio:speaking:on signals barge-in
type rtcEvent struct {
	Type string `json:"type"`
	Body struct {
		Channel struct {
			ID string `json:"id"`
		} `json:"channel"`
	} `json:"body"`
}

// botReply is the Conversational Agent's asynchronous callback payload.
// The field name matches the bot callback wire contract.
type botReply struct {
	ID              string `json:"id"`
	BotTextResponse string `json:"botTextReponse"`
}

// HandlePlaceCall initiates an outbound call. Unlike the platform webhooks
// below, this is an operator endpoint and fails loudly on bad input. The
// request is acknowledged before call creation completes.
func (h *Handler) HandlePlaceCall(c *gin.Context) {
	ctx := c.Request.Context()

	var req placeCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.InfoWithError(ctx, "malformed place call request", err)
		apierrors.BadRequest(c, "INVALID_REQUEST", "number is required")
		return
	}

	c.String(http.StatusOK, "Ok")

	callCtx := context.WithoutCancel(ctx)
	go h.placeCall(callCtx, req.Number)
}

// HandleMakeCall places a test call to the configured callee number
func (h *Handler) HandleMakeCall(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cfg.Vonage.CalleeNumber == "" {
		h.logger.Warn(ctx, "CALLEE_NUMBER is not set, cannot place test call")
		apierrors.ServiceUnavailable(c, "NO_CALLEE_NUMBER", "no test callee number configured", nil)
		return
	}

	c.String(http.StatusOK, "Ok")

	callCtx := context.WithoutCancel(ctx)
	go h.placeCall(callCtx, h.cfg.Vonage.CalleeNumber)
}

func (h *Handler) placeCall(ctx context.Context, number string) {
	host := h.cfg.Server.Hostname
	_, err := h.voiceClient.CreateCall(ctx, vonage.CreateCallRequest{
		To:           []vonage.Endpoint{vonage.PhoneEndpoint(number)},
		From:         vonage.PhoneEndpoint(h.cfg.Vonage.ServiceNumber),
		AnswerURL:    []string{"https://" + host + "/answer"},
		AnswerMethod: "GET",
		EventURL:     []string{"https://" + host + "/event"},
		EventMethod:  "POST",
	})
	if err != nil {
		h.logger.Error(ctx, "failed to place outbound call", err)
	}
}

// HandleAnswer returns the initial instruction list for an answered call
func (h *Handler) HandleAnswer(c *gin.Context) {
	ctx := c.Request.Context()

	callUUID := c.Query("uuid")
	if callUUID == "" {
		h.logger.Warn(ctx, "answer webhook without call uuid")
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	c.JSON(http.StatusOK, h.relayProcessor.OnCallAnswered(ctx, callUUID))
}

// HandleEvent consumes call-lifecycle notifications
func (h *Handler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var event callEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.InfoWithError(ctx, "malformed call event", err)
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, gin.H{})

	if event.UUID == "" {
		return
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "event_type", Value: event.Type},
		observability.Field{Key: "call_status", Value: event.Status},
	)

	if event.Type == "transfer" {
		h.relayProcessor.OnTransferEvent(ctx, event.UUID)
	}
	if event.Status == "completed" {
		h.relayProcessor.OnCallCompleted(ctx, event.UUID)
	}
}

// HandleASR consumes a speech-recognition outcome and responds with the next
// instruction list
func (h *Handler) HandleASR(c *gin.Context) {
	ctx := c.Request.Context()

	var payload asrWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.InfoWithError(ctx, "malformed ASR webhook", err)
		c.String(http.StatusOK, "Ok")
		return
	}
	if payload.UUID == "" {
		h.logger.Warn(ctx, "ASR webhook without call uuid")
		c.String(http.StatusOK, "Ok")
		return
	}

	// A results array with an empty transcript is a no-match, handled the
	// same as a timeout.
	var outcome processor.SpeechOutcome
	if len(payload.Speech.Results) > 0 {
		outcome.Transcript = payload.Speech.Results[0].Text
	}
	outcome.TimeoutReason = payload.Speech.TimeoutReason
	outcome.Error = payload.Speech.Error

	resp := h.relayProcessor.OnSpeechResult(ctx, payload.UUID, outcome)
	if resp == nil {
		c.String(http.StatusOK, "Ok")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRTC consumes real-time call events; a speaking-on event while a
// prompt plays triggers the barge-in interrupt
func (h *Handler) HandleRTC(c *gin.Context) {
	ctx := c.Request.Context()

	var event rtcEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.InfoWithError(ctx, "malformed RTC event", err)
		c.String(http.StatusOK, "Ok")
		return
	}

	c.String(http.StatusOK, "Ok")

	if event.Type != "audio:speaking:on" || event.Body.Channel.ID == "" {
		return
	}
	h.relayProcessor.OnBargeIn(ctx, event.Body.Channel.ID)
}

// HandleBotReply consumes the bot's asynchronous text reply
func (h *Handler) HandleBotReply(c *gin.Context) {
	ctx := c.Request.Context()

	var reply botReply
	if err := c.ShouldBindJSON(&reply); err != nil {
		h.logger.InfoWithError(ctx, "malformed bot reply", err)
		c.String(http.StatusOK, "Ok")
		return
	}

	c.String(http.StatusOK, "Ok")

	if reply.ID == "" {
		h.logger.Warn(ctx, "bot reply without call id")
		return
	}
	h.relayProcessor.OnBotReply(ctx, reply.ID, reply.BotTextResponse)
}

// HandleMonitor upgrades to a websocket streaming live call events
func (h *Handler) HandleMonitor(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "monitor websocket upgrade failed", err)
		return
	}
	h.hub.Subscribe(ctx, conn)
}
