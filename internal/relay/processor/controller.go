package processor

import (
	"context"

	clientbot "voicebot-relay/internal/clients/bot"
	"voicebot-relay/internal/ncco"
	"voicebot-relay/internal/observability"
	"voicebot-relay/internal/relay/monitor"
)

// OnCallAnswered creates the session for a newly answered call and returns
// the initial instruction list for the answer webhook. A duplicate answered
// notification resets the existing session rather than creating a second one.
func (p *RelayProcessor) OnCallAnswered(ctx context.Context, callUUID string) ncco.NCCO {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_uuid", Value: callUUID},
	)

	p.mu.Lock()
	if existing := p.session(callUUID); existing != nil {
		p.logger.Warn(ctx, "duplicate answered notification, resetting session")
	}
	s := &CallSession{
		CallUUID:            callUUID,
		Phase:               PhaseGreeting,
		PendingResponseText: p.flow.initialResponseText(),
	}
	p.sessions[callUUID] = s
	answer := p.flow.answerNCCO(callUUID)
	// The answer instruction arms speech capture, so the turn is now
	// waiting on the caller.
	s.Phase = PhaseAwaitingSpeech
	p.mu.Unlock()

	p.logger.Info(ctx, "call answered, session created")
	p.publish(monitor.Event{CallUUID: callUUID, Kind: "answered", Phase: string(PhaseAwaitingSpeech)})

	return answer
}

// OnSpeechResult consumes one speech-recognition outcome and returns the
// instruction list for the ASR webhook response. A transcript moves the turn
// to the bot; anything else replays the last known text so the caller is
// never left in silence.
func (p *RelayProcessor) OnSpeechResult(ctx context.Context, callUUID string, outcome SpeechOutcome) ncco.NCCO {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_uuid", Value: callUUID},
	)

	p.mu.Lock()
	s := p.session(callUUID)
	if s == nil || s.Phase == PhaseCompleted {
		p.mu.Unlock()
		p.logger.Warn(ctx, "speech result for unknown or completed call, ignoring")
		return nil
	}

	if outcome.HasTranscript() {
		s.Phase = PhaseAwaitingBotReply
		p.mu.Unlock()

		p.logger.Info(observability.WithFields(ctx,
			observability.Field{Key: "transcript", Value: outcome.Transcript},
		), "detected spoken request")
		p.publish(monitor.Event{CallUUID: callUUID, Kind: "transcript", Text: outcome.Transcript,
			Phase: string(PhaseAwaitingBotReply)})

		p.forwardToBot(ctx, callUUID, outcome.Transcript)
		return p.flow.rearmNCCO(callUUID)
	}

	// Timeout, no-match and engine errors all recover the same way.
	fallbackText := s.PendingResponseText
	s.Phase = PhaseSpeaking
	p.mu.Unlock()

	if outcome.TimeoutReason != "" {
		p.logger.Info(observability.WithFields(ctx,
			observability.Field{Key: "timeout_reason", Value: outcome.TimeoutReason},
		), "no speech detected")
	}
	if outcome.Error != "" {
		p.logger.Info(observability.WithFields(ctx,
			observability.Field{Key: "asr_error", Value: outcome.Error},
		), "speech recognition error, replaying last prompt")
	}

	if resp := p.flow.fallbackNCCO(callUUID, fallbackText); resp != nil {
		return resp
	}
	// Out-of-band recovery: replay the last prompt via call transfer.
	deliverCtx := context.WithoutCancel(ctx)
	p.dispatch(func() {
		if err := p.flow.deliverReply(deliverCtx, callUUID, fallbackText); err != nil {
			p.logger.Error(deliverCtx, "failed to replay prompt", err)
		}
	})
	return nil
}

// OnBotReply records the bot's text and speaks it on the call. Replies for
// unknown or completed calls are swallowed: the caller hung up before the
// bot answered.
func (p *RelayProcessor) OnBotReply(ctx context.Context, callUUID, replyText string) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_uuid", Value: callUUID},
	)

	p.mu.Lock()
	s := p.session(callUUID)
	if s == nil || s.Phase == PhaseCompleted {
		p.mu.Unlock()
		p.logger.Info(ctx, "late bot reply for absent call, discarding")
		return
	}
	s.PendingResponseText = replyText
	s.Phase = PhaseSpeaking
	p.mu.Unlock()

	p.logger.Info(ctx, "bot reply received")
	p.publish(monitor.Event{CallUUID: callUUID, Kind: "reply", Text: replyText, Phase: string(PhaseSpeaking)})

	deliverCtx := context.WithoutCancel(ctx)
	p.dispatch(func() {
		if err := p.flow.deliverReply(deliverCtx, callUUID, replyText); err != nil {
			// No retry: the next capture timeout replays the text.
			p.logger.Error(deliverCtx, "failed to speak bot reply", err)
		}
	})
}

// OnBargeIn stops playback when the caller starts speaking over a prompt.
// No-op in any phase other than Speaking.
func (p *RelayProcessor) OnBargeIn(ctx context.Context, callUUID string) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_uuid", Value: callUUID},
	)

	p.mu.Lock()
	s := p.session(callUUID)
	speaking := s != nil && s.Phase == PhaseSpeaking
	p.mu.Unlock()

	if !speaking {
		return
	}

	p.logger.Info(ctx, "caller barged in, stopping playback")
	p.publish(monitor.Event{CallUUID: callUUID, Kind: "barge_in", Phase: string(PhaseSpeaking)})

	stopCtx := context.WithoutCancel(ctx)
	p.dispatch(func() {
		if err := p.voice.StopTTS(stopCtx, callUUID); err != nil {
			p.logger.Error(stopCtx, "failed to stop playback", err)
		}
	})
}

// OnTransferEvent wakes the bot up once the call joins its conversation.
// Only the first transfer event per call triggers the wake-up; the direct
// flow has no transfer leg and ignores the event.
func (p *RelayProcessor) OnTransferEvent(ctx context.Context, callUUID string) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_uuid", Value: callUUID},
	)

	if _, conference := p.flow.(*conferenceFlow); !conference {
		return
	}

	p.mu.Lock()
	s := p.session(callUUID)
	if s == nil {
		// Transfer may be the first event seen for an inbound call.
		s = &CallSession{
			CallUUID:            callUUID,
			Phase:               PhaseGreeting,
			PendingResponseText: p.flow.initialResponseText(),
		}
		p.sessions[callUUID] = s
	}
	if s.FirstTransferDone {
		p.mu.Unlock()
		return
	}
	s.FirstTransferDone = true
	p.mu.Unlock()

	p.logger.Info(ctx, "call joined conversation, waking up bot")
	p.forwardToBot(ctx, callUUID, p.settings.WakeUpBotText)
}

// OnCallCompleted releases the session. Terminal: later events for the same
// call find no session and are ignored.
func (p *RelayProcessor) OnCallCompleted(ctx context.Context, callUUID string) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_uuid", Value: callUUID},
	)

	p.mu.Lock()
	s := p.session(callUUID)
	if s == nil {
		p.mu.Unlock()
		return
	}
	s.Phase = PhaseCompleted
	delete(p.sessions, callUUID)
	p.mu.Unlock()

	p.logger.Info(ctx, "call completed, session released")
	p.publish(monitor.Event{CallUUID: callUUID, Kind: "completed", Phase: string(PhaseCompleted)})
}

// forwardToBot delivers one text turn to the bot, decoupled from the inbound
// webhook acknowledgment. Transport failures are logged and never retried:
// the next capture timeout recovers the turn.
func (p *RelayProcessor) forwardToBot(ctx context.Context, callUUID, text string) {
	forwardCtx := context.WithoutCancel(ctx)
	p.dispatch(func() {
		err := p.bot.Forward(forwardCtx, clientbot.ForwardRequest{
			ID:          callUUID,
			TextRequest: text,
			Language:    p.settings.Language,
			WebhookURL:  p.botReplyURL(),
		})
		if err != nil {
			p.logger.Error(forwardCtx, "failed to forward turn to bot", err)
			return
		}
		p.publish(monitor.Event{CallUUID: callUUID, Kind: "forwarded", Text: text})
	})
}

func (p *RelayProcessor) publish(event monitor.Event) {
	if p.monitor == nil {
		return
	}
	p.monitor.Publish(event)
}
