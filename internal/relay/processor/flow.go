package processor

import (
	"context"

	"voicebot-relay/internal/clients/vonage"
	"voicebot-relay/internal/ncco"
)

// callFlow is the "apply instruction" strategy: how prompts and capture
// directives reach the platform. The turn state machine is flow-agnostic.
type callFlow interface {
	// initialResponseText seeds PendingResponseText on session creation
	initialResponseText() string
	// answerNCCO is the instruction list returned from the answer webhook
	answerNCCO(callUUID string) ncco.NCCO
	// rearmNCCO re-arms speech capture in the ASR webhook response after a
	// good transcript. Nil when capture re-arms out-of-band.
	rearmNCCO(callUUID string) ncco.NCCO
	// fallbackNCCO speaks text and re-arms capture in the ASR webhook
	// response after a failed capture. Nil when recovery is out-of-band,
	// in which case deliverReply carries the fallback.
	fallbackNCCO(callUUID, text string) ncco.NCCO
	// deliverReply speaks text on the live call with barge-in enabled and
	// ensures capture is (re-)armed afterwards
	deliverReply(ctx context.Context, callUUID, text string) error
}

// speechInput builds the capture directive shared by both flows
func (p *RelayProcessor) speechInput(callUUID string) ncco.InputAction {
	return ncco.SpeechInput(p.asrEventURL(), callUUID, ncco.SpeechSettings{
		EndOnSilence: p.settings.EndOnSilence,
		Language:     p.settings.LanguageCode,
		StartTimeout: p.settings.StartTimeout,
	})
}

// directFlow speaks the greeting from the answer webhook and delivers bot
// replies with a TTS play on the live leg. Capture is re-armed by every ASR
// webhook response.
type directFlow struct {
	processor *RelayProcessor
}

func (f *directFlow) initialResponseText() string {
	return f.processor.settings.GreetingText
}

func (f *directFlow) answerNCCO(callUUID string) ncco.NCCO {
	p := f.processor
	return ncco.NCCO{
		ncco.Talk(p.settings.GreetingText, p.settings.LanguageCode, p.settings.TTSStyle),
		p.speechInput(callUUID),
	}
}

func (f *directFlow) rearmNCCO(callUUID string) ncco.NCCO {
	return ncco.NCCO{f.processor.speechInput(callUUID)}
}

func (f *directFlow) fallbackNCCO(callUUID, text string) ncco.NCCO {
	p := f.processor
	return ncco.NCCO{
		ncco.TalkBargeIn(text, p.settings.LanguageCode, p.settings.TTSStyle),
		p.speechInput(callUUID),
	}
}

func (f *directFlow) deliverReply(ctx context.Context, callUUID, text string) error {
	p := f.processor
	return p.voice.PlayTTS(ctx, callUUID, vonage.TTSRequest{
		Text:     text,
		Language: p.settings.LanguageCode,
		Style:    p.settings.TTSStyle,
		BargeIn:  true,
	})
}

// conferenceFlow parks the call in a named conversation and drives every
// turn through a call transfer carrying an inline NCCO, rejoining the
// conversation at the end of each turn.
type conferenceFlow struct {
	processor *RelayProcessor
}

func conferenceName(callUUID string) string {
	return "conference_" + callUUID
}

func (f *conferenceFlow) initialResponseText() string {
	return f.processor.settings.DefaultBotGreeting
}

func (f *conferenceFlow) answerNCCO(callUUID string) ncco.NCCO {
	return ncco.NCCO{ncco.Conversation(conferenceName(callUUID), true)}
}

func (f *conferenceFlow) rearmNCCO(string) ncco.NCCO { return nil }

func (f *conferenceFlow) fallbackNCCO(string, string) ncco.NCCO { return nil }

func (f *conferenceFlow) deliverReply(ctx context.Context, callUUID, text string) error {
	p := f.processor
	return p.voice.TransferNCCO(ctx, callUUID, ncco.NCCO{
		ncco.TalkBargeIn(text, p.settings.LanguageCode, p.settings.TTSStyle),
		p.speechInput(callUUID),
		ncco.Conversation(conferenceName(callUUID), false),
	})
}
