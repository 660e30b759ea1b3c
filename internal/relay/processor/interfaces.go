package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

import (
	"context"

	"voicebot-relay/internal/clients/bot"
	"voicebot-relay/internal/clients/vonage"
	"voicebot-relay/internal/ncco"
	"voicebot-relay/internal/relay/monitor"
)

// VoiceAPI defines the call-control operations required by RelayProcessor
type VoiceAPI interface {
	TransferNCCO(ctx context.Context, callUUID string, actions ncco.NCCO) error
	PlayTTS(ctx context.Context, callUUID string, req vonage.TTSRequest) error
	StopTTS(ctx context.Context, legID string) error
}

// BotForwarder defines the transcript delivery operation required by RelayProcessor
type BotForwarder interface {
	Forward(ctx context.Context, req bot.ForwardRequest) error
}

// EventSink receives observational call events for the live monitor feed
type EventSink interface {
	Publish(event monitor.Event)
}
