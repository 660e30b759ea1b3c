package bootstrap

import (
	"context"
	"fmt"

	botHandler "voicebot-relay/internal/bot"
	botClient "voicebot-relay/internal/clients/bot"
	openaiClient "voicebot-relay/internal/clients/openai"
	"voicebot-relay/internal/clients/vonage"
	"voicebot-relay/internal/config"
	"voicebot-relay/internal/observability"
	relayHandler "voicebot-relay/internal/relay/handler"
	"voicebot-relay/internal/relay/monitor"
	relayProcessor "voicebot-relay/internal/relay/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	Logger *observability.Logger

	// Handlers
	RelayHandler relayHandler.Handler
	BotHandler   botHandler.Handler

	// Shared components
	VoiceClient *vonage.Client
	Monitor     *monitor.Hub
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	voiceClient, err := vonage.NewClient(cfg.Vonage.APIBaseURL(), cfg.Vonage.ApplicationID,
		cfg.Vonage.PrivateKeyPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize voice API client: %w", err)
	}
	deps.VoiceClient = voiceClient

	forwarder := botClient.NewClient(cfg.Bot.BotURL(), logger)

	hub := monitor.NewHub(logger)
	deps.Monitor = hub

	processor := relayProcessor.New(voiceClient, forwarder, hub,
		relayProcessor.SettingsFromConfig(cfg), logger)

	deps.RelayHandler = relayHandler.New(processor, voiceClient, hub, cfg, logger)

	// The demo bot answers through a chat model when a key is configured,
	// with canned echoes otherwise.
	var ai *openaiClient.Client
	if cfg.Bot.OpenAIAPIKey != "" {
		ai, err = openaiClient.NewClient(cfg.Bot.OpenAIAPIKey, logger)
		if err != nil {
			logger.Error(ctx, "failed to initialize chat client, demo bot will echo", err)
			ai = nil
		}
	}
	deps.BotHandler = botHandler.New(ai, logger)

	logger.Info(ctx, fmt.Sprintf("Service phone number: %s", cfg.Vonage.ServiceNumber))
	return deps, nil
}
