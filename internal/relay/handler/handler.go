package handler

import (
	"net/http"

	"voicebot-relay/internal/clients/vonage"
	"voicebot-relay/internal/config"
	"voicebot-relay/internal/observability"
	"voicebot-relay/internal/relay/monitor"
	"voicebot-relay/internal/relay/processor"

	"github.com/gorilla/websocket"
)

type Handler struct {
	relayProcessor *processor.RelayProcessor
	voiceClient    *vonage.Client
	hub            *monitor.Hub
	cfg            *config.Config
	logger         *observability.Logger
}

func New(relayProcessor *processor.RelayProcessor, voiceClient *vonage.Client, hub *monitor.Hub,
	cfg *config.Config, logger *observability.Logger) Handler {
	return Handler{
		relayProcessor: relayProcessor,
		voiceClient:    voiceClient,
		hub:            hub,
		cfg:            cfg,
		logger:         logger,
	}
}

// upgrader is a shared WebSocket upgrader for the monitor feed
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
