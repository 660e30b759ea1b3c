package processor

import (
	"sync"

	"voicebot-relay/internal/config"
	"voicebot-relay/internal/observability"
)

// Settings carries the turn-cycle configuration the processor needs.
type Settings struct {
	Hostname           string // public hostname for webhook callback URLs
	LanguageCode       string
	Language           string
	TTSStyle           int
	GreetingText       string
	WakeUpBotText      string
	DefaultBotGreeting string
	EndOnSilence       float64
	StartTimeout       int
	Flow               config.CallFlow
}

// RelayProcessor owns all per-call state and drives the
// speak → listen → forward-to-bot → speak cycle.
type RelayProcessor struct {
	voice    VoiceAPI
	bot      BotForwarder
	monitor  EventSink
	settings Settings
	flow     callFlow
	logger   *observability.Logger

	// dispatch decouples outbound platform/bot calls from the inbound
	// webhook acknowledgment. Tests replace it with a synchronous call.
	dispatch func(func())

	mu       sync.Mutex
	sessions map[string]*CallSession
}

// New creates a RelayProcessor. monitor may be nil when no live feed is wired.
func New(voice VoiceAPI, bot BotForwarder, monitor EventSink, settings Settings,
	logger *observability.Logger) *RelayProcessor {
	p := &RelayProcessor{
		voice:    voice,
		bot:      bot,
		monitor:  monitor,
		settings: settings,
		logger:   logger,
		dispatch: func(f func()) { go f() },
		sessions: make(map[string]*CallSession),
	}
	if settings.Flow == config.CallFlowConference {
		p.flow = &conferenceFlow{processor: p}
	} else {
		p.flow = &directFlow{processor: p}
	}
	return p
}

// SettingsFromConfig maps application configuration onto processor settings
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Hostname:           cfg.Server.Hostname,
		LanguageCode:       cfg.Voice.LanguageCode,
		Language:           cfg.Voice.Language,
		TTSStyle:           cfg.Voice.TTSStyle,
		GreetingText:       cfg.Voice.GreetingText,
		WakeUpBotText:      cfg.Voice.WakeUpBotText,
		DefaultBotGreeting: cfg.Voice.DefaultBotGreeting,
		EndOnSilence:       cfg.ASR.EndOnSilence,
		StartTimeout:       cfg.ASR.StartTimeout,
		Flow:               cfg.Voice.Flow,
	}
}

func (p *RelayProcessor) asrEventURL() string {
	return "https://" + p.settings.Hostname + "/asr"
}

func (p *RelayProcessor) botReplyURL() string {
	return "https://" + p.settings.Hostname + "/botreply"
}
