package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// CallFlow selects how bot replies are delivered back into the call.
type CallFlow string

const (
	// CallFlowDirect speaks replies with a TTS play on the live call leg.
	CallFlowDirect CallFlow = "direct"
	// CallFlowConference parks the call in a named conversation and drives
	// every turn through a call transfer with an inline NCCO.
	CallFlowConference CallFlow = "conference"
)

// Config holds all application configuration
type Config struct {
	Vonage Vonage
	Bot    BotConfig
	Voice  VoiceConfig
	ASR    ASRConfig
	Server ServerConfig
}

// Vonage holds Voice API credentials and account settings
type Vonage struct {
	APIKey         string
	APISecret      string
	ApplicationID  string
	PrivateKeyPath string
	APIRegion      string
	ServiceNumber  string
	CalleeNumber   string // test destination for /makecall
}

// BotConfig holds the Conversational Agent endpoint settings
type BotConfig struct {
	Server       string // hostname of the text bot server
	OpenAIAPIKey string // optional, used by the built-in demo bot
}

// VoiceConfig holds language and TTS prompt settings
type VoiceConfig struct {
	LanguageCode       string // BCP-47 locale used for ASR and TTS, e.g. en-US
	Language           string // short language code sent to the bot, e.g. en
	TTSStyle           int
	GreetingText       string
	WakeUpBotText      string
	DefaultBotGreeting string
	Flow               CallFlow
}

// ASRConfig holds speech-recognition capture settings
type ASRConfig struct {
	EndOnSilence float64 // seconds of silence that end a capture
	StartTimeout int     // seconds to wait for speech to start
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port     int
	Hostname string // public hostname the voice platform calls back on
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	// Vonage configuration
	var err error
	if cfg.Vonage.APIKey, err = requireEnv("API_KEY"); err != nil {
		return nil, err
	}
	if cfg.Vonage.APISecret, err = requireEnv("API_SECRET"); err != nil {
		return nil, err
	}
	if cfg.Vonage.ApplicationID, err = requireEnv("APP_ID"); err != nil {
		return nil, err
	}
	if cfg.Vonage.ServiceNumber, err = requireEnv("SERVICE_PHONE_NUMBER"); err != nil {
		return nil, err
	}
	cfg.Vonage.PrivateKeyPath = getEnvWithDefault("PRIVATE_KEY_PATH", "./.private.key")
	cfg.Vonage.APIRegion = getEnvWithDefault("API_REGION", "api.nexmo.com")
	cfg.Vonage.CalleeNumber = os.Getenv("CALLEE_NUMBER")

	// Bot configuration
	if cfg.Bot.Server, err = requireEnv("BOT_SERVER"); err != nil {
		return nil, err
	}
	cfg.Bot.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	// Language and prompt configuration
	cfg.Voice.LanguageCode = getEnvWithDefault("LANGUAGE_CODE", "en-US")
	cfg.Voice.Language = getEnvWithDefault("LANGUAGE", "en")
	cfg.Voice.GreetingText = getEnvWithDefault("GREETING_TEXT", "Hello")
	cfg.Voice.WakeUpBotText = getEnvWithDefault("WAKE_UP_BOT_TEXT", "Hello")
	cfg.Voice.DefaultBotGreeting = getEnvWithDefault("DEFAULT_BOT_GREETING_TEXT", "How may I help you?")

	ttsStyle := getEnvWithDefault("TTS_STYLE", "11")
	cfg.Voice.TTSStyle, err = strconv.Atoi(ttsStyle)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTS_STYLE: %w", err)
	}

	flow := CallFlow(getEnvWithDefault("CALL_FLOW", string(CallFlowDirect)))
	if flow != CallFlowDirect && flow != CallFlowConference {
		return nil, fmt.Errorf("CALL_FLOW must be %q or %q, got %q", CallFlowDirect, CallFlowConference, flow)
	}
	cfg.Voice.Flow = flow

	// ASR capture configuration
	endOnSilence := getEnvWithDefault("ASR_END_ON_SILENCE", "1.0")
	cfg.ASR.EndOnSilence, err = strconv.ParseFloat(endOnSilence, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ASR_END_ON_SILENCE: %w", err)
	}

	startTimeout := getEnvWithDefault("ASR_START_TIMEOUT", "10")
	cfg.ASR.StartTimeout, err = strconv.Atoi(startTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ASR_START_TIMEOUT: %w", err)
	}

	// Server configuration
	if cfg.Server.Hostname, err = requireEnv("HOSTNAME"); err != nil {
		return nil, err
	}
	serverPort := getEnvWithDefault("SERVER_PORT", "8000")
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}

	return cfg, nil
}

// APIBaseURL returns the regional Voice API base URL
func (v *Vonage) APIBaseURL() string {
	return "https://" + v.APIRegion
}

// BotURL returns the full URL the relay posts transcripts to
func (b *BotConfig) BotURL() string {
	return "https://" + b.Server + "/bot"
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
