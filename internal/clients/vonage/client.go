package vonage

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"voicebot-relay/internal/ncco"
	"voicebot-relay/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrCallControlRejected = errors.New("call control request rejected")

// Endpoint represents a call endpoint (phone number, SIP, etc.)
type Endpoint struct {
	Type   string `json:"type"`
	Number string `json:"number,omitempty"`
	URI    string `json:"uri,omitempty"`
}

// PhoneEndpoint creates a phone endpoint
func PhoneEndpoint(number string) Endpoint {
	return Endpoint{Type: "phone", Number: number}
}

// CreateCallRequest represents the request to create an outbound call
type CreateCallRequest struct {
	To           []Endpoint `json:"to"`
	From         Endpoint   `json:"from"`
	AnswerURL    []string   `json:"answer_url,omitempty"`
	AnswerMethod string     `json:"answer_method,omitempty"`
	EventURL     []string   `json:"event_url,omitempty"`
	EventMethod  string     `json:"event_method,omitempty"`
}

// CreateCallResponse represents the response from creating a call
type CreateCallResponse struct {
	UUID             string `json:"uuid"`
	Status           string `json:"status"`
	Direction        string `json:"direction"`
	ConversationUUID string `json:"conversation_uuid"`
}

// TTSRequest represents a mid-call TTS play request
type TTSRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Style    int    `json:"style,omitempty"`
	BargeIn  bool   `json:"bargeIn,omitempty"`
}

// transferRequest wraps an inline NCCO for a call transfer
type transferRequest struct {
	Action      string              `json:"action"`
	Destination transferDestination `json:"destination"`
}

type transferDestination struct {
	Type string    `json:"type"`
	NCCO ncco.NCCO `json:"ncco"`
}

// Client handles Voice API call-control requests. Requests authenticate with
// a short-lived application JWT signed by the application's private key.
type Client struct {
	baseURL       string
	applicationID string
	privateKey    *rsa.PrivateKey
	httpClient    *http.Client
	logger        *observability.Logger
}

// NewClient creates a Voice API client for the given application, reading the
// RSA private key from privateKeyPath.
func NewClient(baseURL, applicationID, privateKeyPath string, logger *observability.Logger) (*Client, error) {
	keyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &Client{
		baseURL:       baseURL,
		applicationID: applicationID,
		privateKey:    privateKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// generateToken builds the application JWT the Voice API expects
func (c *Client) generateToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"application_id": c.applicationID,
		"iat":            now.Unix(),
		"exp":            now.Add(5 * time.Minute).Unix(),
		"jti":            uuid.New().String(),
	})
	return token.SignedString(c.privateKey)
}

// CreateCall places an outbound call
func (c *Client) CreateCall(ctx context.Context, req CreateCallRequest) (*CreateCallResponse, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "voice_api_operation", Value: "create_call"},
	)

	var created CreateCallResponse
	if err := c.do(ctx, http.MethodPost, "/v1/calls", req, &created); err != nil {
		return nil, err
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_uuid", Value: created.UUID},
		observability.Field{Key: "call_status", Value: created.Status},
	)
	c.logger.Info(ctx, "outbound call created")
	return &created, nil
}

// TransferNCCO redirects the call into the given inline NCCO
func (c *Client) TransferNCCO(ctx context.Context, callUUID string, actions ncco.NCCO) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "voice_api_operation", Value: "transfer"},
		observability.Field{Key: "call_uuid", Value: callUUID},
	)

	req := transferRequest{
		Action: "transfer",
		Destination: transferDestination{
			Type: "ncco",
			NCCO: actions,
		},
	}
	return c.do(ctx, http.MethodPut, "/v1/calls/"+callUUID, req, nil)
}

// PlayTTS speaks text on the live call leg
func (c *Client) PlayTTS(ctx context.Context, callUUID string, req TTSRequest) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "voice_api_operation", Value: "play_tts"},
		observability.Field{Key: "call_uuid", Value: callUUID},
	)
	return c.do(ctx, http.MethodPut, "/v1/calls/"+callUUID+"/talk", req, nil)
}

// StopTTS stops any TTS currently playing on the leg (barge-in interrupt)
func (c *Client) StopTTS(ctx context.Context, legID string) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "voice_api_operation", Value: "stop_tts"},
		observability.Field{Key: "leg_id", Value: legID},
	)
	return c.do(ctx, http.MethodDelete, "/v1/calls/"+legID+"/talk", nil, nil)
}

// do sends an authenticated JSON request and decodes the response into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.logger.Error(ctx, "failed to marshal call-control request", err)
			return fmt.Errorf("failed to prepare request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		c.logger.Error(ctx, "failed to create call-control request", err)
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.generateToken()
	if err != nil {
		c.logger.Error(ctx, "failed to sign application token", err)
		return fmt.Errorf("failed to sign application token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "call-control request failed", err)
		return fmt.Errorf("call-control request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		ctx = observability.WithFields(ctx,
			observability.Field{Key: "status_code", Value: resp.StatusCode},
			observability.Field{Key: "response_body", Value: string(detail)},
		)
		c.logger.Error(ctx, "call-control request rejected", ErrCallControlRejected)
		return fmt.Errorf("%w: status %d", ErrCallControlRejected, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.Error(ctx, "failed to parse call-control response", err)
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
