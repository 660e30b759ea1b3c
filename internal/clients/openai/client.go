package openai

import (
	"context"
	"fmt"

	"voicebot-relay/internal/observability"

	"github.com/openai/openai-go"
	openaiOption "github.com/openai/openai-go/option"
)

const systemPrompt = "You are a helpful assistant answering questions over a phone call. " +
	"Replies are spoken aloud to the caller, so answer in one or two short sentences " +
	"of plain text with no formatting."

// Client generates short spoken-style replies for the built-in demo bot.
type Client struct {
	apiKey string
	logger *observability.Logger
}

// NewClient creates a chat completion client
func NewClient(apiKey string, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return &Client{apiKey: apiKey, logger: logger}, nil
}

// Reply returns the model's answer to one caller utterance
func (c *Client) Reply(ctx context.Context, text string) (string, error) {
	options := []openaiOption.RequestOption{
		openaiOption.WithAPIKey(c.apiKey),
	}
	client := openai.NewClient(options...)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
		Model: openai.ChatModelGPT4oMini,
	})
	if err != nil {
		c.logger.Error(ctx, "chat completion failed", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
