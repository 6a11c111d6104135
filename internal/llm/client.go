package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/botstudio/botstudio/internal/config"
)

// CompletionInput carries everything needed for one completion turn.
type CompletionInput struct {
	Message         string
	ChatbotName     string
	UserName        string
	Characteristics []string
}

// Completer produces a model reply for a single user turn. An empty reply with
// a nil error means the model returned no content.
type Completer interface {
	Complete(ctx context.Context, in CompletionInput) (string, error)
}

// Client is the OpenAI-backed completer
type Client struct {
	api         openai.Client
	model       string
	temperature float64
}

// NewClient creates a new completion client
func NewClient(cfg config.LLMConfig) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Complete requests a single chat completion constrained by the chatbot's
// characteristics. No retries are attempted.
func (c *Client) Complete(ctx context.Context, in CompletionInput) (string, error) {
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(c.temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt(in.ChatbotName, in.UserName, in.Characteristics)),
			openai.UserMessage(in.Message),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
