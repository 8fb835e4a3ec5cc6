// Package llm adapts the chat model collaborator. The pipeline treats the
// model as a black box: a prompt string goes in, a response string comes
// out. Assembled context is prepended to the user's message.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = `You are a personal assistant with access to the user's calendar,
code repositories, and issue tracker. Context about the user's current schedule and
work is provided before each question. Answer concisely using only the provided
context; if the context does not contain the answer, say so rather than guessing.`

// Chatter is the chat collaborator interface the shell wires the
// assembler's output into.
type Chatter interface {
	// Chat sends a message with optional assembled context and returns
	// the model's response.
	Chat(ctx context.Context, message, contextBlock string) (string, error)
}

// Client is a Chatter backed by an OpenAI-compatible chat completion API.
type Client struct {
	api    *openai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates a Client. baseURL may be empty for the default API
// endpoint; a nil logger defaults to a no-op logger.
func NewClient(apiKey, baseURL, model string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Chat sends the message to the model, prefixed by the assembled context
// block when one is present.
func (c *Client) Chat(ctx context.Context, message, contextBlock string) (string, error) {
	content := message
	if contextBlock != "" {
		content = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, message)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.logger.Debug("chat completion",
		zap.String("model", c.model),
		zap.Int("promptChars", len(content)))

	return resp.Choices[0].Message.Content, nil
}
