package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}

	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens:   MaxOutputTokens,
		Temperature: ptr(Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("claude messages request failed: %w", err)
	}

	// Concatenate every text block; tool or thinking blocks carry no text.
	var text string
	for _, block := range resp.Content {
		if block.Text != nil {
			text += *block.Text
		}
	}
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func ptr[T any](v T) *T { return &v }
