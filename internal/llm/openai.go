package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient speaks the chat completions API. Ollama and other
// OpenAI-compatible servers are reached by setting the base URL.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey string, model string, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: Temperature,
		MaxTokens:   MaxOutputTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion with %s failed: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	if resp.Choices[0].FinishReason == openai.FinishReasonContentFilter {
		return "", fmt.Errorf("completion blocked by content filter")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
