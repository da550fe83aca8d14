package llm

import (
	"context"
	"fmt"

	googlegenai "google.golang.org/genai"
)

// GenAIClient uses the Google Gen AI SDK. With a project configured it
// targets Vertex AI, otherwise the Gemini API with an API key.
type GenAIClient struct {
	client *googlegenai.Client
	model  string
}

type GenAIOptions struct {
	APIKey   string
	Project  string
	Location string
	BaseURL  string
}

func NewGenAIClient(ctx context.Context, model string, opts GenAIOptions) (*GenAIClient, error) {
	cc := &googlegenai.ClientConfig{
		HTTPOptions: googlegenai.HTTPOptions{BaseURL: opts.BaseURL},
	}
	switch {
	case opts.Project != "":
		cc.Backend = googlegenai.BackendVertexAI
		cc.Project = opts.Project
		cc.Location = opts.Location
	case opts.APIKey != "":
		cc.Backend = googlegenai.BackendGeminiAPI
		cc.APIKey = opts.APIKey
	default:
		return nil, fmt.Errorf("genai provider needs either an API key or a Google Cloud project")
	}

	client, err := googlegenai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAIClient{client: client, model: model}, nil
}

func (c *GenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, googlegenai.Text(prompt), &googlegenai.GenerateContentConfig{
		Temperature:     googlegenai.Ptr(Temperature),
		MaxOutputTokens: MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("genai generation failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
