package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/genepath/internal/config"
)

// NewClient builds the client named by cfg.Provider. The API key is taken
// from cfg, never from the environment.
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)

	case "genai", "vertex":
		return NewGenAIClient(ctx, cfg.Model, GenAIOptions{
			APIKey:   cfg.APIKey,
			Project:  cfg.Project,
			Location: cfg.Location,
			BaseURL:  cfg.BaseURL,
		})

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		return NewOllamaClient(cfg.Model, cfg.BaseURL, cfg.APIKey), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
