package llm

import (
	"fmt"
	"strings"
)

// NewOllamaClient points the OpenAI client at Ollama's OpenAI-compatible API.
// Ollama ignores the API key but the client requires one.
func NewOllamaClient(model string, baseURL string, apiKey string) *OpenAIClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
	}
	if apiKey == "" {
		apiKey = "ollama"
	}
	return NewOpenAIClient(apiKey, model, baseURL)
}
