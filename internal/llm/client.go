package llm

import (
	"context"
	"errors"
)

// LLMClient generates text for a prompt.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var ErrEmptyResponse = errors.New("no response content")

// Generation settings shared by every provider. Summaries should stay close
// to established biology, so sampling is kept cool.
const (
	Temperature     float32 = 0.2
	MaxOutputTokens         = 1000
)
