package summary

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/core/model"
	"github.com/agenthands/genepath/internal/llm"
	"github.com/agenthands/genepath/internal/observability"
)

const NoInteractions = "No interactions to summarize."

const DefaultPrompt = `You are an expert in molecular biology and bioinformatics pathway analysis.

You are given a list of gene–gene interactions with confidence scores obtained from a trusted protein–protein interaction database.

Your task is to interpret these interactions using established biological knowledge only.

Guidelines:
• Describe an interaction as “activates” or “inhibits” only if this relationship is well supported in known signaling pathways.
• If the direction or functional effect is uncertain, describe the interaction as “associative”, “regulatory”, or “functionally related”.
• Do not assume causality where it is not clearly established.
• If recognizable, mention the major signaling pathway(s) or biological process(es) involved (e.g., MAPK signaling, cell cycle regulation, apoptosis).
• Summarize the overall biological implication of the interactions in 3–4 clear, connected sentences.

Strict rules:
• Do NOT invent genes, interactions, directions, or biological effects.
• Base conclusions only on widely accepted biological knowledge.
• Use simple, clear, human-readable biological language.
• Avoid technical jargon, headings, bullet points, or formatting.
• Write as a concise explanatory paragraph suitable for a scientific web application.

Here are the gene interactions:

%s
`

var highlighter = strings.NewReplacer(
	"activates", "<span style='color:green;font-weight:bold'>activates</span>",
	"inhibits", "<span style='color:red;font-weight:bold'>inhibits</span>",
)

type Summarizer struct {
	LLM     llm.LLMClient
	Prompts config.SummaryPrompts

	logger  *zap.Logger
	metrics *observability.Collector
}

func NewSummarizer(llmClient llm.LLMClient, prompts config.SummaryPrompts, logger *zap.Logger, metrics *observability.Collector) *Summarizer {
	if prompts.Interactions == "" {
		prompts.Interactions = DefaultPrompt
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{
		LLM:     llmClient,
		Prompts: prompts,
		logger:  logger.Named("summary"),
		metrics: metrics,
	}
}

// InteractionLines renders one "A interacts with B (confidence X)" line per
// interaction.
func InteractionLines(interactions []model.Interaction) string {
	lines := make([]string, len(interactions))
	for i, in := range interactions {
		lines[i] = in.String()
	}
	return strings.Join(lines, "\n")
}

func (s *Summarizer) BuildPrompt(interactions []model.Interaction) string {
	return fmt.Sprintf(s.Prompts.Interactions, InteractionLines(interactions))
}

// Summarize asks the model for a plain-language paragraph about the
// interactions. It never fails: model errors come back as a readable message.
// The result is an HTML fragment safe to insert into a page.
func (s *Summarizer) Summarize(ctx context.Context, interactions []model.Interaction) string {
	if len(interactions) == 0 {
		return NoInteractions
	}
	if s.LLM == nil {
		s.metrics.ObserveSummary("error")
		return "Could not generate summary: no language model configured"
	}

	response, err := s.LLM.Generate(ctx, s.BuildPrompt(interactions))
	if err != nil {
		s.metrics.ObserveSummary("error")
		s.logger.Error("Failed to generate summary", zap.Error(err), zap.Int("interactions", len(interactions)))
		return html.EscapeString(fmt.Sprintf("Could not generate summary: %v", err))
	}

	s.metrics.ObserveSummary("ok")
	return Highlight(response)
}

// Highlight escapes text for HTML and then wraps every occurrence of
// "activates" and "inhibits" in colored emphasis markup. Matching is by
// substring, so "deactivates" is affected too.
func Highlight(text string) string {
	return highlighter.Replace(html.EscapeString(text))
}
