// Package summarize produces a short synopsis and key points for a
// classified document.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lllllllleong/idpflow/internal/invocation"
	"github.com/Lllllllleong/idpflow/internal/jsonrecover"
	"github.com/Lllllllleong/idpflow/internal/llm"
	"github.com/Lllllllleong/idpflow/internal/models"
)

// MaxInputRunes bounds the text sent to the model.
const MaxInputRunes = 3000

const (
	fallbackTextRunes     = 500
	fallbackKeyPointRunes = 200
	ellipsis              = "..."
)

const promptTemplate = `Please create a concise summary of the following %[1]s document.

%[2]s

Document text:
%[3]s

Respond with a JSON object containing:
- text: a concise summary (2-3 sentences)
- keyPoints: an array of 3-5 key points or important details
- category: the document category

Example response:
{
    "text": "This invoice from ABC Company shows a total of $1,234.56 for office supplies delivered on March 15, 2024.",
    "keyPoints": [
        "Invoice #12345 from ABC Company",
        "Total amount: $1,234.56",
        "Items: Office supplies",
        "Delivery date: March 15, 2024"
    ],
    "category": "%[1]s"
}`

var replySchema = llm.NewReplySchema("summary.json", map[string]any{
	"type":     "object",
	"required": []any{"text", "keyPoints"},
	"properties": map[string]any{
		"text":      map[string]any{"type": "string"},
		"keyPoints": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"category":  map[string]any{"type": "string"},
	},
})

// Summarizer never fails: every error path yields a Summary describing it.
type Summarizer struct {
	gen llm.Generator
}

func New(gen llm.Generator) *Summarizer {
	return &Summarizer{gen: gen}
}

func (s *Summarizer) Summarize(ctx context.Context, text string, category models.Category) models.Summary {
	generatedAt := invocation.ID(ctx)

	if strings.TrimSpace(text) == "" {
		return models.Summary{Text: "No content to summarize", KeyPoints: []string{}, Category: category, GeneratedAt: generatedAt}
	}

	reply, err := s.gen.Generate(ctx, BuildPrompt(text, category))
	if err != nil {
		slog.Error("llm.summarize.error", "error", err)
		return models.Summary{Text: "Summarization failed: " + err.Error(), KeyPoints: []string{}, Category: category, GeneratedAt: generatedAt}
	}
	slog.Debug("llm.summarize.reply", "reply", jsonrecover.Truncate(reply, 500))

	obj, ok := jsonrecover.ParseReply(reply)
	if !ok {
		slog.Warn("llm.summarize.parse_failed", "replyLength", len(reply))
		summary := FromRawReply(reply, category)
		summary.GeneratedAt = generatedAt
		return summary
	}
	if err := replySchema.Validate(obj); err != nil {
		slog.Warn("llm.summarize.schema_mismatch", "error", err)
	}

	summary := Coerce(obj, category)
	summary.GeneratedAt = generatedAt
	return summary
}

// BuildPrompt renders the summarization prompt with the category's focus.
func BuildPrompt(text string, category models.Category) string {
	return fmt.Sprintf(promptTemplate, category, category.SummaryFocus(), jsonrecover.Truncate(text, MaxInputRunes))
}

// FromRawReply builds a summary directly from a reply that held no JSON.
func FromRawReply(reply string, category models.Category) models.Summary {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return models.Summary{Text: "Summary unavailable", KeyPoints: []string{}, Category: category}
	}
	return models.Summary{
		Text:      abbreviate(reply, fallbackTextRunes),
		KeyPoints: []string{abbreviate(reply, fallbackKeyPointRunes)},
		Category:  category,
	}
}

// Coerce fills in whatever the parsed reply left out.
func Coerce(obj map[string]any, category models.Category) models.Summary {
	summary := models.Summary{
		Text:      "Summary could not be generated",
		KeyPoints: []string{},
		Category:  category,
	}
	if text, ok := obj["text"].(string); ok {
		summary.Text = text
	}

	switch kp := obj["keyPoints"].(type) {
	case []any:
		for _, p := range kp {
			if s, ok := p.(string); ok {
				summary.KeyPoints = append(summary.KeyPoints, s)
			}
		}
	case string:
		summary.KeyPoints = []string{kp}
	}

	if raw, ok := obj["category"].(string); ok {
		if c, ok := models.ParseCategory(raw); ok {
			summary.Category = c
		}
	}
	return summary
}

func abbreviate(s string, n int) string {
	cut := jsonrecover.Truncate(s, n)
	if len(cut) < len(s) {
		return cut + ellipsis
	}
	return cut
}
