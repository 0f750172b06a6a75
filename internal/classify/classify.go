// Package classify assigns extracted document text to one of the fixed
// categories using a text-generation model.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lllllllleong/idpflow/internal/jsonrecover"
	"github.com/Lllllllleong/idpflow/internal/llm"
	"github.com/Lllllllleong/idpflow/internal/models"
)

// MaxInputRunes bounds the text sent to the model. Truncation may cut mid-word.
const MaxInputRunes = 2000

const (
	defaultConfidence = 0.5
	remappedPrefix    = "Original category not in allowed list. "
)

const promptTemplate = `Please classify the following document text into one of these categories:
%s

Document text:
%s

Respond with a JSON object containing:
- category: the most appropriate category from the list above
- confidence: a confidence score between 0.0 and 1.0
- reason: a brief explanation for the classification

Example response:
{
    "category": "Invoice",
    "confidence": 0.95,
    "reason": "Document contains invoice number, billing address, and itemized charges"
}`

var replySchema = llm.NewReplySchema("classification.json", map[string]any{
	"type":     "object",
	"required": []any{"category", "confidence", "reason"},
	"properties": map[string]any{
		"category":   map[string]any{"enum": categoryEnum()},
		"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		"reason":     map[string]any{"type": "string"},
	},
})

func categoryEnum() []any {
	var out []any
	for _, c := range models.Categories() {
		out = append(out, string(c))
	}
	return out
}

// Classifier produces a Classification for a document's text. It never
// fails: every error path maps to a classification in the Other category.
type Classifier struct {
	gen llm.Generator
}

func New(gen llm.Generator) *Classifier {
	return &Classifier{gen: gen}
}

func (c *Classifier) Classify(ctx context.Context, text string) models.Classification {
	if strings.TrimSpace(text) == "" {
		return models.Classification{Category: models.CategoryOther, Confidence: 0.0, Reason: "No text content"}
	}

	reply, err := c.gen.Generate(ctx, BuildPrompt(text))
	if err != nil {
		slog.Error("llm.classify.error", "error", err)
		return models.Classification{Category: models.CategoryOther, Confidence: 0.0, Reason: "Error: " + err.Error()}
	}
	slog.Debug("llm.classify.reply", "reply", jsonrecover.Truncate(reply, 500))
	if llm.LooksLikeRefusal(reply) {
		slog.Warn("llm.classify.refusal", "reply", jsonrecover.Truncate(reply, 200))
	}

	obj, ok := jsonrecover.ParseReply(reply)
	if !ok {
		slog.Warn("llm.classify.parse_failed", "reply", jsonrecover.Truncate(reply, 200))
		return models.Classification{Category: models.CategoryOther, Confidence: defaultConfidence, Reason: "Parse error"}
	}
	if err := replySchema.Validate(obj); err != nil {
		slog.Warn("llm.classify.schema_mismatch", "error", err)
	}
	return Coerce(obj)
}

// BuildPrompt renders the classification prompt for text.
func BuildPrompt(text string) string {
	names := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		names = append(names, string(c))
	}
	return fmt.Sprintf(promptTemplate, strings.Join(names, ", "), jsonrecover.Truncate(text, MaxInputRunes))
}

// Coerce turns a parsed reply into a Classification that satisfies the
// category and confidence constraints regardless of what the model sent.
func Coerce(obj map[string]any) models.Classification {
	reason, _ := obj["reason"].(string)

	raw, _ := obj["category"].(string)
	category, ok := models.ParseCategory(raw)
	if !ok {
		category = models.CategoryOther
		reason = remappedPrefix + reason
	}

	confidence := defaultConfidence
	if v, ok := obj["confidence"].(float64); ok {
		confidence = clamp(v)
	}

	return models.Classification{Category: category, Confidence: confidence, Reason: reason}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
