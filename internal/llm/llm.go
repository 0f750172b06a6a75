// Package llm is the text-generation boundary used by the classification
// and summarization stages.
package llm

import (
	"context"
	"strings"
)

// Generator sends one prompt to a preconfigured model and returns its text reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelConfig describes how a stage's model is set up.
type ModelConfig struct {
	SystemPrompt    string
	MaxOutputTokens int32
	Temperature     float32
	JSON            bool
}

const ClassifierSystemPrompt = "You are a document classification assistant. You assign a document to exactly one category from a fixed list and always answer with a single JSON object."

const SummarizerSystemPrompt = "You are a document summarization assistant. You write concise, factual summaries of business and personal documents and always answer with a single JSON object."

// ClassifierModel and SummarizerModel are the model settings for each stage.
var (
	ClassifierModel = ModelConfig{
		SystemPrompt:    ClassifierSystemPrompt,
		MaxOutputTokens: 1000,
		Temperature:     0,
		JSON:            true,
	}
	SummarizerModel = ModelConfig{
		SystemPrompt:    SummarizerSystemPrompt,
		MaxOutputTokens: 1500,
		Temperature:     0.2,
		JSON:            true,
	}
)

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

// LooksLikeRefusal reports whether a reply reads like the model declined the task.
func LooksLikeRefusal(reply string) bool {
	lower := strings.ToLower(reply)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
