package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrEmptyResponse is returned when the model replies without a candidate.
var ErrEmptyResponse = errors.New("received an empty response from the model")

// GeminiClient reaches Gemini through the public API with an API key.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key must be set")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiClient{client: cl, modelName: modelName}, nil
}

func (g *GeminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generator returns a Generator backed by a model configured with cfg.
func (g *GeminiClient) Generator(cfg ModelConfig) *GeminiGenerator {
	m := g.client.GenerativeModel(g.modelName)
	if cfg.SystemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(cfg.SystemPrompt)},
		}
	}
	if cfg.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}
	m.SetTemperature(cfg.Temperature)
	if cfg.JSON {
		m.ResponseMIMEType = "application/json"
	}
	return &GeminiGenerator{model: m}
}

type GeminiGenerator struct {
	model *genai.GenerativeModel
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return replyText(resp)
}

// replyText joins the text parts of the first candidate. A reply without
// candidates, such as a blocked prompt, is an error.
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("%w: blocked: %s", ErrEmptyResponse, resp.PromptFeedback.BlockReason)
		}
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

var _ Generator = (*GeminiGenerator)(nil)
