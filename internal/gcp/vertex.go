package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/idpflow/internal/llm"
)

const DefaultVertexModel = "gemini-1.5-pro"

// VertexClient holds the pre-configured generative models for the pipeline stages.
type VertexClient struct {
	ClassifierModel *genai.GenerativeModel
	SummarizerModel *genai.GenerativeModel
	baseClient      *genai.Client
}

// NewVertexClient creates a new client holding all necessary models.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = DefaultVertexModel
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &VertexClient{
		ClassifierModel: configureModel(baseClient.GenerativeModel(modelName), llm.ClassifierModel),
		SummarizerModel: configureModel(baseClient.GenerativeModel(modelName), llm.SummarizerModel),
		baseClient:      baseClient,
	}, nil
}

func configureModel(m *genai.GenerativeModel, cfg llm.ModelConfig) *genai.GenerativeModel {
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(cfg.SystemPrompt)},
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		MaxOutputTokens: genai.Ptr(cfg.MaxOutputTokens),
	}
	if cfg.JSON {
		m.GenerationConfig.ResponseMIMEType = "application/json"
	}
	return m
}

// Classifier returns the classification model as an llm.Generator.
func (c *VertexClient) Classifier() llm.Generator {
	return &ModelGenerator{model: c.ClassifierModel}
}

// Summarizer returns the summarization model as an llm.Generator.
func (c *VertexClient) Summarizer() llm.Generator {
	return &ModelGenerator{model: c.SummarizerModel}
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// ModelGenerator adapts a Vertex AI model to llm.Generator.
type ModelGenerator struct {
	model *genai.GenerativeModel
}

func (g *ModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("vertex generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", llm.ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}
