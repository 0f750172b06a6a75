package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/idpflow/internal/analysis"
	"github.com/Lllllllleong/idpflow/internal/aws"
	"github.com/Lllllllleong/idpflow/internal/blob"
	"github.com/Lllllllleong/idpflow/internal/classify"
	"github.com/Lllllllleong/idpflow/internal/config"
	"github.com/Lllllllleong/idpflow/internal/gcp"
	"github.com/Lllllllleong/idpflow/internal/llm"
	"github.com/Lllllllleong/idpflow/internal/metrics"
	"github.com/Lllllllleong/idpflow/internal/pipeline"
	"github.com/Lllllllleong/idpflow/internal/store"
	"github.com/Lllllllleong/idpflow/internal/summarize"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
)

// Backend holds the storage clients selected by configuration. Every
// function builds one at cold start.
type Backend struct {
	Config *config.Config
	Blobs  blob.Store
	Tables store.Tables

	awsCfg  *awssdk.Config
	closers []func() error
}

func NewBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	b := &Backend{Config: cfg}

	switch cfg.BlobBackend {
	case config.BackendS3:
		awsCfg, err := b.aws(ctx)
		if err != nil {
			return nil, err
		}
		b.Blobs = aws.NewS3Store(awsCfg)
	default:
		gcs, err := gcp.NewGCSStore(ctx)
		if err != nil {
			return nil, err
		}
		b.Blobs = gcs
		b.closers = append(b.closers, gcs.Close)
	}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		b.Tables = store.NewMemoryTables()
	default:
		tables, client, err := gcp.NewFirestoreTables(ctx, cfg.ProjectID, cfg.Collection)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.Tables = tables
		b.closers = append(b.closers, client.Close)
	}

	slog.Info("Backend initialized.", "blobBackend", cfg.BlobBackend, "storeBackend", cfg.StoreBackend)
	return b, nil
}

func (b *Backend) aws(ctx context.Context) (awssdk.Config, error) {
	if b.awsCfg != nil {
		return *b.awsCfg, nil
	}
	cfg, err := aws.LoadConfig(ctx, b.Config.AWSRegion)
	if err != nil {
		return awssdk.Config{}, err
	}
	b.awsCfg = &cfg
	return cfg, nil
}

// Pipeline builds the stage pipeline: Textract for analysis and the
// configured model backend for classification and summarization.
func (b *Backend) Pipeline(ctx context.Context, recorder *metrics.Recorder) (*pipeline.Pipeline, error) {
	awsCfg, err := b.aws(ctx)
	if err != nil {
		return nil, err
	}
	extractor := analysis.NewExtractor(b.Blobs, aws.NewTextractAnalyzer(awsCfg), b.Config.MaxDocumentBytes)

	classifierGen, summarizerGen, err := b.generators(ctx)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Deps{
		Tables:        b.Tables,
		Extractor:     extractor,
		Classifier:    classify.New(classifierGen),
		Summarizer:    summarize.New(summarizerGen),
		Metrics:       recorder,
		DefaultBucket: b.Config.DocumentBucket,
	})
}

func (b *Backend) generators(ctx context.Context) (llm.Generator, llm.Generator, error) {
	if b.Config.LLMBackend == config.BackendGemini {
		client, err := llm.NewGeminiClient(ctx, b.Config.GeminiAPIKey, b.Config.GeminiModel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		return client.Generator(llm.ClassifierModel), client.Generator(llm.SummarizerModel), nil
	}

	vertex, err := gcp.NewVertexClient(ctx, b.Config.ProjectID, b.Config.VertexRegion, b.Config.VertexModel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create vertex client: %w", err)
	}
	b.closers = append(b.closers, vertex.Close)
	return vertex.Classifier(), vertex.Summarizer(), nil
}

// WorkflowStarter builds the orchestration trigger, or returns nil when no
// workflow is configured.
func (b *Backend) WorkflowStarter(ctx context.Context) (WorkflowStarter, error) {
	if b.Config.WorkflowID == "" {
		return nil, nil
	}
	trigger, err := gcp.NewWorkflowTrigger(ctx, b.Config.ProjectID, b.Config.WorkflowLocation, b.Config.WorkflowID)
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, trigger.Close)
	return trigger, nil
}

func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
