// Package pipeline runs the extraction, classification and summarization
// stages against a document's status record. The staged functions and the
// combined processor both drive the same Pipeline.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lllllllleong/idpflow/internal/blob"
	"github.com/Lllllllleong/idpflow/internal/invocation"
	"github.com/Lllllllleong/idpflow/internal/metrics"
	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/Lllllllleong/idpflow/internal/store"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoTextContent    = errors.New("no text content found in OCR results")
	ErrExtractionFailed = errors.New("text extraction failed")
)

const (
	stageExtract   = "extract"
	stageClassify  = "classify"
	stageSummarize = "summarize"
)

// Ref names a document, the bucket holding its upload, and the table holding
// its record. Empty Bucket and Table select the configured defaults.
type Ref struct {
	DocumentID string
	Bucket     string
	Table      string
}

type TextExtractor interface {
	Extract(ctx context.Context, ref blob.Ref) (*models.OCRResults, int)
}

type Classifier interface {
	Classify(ctx context.Context, text string) models.Classification
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, category models.Category) models.Summary
}

type Deps struct {
	Tables        store.Tables
	Extractor     TextExtractor
	Classifier    Classifier
	Summarizer    Summarizer
	Metrics       *metrics.Recorder
	DefaultBucket string
}

type Pipeline struct {
	tables        store.Tables
	extractor     TextExtractor
	classifier    Classifier
	summarizer    Summarizer
	metrics       *metrics.Recorder
	defaultBucket string
}

func New(d Deps) (*Pipeline, error) {
	if d.Tables == nil || d.Extractor == nil || d.Classifier == nil || d.Summarizer == nil {
		return nil, fmt.Errorf("pipeline: tables, extractor, classifier and summarizer are required")
	}
	return &Pipeline{
		tables:        d.Tables,
		extractor:     d.Extractor,
		classifier:    d.Classifier,
		summarizer:    d.Summarizer,
		metrics:       d.Metrics,
		defaultBucket: d.DefaultBucket,
	}, nil
}

// WithInvocationID stamps id into ctx; it becomes extractedAt and generatedAt.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return invocation.WithID(ctx, id)
}

func (p *Pipeline) logger(ctx context.Context, ref Ref, stage string) *slog.Logger {
	return slog.With("documentId", ref.DocumentID, "stage", stage, "invocationId", invocation.ID(ctx))
}

// Extract runs text extraction and records the result. A degraded result is
// written with status ocr_error and returned alongside ErrExtractionFailed.
func (p *Pipeline) Extract(ctx context.Context, ref Ref) (*models.OCRResults, error) {
	ctx = invocation.Ensure(ctx)
	start := time.Now()
	logCtx := p.logger(ctx, ref, stageExtract)
	st := p.tables.Table(ref.Table)

	if err := st.Update(ctx, ref.DocumentID, models.StatusProcessingOCR); err != nil {
		p.metrics.ObserveStage(stageExtract, metrics.OutcomeFailed, start)
		return nil, statusWriteError(logCtx, ref, err)
	}

	bucket := ref.Bucket
	if bucket == "" {
		bucket = p.defaultBucket
	}
	ocr, pageCount := p.extractor.Extract(ctx, blob.Ref{Bucket: bucket, Key: ref.DocumentID})

	if ocr.Error != "" {
		logCtx.Error("Text extraction returned a degraded result.", "error", ocr.Error)
		p.failExtraction(ctx, st, logCtx, ref, ocr)
		p.metrics.ObserveStage(stageExtract, metrics.OutcomeDegraded, start)
		return ocr, fmt.Errorf("%w: %s", ErrExtractionFailed, ocr.Error)
	}

	fields := []store.Field{{Path: store.FieldOCRResults, Value: ocr}}
	if pageCount > 0 {
		fields = append(fields, store.Field{Path: store.FieldPageCount, Value: pageCount})
	}
	if err := st.Update(ctx, ref.DocumentID, models.StatusOCRComplete, fields...); err != nil {
		cause := storeError(ref, "failed to save OCR results", err)
		logCtx.Error("Failed to save OCR results.", "error", cause)
		p.metrics.ObserveStage(stageExtract, metrics.OutcomeFailed, start)
		if errors.Is(cause, ErrDocumentNotFound) {
			return nil, cause
		}
		degraded := &models.OCRResults{
			Error:         cause.Error(),
			RawText:       "",
			KeyValuePairs: map[string]string{},
			ExtractedAt:   ocr.ExtractedAt,
		}
		p.failExtraction(ctx, st, logCtx, ref, degraded)
		return degraded, cause
	}

	logCtx.Info("Extraction stage complete.", "pageCount", pageCount, "textLength", len(ocr.RawText))
	p.metrics.ObserveStage(stageExtract, metrics.OutcomeSuccess, start)
	return ocr, nil
}

// Classify runs classification. When ocr is nil the stage reads the prior
// OCR results from the record.
func (p *Pipeline) Classify(ctx context.Context, ref Ref, ocr *models.OCRResults) (*models.Classification, error) {
	ctx = invocation.Ensure(ctx)
	start := time.Now()
	logCtx := p.logger(ctx, ref, stageClassify)
	st := p.tables.Table(ref.Table)

	if ocr == nil {
		doc, err := p.load(ctx, st, ref)
		if err != nil {
			return nil, p.failClassification(ctx, st, logCtx, ref, err, start)
		}
		ocr = doc.OCRResults
	}
	if ocr == nil || strings.TrimSpace(ocr.RawText) == "" {
		return nil, p.failClassification(ctx, st, logCtx, ref, ErrNoTextContent, start)
	}

	if err := st.Update(ctx, ref.DocumentID, models.StatusProcessingClassification); err != nil {
		return nil, p.failClassification(ctx, st, logCtx, ref, storeError(ref, "failed to update status", err), start)
	}

	cls := p.classifier.Classify(ctx, ocr.RawText)

	if err := st.Update(ctx, ref.DocumentID, models.StatusClassificationComplete,
		store.Field{Path: store.FieldClassification, Value: &cls},
	); err != nil {
		return nil, p.failClassification(ctx, st, logCtx, ref, storeError(ref, "failed to save classification", err), start)
	}

	logCtx.Info("Classification stage complete.", "category", cls.Category, "confidence", cls.Confidence)
	p.metrics.ObserveStage(stageClassify, metrics.OutcomeSuccess, start)
	return &cls, nil
}

// Summarize runs summarization. Missing hand-off arguments are read from the
// record; a record with no classification is summarized as Other.
func (p *Pipeline) Summarize(ctx context.Context, ref Ref, ocr *models.OCRResults, cls *models.Classification) (*models.Summary, error) {
	ctx = invocation.Ensure(ctx)
	start := time.Now()
	logCtx := p.logger(ctx, ref, stageSummarize)
	st := p.tables.Table(ref.Table)

	if ocr == nil || cls == nil {
		doc, err := p.load(ctx, st, ref)
		if err != nil {
			return nil, p.failSummary(ctx, st, logCtx, ref, models.CategoryOther, err, start)
		}
		if ocr == nil {
			ocr = doc.OCRResults
		}
		if cls == nil {
			cls = doc.Classification
		}
	}

	category := models.CategoryOther
	if cls != nil {
		category = cls.Category
	}
	if ocr == nil || strings.TrimSpace(ocr.RawText) == "" {
		return nil, p.failSummary(ctx, st, logCtx, ref, category, ErrNoTextContent, start)
	}

	if err := st.Update(ctx, ref.DocumentID, models.StatusProcessingSummarization); err != nil {
		return nil, p.failSummary(ctx, st, logCtx, ref, category, storeError(ref, "failed to update status", err), start)
	}

	summary := p.summarizer.Summarize(ctx, ocr.RawText, category)

	if err := st.Update(ctx, ref.DocumentID, models.StatusComplete,
		store.Field{Path: store.FieldSummary, Value: &summary},
	); err != nil {
		return nil, p.failSummary(ctx, st, logCtx, ref, category, storeError(ref, "failed to save summary", err), start)
	}

	logCtx.Info("Summarization stage complete.", "keyPoints", len(summary.KeyPoints))
	p.metrics.ObserveStage(stageSummarize, metrics.OutcomeSuccess, start)
	return &summary, nil
}

// Run executes the three stages in order, handing each stage's output to the
// next. Any stage failure also sets status error with processingError.
func (p *Pipeline) Run(ctx context.Context, ref Ref) error {
	ctx = invocation.Ensure(ctx)
	logCtx := p.logger(ctx, ref, "run")
	logCtx.Info("Starting document processing.")

	ocr, err := p.Extract(ctx, ref)
	if err != nil {
		return p.markFailed(ctx, logCtx, ref, err)
	}
	cls, err := p.Classify(ctx, ref, ocr)
	if err != nil {
		return p.markFailed(ctx, logCtx, ref, err)
	}
	if _, err := p.Summarize(ctx, ref, ocr, cls); err != nil {
		return p.markFailed(ctx, logCtx, ref, err)
	}

	logCtx.Info("Document processing complete.")
	return nil
}

func (p *Pipeline) load(ctx context.Context, st store.Store, ref Ref) (*models.Document, error) {
	doc, err := st.Get(ctx, ref.DocumentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, ref.DocumentID)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// failExtraction records a degraded extraction result with status ocr_error.
func (p *Pipeline) failExtraction(ctx context.Context, st store.Store, logCtx *slog.Logger, ref Ref, degraded *models.OCRResults) {
	if err := st.Update(ctx, ref.DocumentID, models.StatusOCRError,
		store.Field{Path: store.FieldOCRResults, Value: degraded},
		store.Field{Path: store.FieldOCRError, Value: degraded.Error},
	); err != nil {
		logCtx.Error("CRITICAL: Failed to update status to ocr_error after an extraction failure.", "updateError", err)
	}
}

func (p *Pipeline) failClassification(ctx context.Context, st store.Store, logCtx *slog.Logger, ref Ref, cause error, start time.Time) error {
	logCtx.Error("Classification stage failed.", "error", cause)
	p.metrics.ObserveStage(stageClassify, metrics.OutcomeFailed, start)
	if errors.Is(cause, ErrDocumentNotFound) {
		return cause
	}

	fallback := &models.Classification{
		Category:   models.CategoryOther,
		Confidence: 0.0,
		Reason:     "Classification failed: " + cause.Error(),
	}
	if err := st.Update(ctx, ref.DocumentID, models.StatusClassificationError,
		store.Field{Path: store.FieldClassification, Value: fallback},
		store.Field{Path: store.FieldClassificationError, Value: cause.Error()},
	); err != nil {
		logCtx.Error("CRITICAL: Failed to update status to classification_error after a processing error.", "updateError", err)
	}
	return cause
}

func (p *Pipeline) failSummary(ctx context.Context, st store.Store, logCtx *slog.Logger, ref Ref, category models.Category, cause error, start time.Time) error {
	logCtx.Error("Summarization stage failed.", "error", cause)
	p.metrics.ObserveStage(stageSummarize, metrics.OutcomeFailed, start)
	if errors.Is(cause, ErrDocumentNotFound) {
		return cause
	}

	fallback := &models.Summary{
		Text:        "Summarization failed: " + cause.Error(),
		KeyPoints:   []string{},
		Category:    category,
		GeneratedAt: invocation.ID(ctx),
	}
	if err := st.Update(ctx, ref.DocumentID, models.StatusSummarizationError,
		store.Field{Path: store.FieldSummary, Value: fallback},
		store.Field{Path: store.FieldSummaryError, Value: cause.Error()},
	); err != nil {
		logCtx.Error("CRITICAL: Failed to update status to summarization_error after a processing error.", "updateError", err)
	}
	return cause
}

func (p *Pipeline) markFailed(ctx context.Context, logCtx *slog.Logger, ref Ref, cause error) error {
	if errors.Is(cause, ErrDocumentNotFound) {
		return cause
	}
	if err := p.tables.Table(ref.Table).Update(ctx, ref.DocumentID, models.StatusError,
		store.Field{Path: store.FieldProcessingError, Value: cause.Error()},
	); err != nil {
		logCtx.Error("CRITICAL: Failed to update status to error after a processing error.", "updateError", err)
	}
	return cause
}

func statusWriteError(logCtx *slog.Logger, ref Ref, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		logCtx.Warn("No status record for document.")
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, ref.DocumentID)
	}
	logCtx.Error("Failed to update status.", "error", err)
	return fmt.Errorf("failed to update status: %w", err)
}

func storeError(ref Ref, msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, ref.DocumentID)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
