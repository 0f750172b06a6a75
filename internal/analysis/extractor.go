package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/idpflow/internal/blob"
	"github.com/Lllllllleong/idpflow/internal/invocation"
	"github.com/Lllllllleong/idpflow/internal/jsonrecover"
	"github.com/Lllllllleong/idpflow/internal/models"
)

// DefaultMaxDocumentBytes is the largest document the synchronous analysis
// call accepts.
const DefaultMaxDocumentBytes int64 = 10 << 20

// Extractor reads a stored document and runs it through an Analyzer.
type Extractor struct {
	blobs    blob.Store
	analyzer Analyzer
	maxBytes int64
}

func NewExtractor(blobs blob.Store, analyzer Analyzer, maxBytes int64) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	return &Extractor{blobs: blobs, analyzer: analyzer, maxBytes: maxBytes}
}

// Extract returns the OCR results for the document at ref together with its
// page count (zero when the document is not a PDF). It never fails: any error
// yields a degraded result carrying the error message.
func (e *Extractor) Extract(ctx context.Context, ref blob.Ref) (*models.OCRResults, int) {
	logCtx := slog.With("bucket", ref.Bucket, "key", ref.Key)

	content, err := e.blobs.ReadAll(ctx, ref, e.maxBytes)
	if err != nil {
		logCtx.Error("Failed to read document from storage.", "error", err)
		return Degraded(fmt.Errorf("failed to read document: %w", err)), 0
	}

	pageCount := 0
	if IsPDF(content) {
		prepared, n, err := PreparePDF(content)
		if err != nil {
			logCtx.Warn("PDF preparation failed, analyzing original bytes.", "error", err)
		} else {
			content = prepared
		}
		pageCount = n
	}

	blocks, err := e.analyzer.Analyze(ctx, content)
	if err != nil {
		logCtx.Error("Document analysis failed.", "error", err)
		return Degraded(err), pageCount
	}

	rawText := RawText(blocks)
	result := &models.OCRResults{
		RawText:       rawText,
		KeyValuePairs: KeyValuePairs(blocks),
		MarkdownJSON:  jsonrecover.FencedObjects(rawText),
		ExtractedAt:   invocation.ID(ctx),
	}
	logCtx.Info("Text extraction complete.",
		"blocks", len(blocks),
		"textLength", len(rawText),
		"keyValuePairs", len(result.KeyValuePairs),
		"markdownJson", len(result.MarkdownJSON),
	)
	return result, pageCount
}

// Degraded is the result recorded when extraction fails.
func Degraded(err error) *models.OCRResults {
	return &models.OCRResults{
		Error:         err.Error(),
		RawText:       "",
		KeyValuePairs: map[string]string{},
	}
}
