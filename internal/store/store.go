// Package store reads and writes the per-document status record.
package store

import (
	"context"
	"errors"

	"github.com/Lllllllleong/idpflow/internal/models"
)

// ErrNotFound is returned when no record exists for a document id.
var ErrNotFound = errors.New("store: document not found")

// Record field paths accepted by Update.
const (
	FieldOCRResults          = "ocrResults"
	FieldClassification      = "classification"
	FieldSummary             = "summary"
	FieldPageCount           = "pageCount"
	FieldProcessingError     = "processingError"
	FieldOCRError            = "ocrError"
	FieldClassificationError = "classificationError"
	FieldSummaryError        = "summaryError"
)

// Field is one partial update to a record.
type Field struct {
	Path  string
	Value any
}

// Store is one table of status records keyed by document id.
type Store interface {
	Create(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, documentID string) (*models.Document, error)
	// Update sets status and the given fields in a single write. It fails
	// with ErrNotFound when the record does not exist.
	Update(ctx context.Context, documentID string, status models.Status, fields ...Field) error
	ListByStatus(ctx context.Context, status models.Status, limit int) ([]*models.Document, error)
}

// Tables resolves a table name from a stage request to a Store. The empty
// name selects the default table.
type Tables interface {
	Table(name string) Store
}
