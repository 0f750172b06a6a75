package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/Lllllllleong/idpflow/internal/store"
)

var (
	// ErrResultNotFound is returned for lookups of unknown document ids.
	ErrResultNotFound = errors.New("document not found")
	// ErrMissingDocumentID is returned when a request names no document.
	ErrMissingDocumentID = errors.New("documentId is required")
)

// ResultsFunction returns a document's status record.
type ResultsFunction struct {
	tables store.Tables
}

func NewResultsFunction(tables store.Tables) *ResultsFunction {
	return &ResultsFunction{tables: tables}
}

func (f *ResultsFunction) Process(ctx context.Context, documentID, table string) (*models.Document, error) {
	if documentID == "" {
		return nil, ErrMissingDocumentID
	}
	doc, err := f.tables.Table(table).Get(ctx, documentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, documentID)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
