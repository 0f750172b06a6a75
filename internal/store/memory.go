package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Lllllllleong/idpflow/internal/models"
)

// MemoryTables keeps every table in process. Used by the local server and tests.
type MemoryTables struct {
	mu     sync.Mutex
	tables map[string]*Memory
}

func NewMemoryTables() *MemoryTables {
	return &MemoryTables{tables: make(map[string]*Memory)}
}

func (t *MemoryTables) Table(name string) Store {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.tables[name]
	if !ok {
		m = NewMemory()
		t.tables[name] = m
	}
	return m
}

// Memory is a map-backed Store. Records are copied in and out.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]models.Document
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]models.Document), now: time.Now}
}

func (m *Memory) Create(ctx context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[doc.DocumentID]; exists {
		return fmt.Errorf("document record %s already exists", doc.DocumentID)
	}
	m.docs[doc.DocumentID] = *doc
	return nil
}

func (m *Memory) Get(ctx context.Context, documentID string) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[documentID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", documentID, ErrNotFound)
	}
	return &doc, nil
}

func (m *Memory) Update(ctx context.Context, documentID string, status models.Status, fields ...Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[documentID]
	if !ok {
		return fmt.Errorf("%s: %w", documentID, ErrNotFound)
	}
	for _, f := range fields {
		if err := apply(&doc, f); err != nil {
			return err
		}
	}
	doc.Status = status
	doc.UpdatedAt = m.now()
	m.docs[documentID] = doc
	return nil
}

func (m *Memory) ListByStatus(ctx context.Context, status models.Status, limit int) ([]*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []*models.Document
	for _, doc := range m.docs {
		if doc.Status == status {
			d := doc
			docs = append(docs, &d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadTime.Before(docs[j].UploadTime)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func apply(doc *models.Document, f Field) error {
	var ok bool
	switch f.Path {
	case FieldOCRResults:
		doc.OCRResults, ok = f.Value.(*models.OCRResults)
	case FieldClassification:
		doc.Classification, ok = f.Value.(*models.Classification)
	case FieldSummary:
		doc.Summary, ok = f.Value.(*models.Summary)
	case FieldPageCount:
		doc.PageCount, ok = f.Value.(int)
	case FieldProcessingError:
		doc.ProcessingError, ok = f.Value.(string)
	case FieldOCRError:
		doc.OCRError, ok = f.Value.(string)
	case FieldClassificationError:
		doc.ClassificationError, ok = f.Value.(string)
	case FieldSummaryError:
		doc.SummaryError, ok = f.Value.(string)
	default:
		return fmt.Errorf("unknown field path %q", f.Path)
	}
	if !ok {
		return fmt.Errorf("field %q: unexpected value type %T", f.Path, f.Value)
	}
	return nil
}

var _ Store = (*Memory)(nil)
