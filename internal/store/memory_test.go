package store

import (
	"context"
	"testing"
	"time"

	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, m *Memory, id string, status models.Status, uploaded time.Time) {
	t.Helper()
	require.NoError(t, m.Create(context.Background(), &models.Document{
		DocumentID: id,
		FileName:   id + ".pdf",
		UploadTime: uploaded,
		Status:     status,
	}))
}

func TestMemoryCreateGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed(t, m, "doc-1", models.StatusUploaded, time.Now())

	doc, err := m.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUploaded, doc.Status)
	assert.Equal(t, "doc-1.pdf", doc.FileName)

	err = m.Create(ctx, &models.Document{DocumentID: "doc-1"})
	assert.Error(t, err)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	fixed := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	seed(t, m, "doc-1", models.StatusUploaded, time.Now())

	ocr := &models.OCRResults{RawText: "hello", KeyValuePairs: map[string]string{}}
	require.NoError(t, m.Update(ctx, "doc-1", models.StatusOCRComplete,
		Field{Path: FieldOCRResults, Value: ocr},
		Field{Path: FieldPageCount, Value: 3},
	))
	require.NoError(t, m.Update(ctx, "doc-1", models.StatusClassificationComplete,
		Field{Path: FieldClassification, Value: &models.Classification{Category: models.CategoryInvoice, Confidence: 0.9}},
	))

	doc, err := m.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusClassificationComplete, doc.Status)
	assert.Equal(t, "hello", doc.OCRResults.RawText)
	assert.Equal(t, 3, doc.PageCount)
	assert.Equal(t, models.CategoryInvoice, doc.Classification.Category)
	assert.Equal(t, "doc-1.pdf", doc.FileName)
	assert.Equal(t, fixed, doc.UpdatedAt)
}

func TestMemoryUpdateErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed(t, m, "doc-1", models.StatusUploaded, time.Now())

	err := m.Update(ctx, "missing", models.StatusError)
	assert.ErrorIs(t, err, ErrNotFound)

	err = m.Update(ctx, "doc-1", models.StatusError, Field{Path: "bogus", Value: 1})
	assert.ErrorContains(t, err, "unknown field path")

	err = m.Update(ctx, "doc-1", models.StatusError, Field{Path: FieldOCRError, Value: 42})
	assert.ErrorContains(t, err, "unexpected value type")

	doc, err := m.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUploaded, doc.Status)
}

func TestMemoryListByStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, m, "c", models.StatusError, base.Add(2*time.Hour))
	seed(t, m, "a", models.StatusError, base)
	seed(t, m, "b", models.StatusComplete, base.Add(time.Hour))
	seed(t, m, "d", models.StatusError, base.Add(3*time.Hour))

	docs, err := m.ListByStatus(ctx, models.StatusError, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].DocumentID)
	assert.Equal(t, "c", docs[1].DocumentID)

	all, err := m.ListByStatus(ctx, models.StatusError, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryTables(t *testing.T) {
	tables := NewMemoryTables()
	ctx := context.Background()

	require.NoError(t, tables.Table("").Create(ctx, &models.Document{DocumentID: "x"}))
	_, err := tables.Table("").Get(ctx, "x")
	assert.NoError(t, err)

	_, err = tables.Table("other").Get(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}
