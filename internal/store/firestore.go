package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/idpflow/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreTables maps table names to Firestore collections.
type FirestoreTables struct {
	client            *firestore.Client
	defaultCollection string
}

func NewFirestoreTables(client *firestore.Client, defaultCollection string) *FirestoreTables {
	return &FirestoreTables{client: client, defaultCollection: defaultCollection}
}

func (t *FirestoreTables) Table(name string) Store {
	if name == "" {
		name = t.defaultCollection
	}
	return &Firestore{coll: t.client.Collection(name)}
}

// Firestore stores records as documents of one collection, keyed by document id.
type Firestore struct {
	coll *firestore.CollectionRef
}

func (s *Firestore) Create(ctx context.Context, doc *models.Document) error {
	if _, err := s.coll.Doc(doc.DocumentID).Create(ctx, doc); err != nil {
		return fmt.Errorf("failed to create document record %s: %w", doc.DocumentID, err)
	}
	return nil
}

func (s *Firestore) Get(ctx context.Context, documentID string) (*models.Document, error) {
	snap, err := s.coll.Doc(documentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s: %w", documentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document record %s: %w", documentID, err)
	}
	var doc models.Document
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document record %s: %w", documentID, err)
	}
	return &doc, nil
}

func (s *Firestore) Update(ctx context.Context, documentID string, st models.Status, fields ...Field) error {
	updates := []firestore.Update{
		{Path: "status", Value: st},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	for _, f := range fields {
		updates = append(updates, firestore.Update{Path: f.Path, Value: f.Value})
	}
	if _, err := s.coll.Doc(documentID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s: %w", documentID, ErrNotFound)
		}
		return fmt.Errorf("failed to update document record %s: %w", documentID, err)
	}
	return nil
}

func (s *Firestore) ListByStatus(ctx context.Context, st models.Status, limit int) ([]*models.Document, error) {
	query := s.coll.Where("status", "==", string(st))
	if limit > 0 {
		query = query.Limit(limit)
	}
	it := query.Documents(ctx)
	defer it.Stop()

	var docs []*models.Document
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list documents with status %s: %w", st, err)
		}
		var doc models.Document
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document record %s: %w", snap.Ref.ID, err)
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

var _ Store = (*Firestore)(nil)
