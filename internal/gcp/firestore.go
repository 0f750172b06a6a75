package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/idpflow/internal/store"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// NewFirestoreTables opens a client and exposes its collections as status
// tables. The caller owns the returned client.
func NewFirestoreTables(ctx context.Context, projectID, defaultCollection string) (*store.FirestoreTables, *firestore.Client, error) {
	client, err := NewFirestoreClient(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return store.NewFirestoreTables(client, defaultCollection), client, nil
}
