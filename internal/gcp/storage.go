package gcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/idpflow/internal/blob"
)

// GCSStore implements blob.Store on Cloud Storage.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore creates a Cloud Storage client using application default credentials.
func NewGCSStore(ctx context.Context) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

// SignedUploadURL issues a V4 signed URL allowing a single PUT of the object.
func (s *GCSStore) SignedUploadURL(ctx context.Context, ref blob.Ref, ttl time.Duration) (string, error) {
	url, err := s.client.Bucket(ref.Bucket).SignedURL(ref.Key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "PUT",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign upload URL for gs://%s: %w", ref, err)
	}
	return url, nil
}

// ReadAll streams the object into memory, bounded by maxBytes.
func (s *GCSStore) ReadAll(ctx context.Context, ref blob.Ref, maxBytes int64) ([]byte, error) {
	reader, err := s.client.Bucket(ref.Bucket).Object(ref.Key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("gs://%s: %w", ref, blob.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get GCS object reader for gs://%s: %w", ref, err)
	}
	defer reader.Close()

	data, err := blob.ReadLimited(reader, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s: %w", ref, err)
	}
	return data, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

var _ blob.Store = (*GCSStore)(nil)
