package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lllllllleong/idpflow/internal/blob"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store implements blob.Store on Amazon S3.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3Store creates an S3 client from the shared AWS configuration.
func NewS3Store(cfg awssdk.Config) *S3Store {
	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
	}
}

// SignedUploadURL returns a presigned PutObject URL.
func (s *S3Store) SignedUploadURL(ctx context.Context, ref blob.Ref, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: awssdk.String(ref.Bucket),
		Key:    awssdk.String(ref.Key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign put failed: %w", err)
	}
	return req.URL, nil
}

// ReadAll fetches the object, bounded by maxBytes.
func (s *S3Store) ReadAll(ctx context.Context, ref blob.Ref, maxBytes int64) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(ref.Bucket),
		Key:    awssdk.String(ref.Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("s3://%s: %w", ref, blob.ErrNotFound)
		}
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := blob.ReadLimited(resp.Body, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

var _ blob.Store = (*S3Store)(nil)
