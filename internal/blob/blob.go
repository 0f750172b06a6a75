// Package blob is the object storage boundary: uploaded documents are read
// from it and time-limited upload URLs are issued against it.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when the referenced object does not exist.
	ErrNotFound = errors.New("blob: object not found")
	// ErrTooLarge is returned when an object exceeds the read limit.
	ErrTooLarge = errors.New("blob: object exceeds size limit")
)

// Ref identifies an object in a bucket.
type Ref struct {
	Bucket string
	Key    string
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s", r.Bucket, r.Key)
}

// Store is implemented by GCS and S3 backed clients.
type Store interface {
	// SignedUploadURL returns a URL the caller can PUT the object to until ttl elapses.
	SignedUploadURL(ctx context.Context, ref Ref, ttl time.Duration) (string, error)
	// ReadAll returns the object content, failing with ErrTooLarge above maxBytes.
	ReadAll(ctx context.Context, ref Ref, maxBytes int64) ([]byte, error)
}

// ReadLimited reads r fully unless it holds more than maxBytes.
func ReadLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}
