package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lllllllleong/idpflow/internal/blob"
	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/Lllllllleong/idpflow/internal/store"
	"github.com/google/uuid"
)

const defaultFileName = "document"

type IntakeConfig struct {
	DocumentBucket string
	UploadURLTTL   time.Duration
}

// IntakeFunction allocates a document id, seeds its record and issues the
// signed upload URL.
type IntakeFunction struct {
	blobs  blob.Store
	tables store.Tables
	config IntakeConfig
	newID  func() string
	now    func() time.Time
}

func NewIntake(b *Backend) (*IntakeFunction, error) {
	return NewIntakeFunction(b.Blobs, b.Tables, IntakeConfig{
		DocumentBucket: b.Config.DocumentBucket,
		UploadURLTTL:   b.Config.UploadURLTTL,
	})
}

func NewIntakeFunction(blobs blob.Store, tables store.Tables, config IntakeConfig) (*IntakeFunction, error) {
	if config.DocumentBucket == "" {
		return nil, fmt.Errorf("DOCUMENT_BUCKET environment variable must be set")
	}
	if config.UploadURLTTL <= 0 {
		config.UploadURLTTL = time.Hour
	}
	return &IntakeFunction{
		blobs:  blobs,
		tables: tables,
		config: config,
		newID:  uuid.NewString,
		now:    time.Now,
	}, nil
}

func (f *IntakeFunction) Process(ctx context.Context, req *models.IntakeRequest) (*models.IntakeResponse, error) {
	fileName := req.FileName
	if fileName == "" {
		fileName = defaultFileName
	}
	documentID := f.newID()
	logCtx := slog.With("documentId", documentID, "fileName", fileName)

	ref := blob.Ref{Bucket: f.config.DocumentBucket, Key: documentID}
	uploadURL, err := f.blobs.SignedUploadURL(ctx, ref, f.config.UploadURLTTL)
	if err != nil {
		logCtx.Error("Failed to issue upload URL.", "error", err)
		return nil, fmt.Errorf("failed to issue upload URL: %w", err)
	}

	doc := &models.Document{
		DocumentID: documentID,
		FileName:   fileName,
		UploadTime: f.now().UTC(),
		Status:     models.StatusUploaded,
	}
	if err := f.tables.Table("").Create(ctx, doc); err != nil {
		logCtx.Error("Failed to create document record.", "error", err)
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	logCtx.Info("Upload URL issued.", "ttl", f.config.UploadURLTTL.String())
	return &models.IntakeResponse{
		StatusCode: models.StatusCodeOK,
		DocumentID: documentID,
		UploadURL:  uploadURL,
	}, nil
}
