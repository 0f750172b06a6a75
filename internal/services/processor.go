package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/Lllllllleong/idpflow/internal/gcp"
	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/Lllllllleong/idpflow/internal/pipeline"
)

// WorkflowStarter hands a document to the external orchestrator.
type WorkflowStarter interface {
	Start(ctx context.Context, args gcp.WorkflowArgs) (string, error)
}

// ProcessorFunction reacts to a document arriving in storage. With a
// workflow configured it starts an execution that drives the staged
// functions; otherwise it runs every stage in process.
type ProcessorFunction struct {
	pipeline *pipeline.Pipeline
	workflow WorkflowStarter
	table    string
}

func NewProcessorFunction(p *pipeline.Pipeline, workflow WorkflowStarter, table string) *ProcessorFunction {
	return &ProcessorFunction{pipeline: p, workflow: workflow, table: table}
}

func (f *ProcessorFunction) Process(ctx context.Context, e models.StorageEvent) (*models.ProcessResponse, error) {
	key := e.ObjectKey()
	if e.Bucket == "" || key == "" {
		return nil, fmt.Errorf("storage event is missing bucket or object key")
	}
	// Uploads are stored under their document id.
	documentID := path.Base(key)
	logCtx := slog.With("bucket", e.Bucket, "key", key, "documentId", documentID)
	logCtx.Info("Processing new storage object.")

	if f.workflow != nil {
		execID, err := f.workflow.Start(ctx, gcp.WorkflowArgs{
			DocumentID: documentID,
			BucketName: e.Bucket,
			TableName:  f.table,
		})
		if err != nil {
			logCtx.Error("Failed to trigger workflow.", "error", err)
			return nil, err
		}
		logCtx.Info("Hand-off to workflow complete.", "executionId", execID)
		return &models.ProcessResponse{
			StatusCode:  models.StatusCodeOK,
			DocumentID:  documentID,
			Message:     "Workflow started",
			ExecutionID: execID,
		}, nil
	}

	ref := pipeline.Ref{DocumentID: documentID, Bucket: e.Bucket, Table: f.table}
	if err := f.pipeline.Run(ctx, ref); err != nil {
		return nil, err
	}
	return &models.ProcessResponse{
		StatusCode: models.StatusCodeOK,
		DocumentID: documentID,
		Message:    "Document processed successfully",
	}, nil
}
