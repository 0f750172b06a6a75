package services

import (
	"context"

	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/Lllllllleong/idpflow/internal/pipeline"
)

// StageFunction exposes the pipeline stages as request/response operations.
// Failures are reported in the response's statusCode and error fields.
type StageFunction struct {
	pipeline *pipeline.Pipeline
}

func NewStageFunction(p *pipeline.Pipeline) *StageFunction {
	return &StageFunction{pipeline: p}
}

func (f *StageFunction) Extract(ctx context.Context, req *models.ExtractRequest) *models.ExtractResponse {
	if req.DocumentID == "" {
		return &models.ExtractResponse{StatusCode: models.StatusCodeError, Error: ErrMissingDocumentID.Error()}
	}
	ref := pipeline.Ref{DocumentID: req.DocumentID, Bucket: req.BucketName, Table: req.TableName}

	ocr, err := f.pipeline.Extract(ctx, ref)
	if err != nil {
		return &models.ExtractResponse{
			StatusCode: models.StatusCodeError,
			DocumentID: req.DocumentID,
			OCRResults: ocr,
			Error:      err.Error(),
		}
	}
	return &models.ExtractResponse{StatusCode: models.StatusCodeOK, DocumentID: req.DocumentID, OCRResults: ocr}
}

func (f *StageFunction) Classify(ctx context.Context, req *models.StageRequest) *models.ClassifyResponse {
	if req.DocumentID == "" {
		return &models.ClassifyResponse{StatusCode: models.StatusCodeError, Error: ErrMissingDocumentID.Error()}
	}
	ref := pipeline.Ref{DocumentID: req.DocumentID, Table: req.TableName}

	cls, err := f.pipeline.Classify(ctx, ref, nil)
	if err != nil {
		return &models.ClassifyResponse{StatusCode: models.StatusCodeError, DocumentID: req.DocumentID, Error: err.Error()}
	}
	return &models.ClassifyResponse{StatusCode: models.StatusCodeOK, DocumentID: req.DocumentID, Classification: cls}
}

func (f *StageFunction) Summarize(ctx context.Context, req *models.StageRequest) *models.SummarizeResponse {
	if req.DocumentID == "" {
		return &models.SummarizeResponse{StatusCode: models.StatusCodeError, Error: ErrMissingDocumentID.Error()}
	}
	ref := pipeline.Ref{DocumentID: req.DocumentID, Table: req.TableName}

	summary, err := f.pipeline.Summarize(ctx, ref, nil, nil)
	if err != nil {
		return &models.SummarizeResponse{StatusCode: models.StatusCodeError, DocumentID: req.DocumentID, Error: err.Error()}
	}
	return &models.SummarizeResponse{StatusCode: models.StatusCodeOK, DocumentID: req.DocumentID, Summary: summary}
}
