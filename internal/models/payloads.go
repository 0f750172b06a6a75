package models

import "net/http"

// These structs define the JSON payloads exchanged with the upload client,
// the workflow and the stage functions. Stage responses carry a numeric
// statusCode (200 or 500) alongside an error message on failure.

// IntakeRequest is the input for the upload intake function.
type IntakeRequest struct {
	FileName string `json:"fileName"`
}

// IntakeResponse is the output of the upload intake function.
type IntakeResponse struct {
	StatusCode int    `json:"statusCode"`
	DocumentID string `json:"documentId,omitempty"`
	UploadURL  string `json:"uploadUrl,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ExtractRequest is the input for the text extraction stage.
type ExtractRequest struct {
	DocumentID string `json:"documentId"`
	BucketName string `json:"bucketName"`
	TableName  string `json:"tableName"`
}

// ExtractResponse is the output of the text extraction stage.
type ExtractResponse struct {
	StatusCode int         `json:"statusCode"`
	DocumentID string      `json:"documentId,omitempty"`
	OCRResults *OCRResults `json:"ocrResults,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// StageRequest is the input for the classification and summarization stages,
// which read their prerequisites from the status store.
type StageRequest struct {
	DocumentID string `json:"documentId"`
	TableName  string `json:"tableName"`
}

// ClassifyResponse is the output of the classification stage.
type ClassifyResponse struct {
	StatusCode     int             `json:"statusCode"`
	DocumentID     string          `json:"documentId,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// SummarizeResponse is the output of the summarization stage.
type SummarizeResponse struct {
	StatusCode int      `json:"statusCode"`
	DocumentID string   `json:"documentId,omitempty"`
	Summary    *Summary `json:"summary,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// StorageEvent is the storage-arrival notification that drives the combined
// pipeline. GCS events name the object in "name"; other producers use "key".
type StorageEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name,omitempty"`
	Key    string `json:"key,omitempty"`
}

// ObjectKey returns the key of the object that arrived.
func (e StorageEvent) ObjectKey() string {
	if e.Key != "" {
		return e.Key
	}
	return e.Name
}

// ProcessResponse is the output of the combined pipeline when invoked over HTTP.
type ProcessResponse struct {
	StatusCode  int    `json:"statusCode"`
	DocumentID  string `json:"documentId,omitempty"`
	Message     string `json:"message,omitempty"`
	ExecutionID string `json:"executionId,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Stage status codes.
const (
	StatusCodeOK    = http.StatusOK
	StatusCodeError = http.StatusInternalServerError
)
