package gcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowParent(t *testing.T) {
	assert.Equal(t,
		"projects/idp/locations/us-central1/workflows/document-pipeline",
		WorkflowParent("idp", "us-central1", "document-pipeline"))
}

func TestWorkflowArgsPayload(t *testing.T) {
	b, err := json.Marshal(WorkflowArgs{DocumentID: "doc-1", BucketName: "uploads", TableName: "documents"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"documentId":"doc-1","bucketName":"uploads","tableName":"documents"}`, string(b))
}
