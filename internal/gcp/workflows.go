package gcp

import (
	"context"
	"encoding/json"
	"fmt"

	executions "cloud.google.com/go/workflows/executions/apiv1"
	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
)

// WorkflowArgs is the argument handed to the orchestration workflow. Its
// fields match the staged functions' request payloads.
type WorkflowArgs struct {
	DocumentID string `json:"documentId"`
	BucketName string `json:"bucketName"`
	TableName  string `json:"tableName"`
}

// WorkflowTrigger starts executions of one Cloud Workflows workflow.
type WorkflowTrigger struct {
	client *executions.Client
	parent string
}

func NewWorkflowTrigger(ctx context.Context, projectID, location, workflowID string) (*WorkflowTrigger, error) {
	if projectID == "" || location == "" || workflowID == "" {
		return nil, fmt.Errorf("NewWorkflowTrigger: projectID, location and workflowID cannot be empty")
	}
	client, err := executions.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Workflows Executions client: %w", err)
	}
	return &WorkflowTrigger{
		client: client,
		parent: WorkflowParent(projectID, location, workflowID),
	}, nil
}

// WorkflowParent is the resource name executions are created under.
func WorkflowParent(projectID, location, workflowID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/workflows/%s", projectID, location, workflowID)
}

// Start creates an execution and returns its resource name.
func (t *WorkflowTrigger) Start(ctx context.Context, args WorkflowArgs) (string, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to marshal workflow payload: %w", err)
	}
	exec, err := t.client.CreateExecution(ctx, &executionspb.CreateExecutionRequest{
		Parent: t.parent,
		Execution: &executionspb.Execution{
			Argument: string(payload),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to trigger workflow execution: %w", err)
	}
	return exec.GetName(), nil
}

func (t *WorkflowTrigger) Close() error {
	return t.client.Close()
}
