package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/idpflow/internal/config"
	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/Lllllllleong/idpflow/internal/pipeline"
	"github.com/Lllllllleong/idpflow/internal/services"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

var (
	processorInstance *services.ProcessorFunction
	once              sync.Once
	initErr           error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Triggered by object finalization in the upload bucket.
	functions.CloudEvent("ProcessUpload", processUpload)
}

// main is required by the Go Functions Framework.
func main() {}

func setup() {
	ctx := context.Background()
	cfg := config.Load()
	backend, err := services.NewBackend(ctx, cfg)
	if err != nil {
		initErr = err
		return
	}
	workflow, err := backend.WorkflowStarter(ctx)
	if err != nil {
		initErr = err
		return
	}
	p, err := backend.Pipeline(ctx, nil)
	if err != nil {
		initErr = err
		return
	}
	processorInstance = services.NewProcessorFunction(p, workflow, cfg.Collection)
	slog.Info("Document processor initialized.", "orchestrated", workflow != nil)
}

func processUpload(ctx context.Context, e cloudevents.Event) error {
	once.Do(setup)
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var event models.StorageEvent
	if err := json.Unmarshal(e.Data(), &event); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	// Returning the error marks the invocation as failed.
	_, err := processorInstance.Process(pipeline.WithInvocationID(ctx, e.ID()), event)
	return err
}
