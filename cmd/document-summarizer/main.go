package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/idpflow/internal/config"
	"github.com/Lllllllleong/idpflow/internal/httpapi"
	"github.com/Lllllllleong/idpflow/internal/services"
)

var (
	handler http.HandlerFunc
	once    sync.Once
	initErr error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	functions.HTTP("HandleSummarize", handleSummarize)
}

// main is required by the Go Functions Framework.
func main() {}

func setup() {
	ctx := context.Background()
	backend, err := services.NewBackend(ctx, config.Load())
	if err != nil {
		initErr = err
		return
	}
	p, err := backend.Pipeline(ctx, nil)
	if err != nil {
		initErr = err
		return
	}
	handler = httpapi.Summarize(services.NewStageFunction(p))
}

func handleSummarize(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		slog.Error("CRITICAL: Summarizer initialization failed.", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	handler(w, r)
}
