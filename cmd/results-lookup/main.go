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
	functions.HTTP("HandleGetResults", handleGetResults)
}

// main is required by the Go Functions Framework.
func main() {}

// handleGetResults serves GET ?documentId=<id> for the upload page's polling.
func handleGetResults(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		backend, err := services.NewBackend(context.Background(), config.Load())
		if err != nil {
			initErr = err
			return
		}
		handler = httpapi.Results(services.NewResultsFunction(backend.Tables))
	})
	if initErr != nil {
		slog.Error("CRITICAL: Results lookup initialization failed.", "error", initErr)
		httpapi.SetCORSHeaders(w)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	handler(w, r)
}
