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

	// "HandleUpload" is the entry point name we'll see in GCP.
	functions.HTTP("HandleUpload", handleUpload)
}

// main is required by the Go Functions Framework.
func main() {}

func setup() {
	backend, err := services.NewBackend(context.Background(), config.Load())
	if err != nil {
		initErr = err
		return
	}
	intake, err := services.NewIntake(backend)
	if err != nil {
		initErr = err
		return
	}
	handler = httpapi.Intake(intake)
}

func handleUpload(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		slog.Error("CRITICAL: Upload intake initialization failed.", "error", initErr)
		httpapi.SetCORSHeaders(w)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	handler(w, r)
}
