// Command idp-server serves every pipeline entry point from one process for
// local development.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Lllllllleong/idpflow/internal/config"
	"github.com/Lllllllleong/idpflow/internal/httpapi"
	"github.com/Lllllllleong/idpflow/internal/metrics"
	"github.com/Lllllllleong/idpflow/internal/services"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("Server exited with error.", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	backend, err := services.NewBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return err
	}

	p, err := backend.Pipeline(ctx, recorder)
	if err != nil {
		return err
	}
	workflow, err := backend.WorkflowStarter(ctx)
	if err != nil {
		return err
	}
	intake, err := services.NewIntake(backend)
	if err != nil {
		return err
	}

	router, err := httpapi.NewRouter(httpapi.Handlers{
		Intake:    intake,
		Stages:    services.NewStageFunction(p),
		Processor: services.NewProcessorFunction(p, workflow, cfg.Collection),
		Results:   services.NewResultsFunction(backend.Tables),
	}, reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening.", "addr", srv.Addr, "storeBackend", cfg.StoreBackend, "llmBackend", cfg.LLMBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
