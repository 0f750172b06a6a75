package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lllllllleong/idpflow/internal/metrics"
)

type Handlers struct {
	Intake    Intaker
	Stages    Stages
	Processor EventProcessor
	Results   ResultsLookup
}

// NewRouter mounts every entry point on one chi router for local runs.
func NewRouter(h Handlers, reg *prometheus.Registry) (http.Handler, error) {
	httpMetrics, err := metrics.NewHTTPMiddleware(reg)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"OPTIONS", "POST", "GET"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httpMetrics.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Post("/upload", Intake(h.Intake))
	r.Get("/results/{documentId}", Results(h.Results))
	r.Route("/stages", func(r chi.Router) {
		r.Post("/extract", Extract(h.Stages))
		r.Post("/classify", Classify(h.Stages))
		r.Post("/summarize", Summarize(h.Stages))
	})
	r.Post("/events/storage", StorageEvent(h.Processor))

	return r, nil
}
