// Package metrics exposes Prometheus instrumentation for pipeline stages and
// the local HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Stage outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Recorder counts stage outcomes and observes stage durations. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idp_stage_runs_total",
				Help: "Pipeline stage runs by stage and outcome.",
			},
			[]string{"stage", "outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "idp_stage_duration_seconds",
				Help:    "Pipeline stage latency.",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
			},
			[]string{"stage"},
		),
	}
	for _, c := range []prometheus.Collector{r.stageTotal, r.stageDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveStage records one run of stage that started at start.
func (r *Recorder) ObserveStage(stage, outcome string, start time.Time) {
	if r == nil {
		return
	}
	r.stageTotal.WithLabelValues(stage, outcome).Inc()
	r.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// HTTPMiddleware counts requests by method, chi route pattern and status.
type HTTPMiddleware struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewHTTPMiddleware(reg prometheus.Registerer) (*HTTPMiddleware, error) {
	m := &HTTPMiddleware{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	for _, c := range []prometheus.Collector{m.requestCount, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *HTTPMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Route pattern (/results/{documentId}) rather than the raw path.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestCount.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
