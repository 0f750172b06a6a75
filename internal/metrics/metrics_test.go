package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveStage("extract", OutcomeSuccess, time.Now())
	r.ObserveStage("extract", OutcomeSuccess, time.Now())
	r.ObserveStage("classify", OutcomeFailed, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(r.stageTotal.WithLabelValues("extract", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageTotal.WithLabelValues("classify", OutcomeFailed)))
	assert.Equal(t, 2, testutil.CollectAndCount(r.stageDuration))

	_, err = NewRecorder(reg)
	assert.Error(t, err, "duplicate registration")
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() { r.ObserveStage("extract", OutcomeSuccess, time.Now()) })
}

func TestHTTPMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMiddleware(reg)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/results/{documentId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/results/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/results/{documentId}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestCount))
}
