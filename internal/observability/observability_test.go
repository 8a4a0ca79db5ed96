package observability

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSearch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.ObserveSearch("ucs", "found", 20*time.Millisecond, 12, 5)
	c.ObserveSearch("ucs", "no_route", time.Millisecond, 3, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Searches.WithLabelValues("ucs", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Searches.WithLabelValues("ucs", "no_route")))
	assert.Equal(t, 3, testutil.CollectAndCount(c.Searches)+testutil.CollectAndCount(c.Expanded))

	var nilCollector *Collector
	assert.NotPanics(t, func() { nilCollector.ObserveSearch("bfs", "found", 0, 0, 0) })
}

func TestCollectorRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)
	assert.Same(t, first.Searches, second.Searches)
}

func TestMiddlewareAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	router := mux.NewRouter()
	router.Use(c.Middleware())
	router.HandleFunc("/strategies", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Name("GetStrategies")
	router.Handle("/metrics", c.Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/strategies", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GetStrategies", "418")))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.True(t, strings.Contains(string(body), `http_requests_total{code="418",route="GetStrategies"} 1`))
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{Exporter: "none"}, nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, span := Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestInitTracingStdout(t *testing.T) {
	var buf bytes.Buffer
	cfg := TracingConfig{Exporter: "stdout", ServiceName: "test", SampleRatio: 1, Output: &buf}
	shutdown, err := InitTracing(context.Background(), cfg, nil)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "compute-route")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	ShutdownWithTimeout(context.Background(), shutdown, nil)
	assert.Contains(t, buf.String(), "compute-route")

	_, err = InitTracing(context.Background(), TracingConfig{Exporter: "zipkin"}, nil)
	assert.Error(t, err)
}
