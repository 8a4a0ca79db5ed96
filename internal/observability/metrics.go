package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics of route searches and of the HTTP
// surface.
type Collector struct {
	gatherer prometheus.Gatherer

	Searches       *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	Expanded       *prometheus.HistogramVec
	FrontierPeak   *prometheus.HistogramVec

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil. Registering twice returns the existing metrics.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	searches, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "searches_total",
		Help: "Total number of route searches, labeled by strategy and outcome (found, no_route, error).",
	}, []string{"strategy", "outcome"}), "searches_total")
	if err != nil {
		return nil, err
	}
	duration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Route search latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}, []string{"strategy"}), "search_duration_seconds")
	if err != nil {
		return nil, err
	}
	expanded, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_expanded_nodes",
		Help:    "Number of expanded nodes per route search.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 10),
	}, []string{"strategy"}), "search_expanded_nodes")
	if err != nil {
		return nil, err
	}
	peak, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_frontier_peak",
		Help:    "Largest frontier size per route search.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 10),
	}, []string{"strategy"}), "search_frontier_peak")
	if err != nil {
		return nil, err
	}
	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by route and status code.",
	}, []string{"route", "code"}), "http_requests_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"route"}), "http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		Searches:       searches,
		SearchDuration: duration,
		Expanded:       expanded,
		FrontierPeak:   peak,
		HTTPRequests:   requests,
		HTTPDurations:  durations,
	}, nil
}

// ObserveSearch records one finished search. A nil collector ignores the call.
func (c *Collector) ObserveSearch(strategy, outcome string, elapsed time.Duration, expanded, frontierPeak int) {
	if c == nil {
		return
	}
	c.Searches.WithLabelValues(strategy, outcome).Inc()
	c.SearchDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	c.Expanded.WithLabelValues(strategy).Observe(float64(expanded))
	c.FrontierPeak.WithLabelValues(strategy).Observe(float64(frontierPeak))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations, labeled by the name of
// the matched mux route.
func (c *Collector) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if c == nil {
				return
			}
			route := RouteName(r)
			c.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			c.HTTPDurations.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

// RouteName returns the name of the matched route, its path template, or "unknown".
func RouteName(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unknown"
	}
	if name := route.GetName(); name != "" {
		return name
	}
	if tpl, err := route.GetPathTemplate(); err == nil {
		return tpl
	}
	return "unknown"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
