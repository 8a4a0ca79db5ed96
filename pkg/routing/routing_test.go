package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/natevvv/terrain-routing/internal/observability"
	"github.com/natevvv/terrain-routing/pkg/search"
	"github.com/natevvv/terrain-routing/pkg/terrain"
)

// flat 3x3 terrain of 10 unit cells; the lattice runs over y and x in {0, 10, 20}
func flatTerrain() *terrain.Map {
	g := terrain.NewGrid("flat", 0, 20, 3, 3, 10, terrain.DefaultNoData)
	for i := range g.Values {
		g.Values[i] = 10
	}
	m, err := terrain.NewMap(g)
	if err != nil {
		panic(err)
	}
	return m
}

var (
	origin      = search.Coord{Y: 0, X: 0}
	destination = search.Coord{Y: 20, X: 20}
)

func newRouter(t *testing.T, settings Settings, opts ...Option) (*Router, *observability.Collector) {
	t.Helper()
	collector, err := observability.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	return NewRouter(flatTerrain(), settings, append(opts, WithMetrics(collector))...), collector
}

var defaultSettings = Settings{Factor: 1, MaxSlope: 100, MaxDepth: 500000}

func TestComputeRoute(t *testing.T) {
	router, metrics := newRouter(t, defaultSettings)
	route, err := router.ComputeRoute(context.Background(), Request{Origin: origin, Destination: destination, Strategy: "astar-manhattan"})
	require.NoError(t, err)

	_, err = uuid.Parse(route.ID)
	assert.NoError(t, err)
	assert.True(t, route.Exists)
	assert.Equal(t, "astar-manhattan", route.Strategy)
	assert.Equal(t, 40.0, route.Length)
	assert.Equal(t, 0.0, route.MaxSlope)
	require.Len(t, route.Steps, 5)
	assert.Equal(t, origin, route.Coords()[0])
	assert.Equal(t, destination, route.Coords()[4])
	assert.Greater(t, route.Stats.Expansions, 0)
	assert.Greater(t, route.Nodes, len(route.Steps)-1)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues("astar-manhattan", "found")))
}

func TestComputeRouteWithoutRoute(t *testing.T) {
	router, metrics := newRouter(t, defaultSettings)
	route, err := router.ComputeRoute(context.Background(), Request{Origin: origin, Destination: search.Coord{Y: 50, X: 50}, Strategy: "bfs"})
	require.NoError(t, err)
	assert.False(t, route.Exists)
	assert.Empty(t, route.Steps)
	assert.Equal(t, "unreachable", Diagnose(route.Stats))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues("bfs", "no_route")))

	limited, _ := newRouter(t, Settings{Factor: 1, MaxSlope: 100, MaxDepth: 2})
	route, err = limited.ComputeRoute(context.Background(), Request{Origin: origin, Destination: destination, Strategy: "ucs"})
	require.NoError(t, err)
	assert.False(t, route.Exists)
	assert.Equal(t, "depth limited", Diagnose(route.Stats))
}

func TestComputeRouteErrors(t *testing.T) {
	router, metrics := newRouter(t, defaultSettings)
	_, err := router.ComputeRoute(context.Background(), Request{Origin: origin, Destination: destination, Strategy: "teleport"})
	assert.True(t, errors.Is(err, search.ErrUnknownStrategy))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues("teleport", "error")))

	broken, _ := newRouter(t, Settings{Factor: 0, MaxSlope: 100})
	_, err = broken.ComputeRoute(context.Background(), Request{Origin: origin, Destination: destination, Strategy: "dfs"})
	assert.True(t, errors.Is(err, search.ErrInvalidProblem))
}

func TestCompare(t *testing.T) {
	router, metrics := newRouter(t, defaultSettings)
	routes, err := router.Compare(context.Background(), origin, destination)
	require.NoError(t, err)

	infos := Strategies()
	require.Len(t, routes, len(infos))
	for i, route := range routes {
		assert.Equal(t, infos[i].Name, route.Strategy)
		assert.True(t, route.Exists, route.Strategy)
		assert.GreaterOrEqual(t, route.Length, 40.0)
	}
	for _, optimal := range []int{1, 2, 3, 4} { // bfs, ucs, astar-*
		assert.Equal(t, 40.0, routes[optimal].Length, routes[optimal].Strategy)
	}
	assert.Equal(t, 7, testutil.CollectAndCount(metrics.Searches))
}

func TestStrategies(t *testing.T) {
	infos := Strategies()
	require.Len(t, infos, 7)
	assert.Equal(t, StrategyInfo{Name: "dfs", Label: "DFS"}, infos[0])
	assert.Equal(t, StrategyInfo{Name: "greedy-manhattan", Label: "Greedy with Manhattan heuristic"}, infos[6])
}

func TestComputeRouteSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	router, _ := newRouter(t, defaultSettings, WithTracer(provider.Tracer("test")))

	_, err := router.ComputeRoute(context.Background(), Request{Origin: origin, Destination: destination, Strategy: "ucs"})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "ComputeRoute", spans[0].Name())
	attrs := map[string]bool{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = true
	}
	assert.True(t, attrs["route.exists"])
	assert.True(t, attrs["search.expansions"])
}
