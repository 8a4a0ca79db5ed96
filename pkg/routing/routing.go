// Package routing runs route searches on a terrain and records what happened.
package routing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/natevvv/terrain-routing/internal/logging"
	"github.com/natevvv/terrain-routing/internal/observability"
	"github.com/natevvv/terrain-routing/pkg/search"
	"github.com/natevvv/terrain-routing/pkg/terrain"
)

// Search limits shared by all routes of a router
type Settings struct {
	Factor   float64 // step = cell size * factor
	MaxSlope float64 // maximum elevation difference of one step
	MaxDepth int     // maximum number of steps
}

type Request struct {
	Origin      search.Coord
	Destination search.Coord
	Strategy    string // see Strategies
}

// Result of a route computation
type Route struct {
	ID          string
	Strategy    string
	Origin      search.Coord
	Destination search.Coord
	Exists      bool          // whether a route was found
	Steps       []search.Node // root to destination
	Length      float64       // distance cost of the destination
	MaxSlope    float64       // steepest step of the route
	Stats       search.Stats
	Nodes       int // search tree size
	Elapsed     time.Duration
}

// Coords returns the positions of the steps.
func (r Route) Coords() []search.Coord {
	coords := make([]search.Coord, len(r.Steps))
	for i, step := range r.Steps {
		coords[i] = step.State.Coord
	}
	return coords
}

type StrategyInfo struct {
	Name  string
	Label string
}

var catalogue = []string{
	"dfs",
	"bfs",
	"ucs",
	"astar-euclidean",
	"astar-manhattan",
	"greedy-euclidean",
	"greedy-manhattan",
}

// Strategies lists the selectable strategies in menu order.
func Strategies() []StrategyInfo {
	infos := make([]StrategyInfo, 0, len(catalogue))
	for _, name := range catalogue {
		s, _ := search.ParseStrategy(name, search.Coord{})
		infos = append(infos, StrategyInfo{Name: s.Name(), Label: s.Label()})
	}
	return infos
}

type Router struct {
	terrain  terrain.Terrain
	settings Settings
	log      logging.Logger
	metrics  *observability.Collector
	tracer   trace.Tracer
}

type Option func(*Router)

func WithLogger(l logging.Logger) Option { return func(r *Router) { r.log = l } }

func WithMetrics(c *observability.Collector) Option { return func(r *Router) { r.metrics = c } }

func WithTracer(t trace.Tracer) Option { return func(r *Router) { r.tracer = t } }

func NewRouter(t terrain.Terrain, settings Settings, opts ...Option) *Router {
	r := &Router{
		terrain:  t,
		settings: settings,
		log:      logging.Noop(),
		tracer:   noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Terrain() terrain.Terrain { return r.terrain }
func (r *Router) Settings() Settings       { return r.settings }

func (r *Router) problem(origin, destination search.Coord) search.Problem {
	return search.Problem{
		Initial:  origin,
		Goal:     destination,
		Terrain:  r.terrain,
		Factor:   r.settings.Factor,
		MaxSlope: r.settings.MaxSlope,
		MaxDepth: r.settings.MaxDepth,
	}
}

// ComputeRoute searches a route with the requested strategy. A missing route
// is not an error: the returned route has Exists set to false.
func (r *Router) ComputeRoute(ctx context.Context, req Request) (Route, error) {
	route := Route{ID: uuid.NewString(), Strategy: req.Strategy, Origin: req.Origin, Destination: req.Destination}
	log := logging.FromContext(ctx, r.log).With(
		logging.String("route_id", route.ID),
		logging.String("strategy", req.Strategy),
	)

	ctx, span := r.tracer.Start(ctx, "ComputeRoute", trace.WithAttributes(
		attribute.String("route.id", route.ID),
		attribute.String("route.strategy", req.Strategy),
	))
	defer span.End()

	strategy, err := search.ParseStrategy(req.Strategy, req.Destination)
	if err != nil {
		r.fail(ctx, span, log, req.Strategy, err)
		return Route{}, err
	}
	route.Strategy = strategy.Name()

	start := time.Now()
	result, err := search.Search(r.problem(req.Origin, req.Destination), strategy, search.WithLogger(log))
	route.Elapsed = time.Since(start)
	if err != nil {
		r.fail(ctx, span, log, route.Strategy, err)
		return Route{}, err
	}

	route.Exists = result.Found
	route.Stats = result.Stats
	route.Nodes = result.Nodes()
	outcome := "no_route"
	if result.Found {
		outcome = "found"
		for _, n := range result.Path() {
			route.Steps = append(route.Steps, *n)
		}
		route.Length = result.Goal.DistanceCost
		route.MaxSlope = result.Goal.MaxSlopeCost
	}
	r.metrics.ObserveSearch(route.Strategy, outcome, route.Elapsed, result.Stats.Expansions, result.Stats.PeakFrontier)

	span.SetAttributes(
		attribute.Bool("route.exists", route.Exists),
		attribute.Int("search.expansions", result.Stats.Expansions),
		attribute.Int("search.peak_frontier", result.Stats.PeakFrontier),
	)
	fields := []logging.Field{
		logging.Int("expansions", result.Stats.Expansions),
		logging.Any("elapsed", route.Elapsed),
	}
	if route.Exists {
		log.Info(ctx, "route found", append(fields,
			logging.Int("steps", len(route.Steps)),
			logging.Float("length", route.Length),
			logging.Float("max_slope", route.MaxSlope))...)
	} else {
		log.Info(ctx, "no route", append(fields, logging.String("cause", Diagnose(result.Stats)))...)
	}
	return route, nil
}

func (r *Router) fail(ctx context.Context, span trace.Span, log logging.Logger, strategy string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if r.metrics != nil {
		r.metrics.Searches.WithLabelValues(strategy, "error").Inc()
	}
	log.Warn(ctx, "route computation failed", logging.Err(err))
}

// Diagnose names the likely reason a search found no route: the depth limit
// when nodes were cut off there, otherwise an unreachable destination.
func Diagnose(stats search.Stats) string {
	if stats.DepthCutoffs > 0 {
		return "depth limited"
	}
	return "unreachable"
}

// Compare computes a route with every strategy of the catalogue in parallel.
// The routes are returned in catalogue order.
func (r *Router) Compare(ctx context.Context, origin, destination search.Coord) ([]Route, error) {
	routes := make([]Route, len(catalogue))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range catalogue {
		i, name := i, name
		g.Go(func() error {
			route, err := r.ComputeRoute(ctx, Request{Origin: origin, Destination: destination, Strategy: name})
			routes[i] = route
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return routes, nil
}
