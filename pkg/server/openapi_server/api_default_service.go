// SPDX-License-Identifier: MIT

package openapi_server

import (
	"context"
	"errors"
	"net/http"

	"github.com/paulmach/orb"

	"github.com/natevvv/terrain-routing/pkg/export"
	"github.com/natevvv/terrain-routing/pkg/geo"
	"github.com/natevvv/terrain-routing/pkg/routing"
	"github.com/natevvv/terrain-routing/pkg/search"
)

// DefaultApiService is a service that implements the logic for the DefaultApiServicer
// This service should implement the business logic for every endpoint for the DefaultApi API.
// Include any external packages or services that will be required by this service.
type DefaultApiService struct {
	router     *routing.Router
	projection geo.Projection
	strategy   string
}

// NewDefaultApiService creates a default api service. Requests without a
// strategy use defaultStrategy.
func NewDefaultApiService(router *routing.Router, projection geo.Projection, defaultStrategy string) DefaultApiServicer {
	return &DefaultApiService{
		router:     router,
		projection: projection,
		strategy:   defaultStrategy,
	}
}

// ComputeRoute - Compute a new route
func (s *DefaultApiService) ComputeRoute(ctx context.Context, routeRequest RouteRequest, format string) (ImplResponse, error) {
	strategy := routeRequest.Strategy
	if strategy == "" {
		strategy = s.strategy
	}
	route, err := s.router.ComputeRoute(ctx, routing.Request{
		Origin:      routeRequest.Origin.coord(),
		Destination: routeRequest.Destination.coord(),
		Strategy:    strategy,
	})
	if err != nil {
		return errorResponse(err), err
	}

	if format == FormatGeoJSON {
		return Response(http.StatusOK, export.GeoJSON(route, s.projection)), nil
	}
	return Response(http.StatusOK, newRouteResult(route, s.projection)), nil
}

// CompareRoutes - Compute a route with every strategy
func (s *DefaultApiService) CompareRoutes(ctx context.Context, compareRequest CompareRequest) (ImplResponse, error) {
	routes, err := s.router.Compare(ctx, compareRequest.Origin.coord(), compareRequest.Destination.coord())
	if err != nil {
		return errorResponse(err), err
	}

	results := make([]RouteResult, 0, len(routes))
	for _, route := range routes {
		results = append(results, newRouteResult(route, s.projection))
	}
	return Response(http.StatusOK, results), nil
}

func (s *DefaultApiService) GetStrategies(ctx context.Context) (ImplResponse, error) {
	strategies := routing.Strategies()
	infos := make([]StrategyInfo, 0, len(strategies))
	for _, info := range strategies {
		infos = append(infos, StrategyInfo{Name: info.Name, Label: info.Label})
	}
	return Response(http.StatusOK, infos), nil
}

func (s *DefaultApiService) GetTerrain(ctx context.Context) (ImplResponse, error) {
	t := s.router.Terrain()
	settings := s.router.Settings()
	info := TerrainInfo{
		CellSize:   t.CellSize(),
		Projection: s.projection.String(),
		Settings: SearchSettings{
			Factor:   settings.Factor,
			MaxSlope: settings.MaxSlope,
			MaxDepth: settings.MaxDepth,
		},
	}
	if b, ok := t.(interface{ Bound() orb.Bound }); ok {
		bound := b.Bound()
		info.Bound = &Bound{MinY: bound.Min.Y(), MinX: bound.Min.X(), MaxY: bound.Max.Y(), MaxX: bound.Max.X()}
	}
	if d, ok := t.(interface{ Dimensions() (int, int) }); ok {
		info.Rows, info.Cols = d.Dimensions()
	}
	return Response(http.StatusOK, info), nil
}

func errorResponse(err error) ImplResponse {
	switch {
	case errors.Is(err, search.ErrUnknownStrategy):
		return Response(http.StatusBadRequest, nil)
	case errors.Is(err, search.ErrInvalidProblem):
		return Response(http.StatusUnprocessableEntity, nil)
	}
	return Response(http.StatusInternalServerError, nil)
}
