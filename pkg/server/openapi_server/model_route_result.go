// SPDX-License-Identifier: MIT

package openapi_server

import (
	"github.com/paulmach/orb"

	"github.com/natevvv/terrain-routing/pkg/geo"
	"github.com/natevvv/terrain-routing/pkg/routing"
	"github.com/natevvv/terrain-routing/pkg/search"
)

type Step struct {
	ID        int      `json:"id"`
	Parent    *int     `json:"parent,omitempty"`
	Action    string   `json:"action,omitempty"`
	Y         float64  `json:"y"`
	X         float64  `json:"x"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Elevation float64  `json:"elevation"`
	Depth     int      `json:"depth"`
	Distance  float64  `json:"distance"`
	MaxSlope  float64  `json:"maxSlope"`
	Value     float64  `json:"value"`
}

type SearchStats struct {
	Pops         int `json:"pops"`
	Expansions   int `json:"expansions"`
	Generated    int `json:"generated"`
	Duplicates   int `json:"duplicates"`
	DepthCutoffs int `json:"depthCutoffs"`
	PeakFrontier int `json:"peakFrontier"`
}

type RouteResult struct {
	ID          string      `json:"id"`
	Strategy    string      `json:"strategy"`
	Origin      Point       `json:"origin"`
	Destination Point       `json:"destination"`
	Exists      bool        `json:"exists"`
	Cause       string      `json:"cause,omitempty"`
	Length      float64     `json:"length"`
	MaxSlope    float64     `json:"maxSlope"`
	Steps       []Step      `json:"steps"`
	Nodes       int         `json:"nodes"`
	Stats       SearchStats `json:"stats"`
	ElapsedMs   float64     `json:"elapsedMs"`
}

func newStep(n search.Node, p geo.Projection) Step {
	step := Step{
		ID:       n.ID,
		Y:        n.State.Y,
		X:        n.State.X,
		Depth:    n.Depth,
		Distance: n.DistanceCost,
		MaxSlope: n.MaxSlopeCost,
		Value:    n.Value,
	}
	if n.State.Terrain != nil {
		step.Elevation = n.State.Terrain.ElevationAt(n.State.Y, n.State.X)
	}
	if !n.IsRoot() {
		parent := n.Parent
		step.Parent = &parent
		step.Action = n.Action.String()
	}
	if !p.IsPlanar() {
		ll := p.ToWGS84(orb.Point{n.State.X, n.State.Y})
		lon, lat := ll.Lon(), ll.Lat()
		step.Lat, step.Lon = &lat, &lon
	}
	return step
}

func newRouteResult(route routing.Route, p geo.Projection) RouteResult {
	result := RouteResult{
		ID:          route.ID,
		Strategy:    route.Strategy,
		Origin:      pointOf(route.Origin),
		Destination: pointOf(route.Destination),
		Exists:      route.Exists,
		Length:      route.Length,
		MaxSlope:    route.MaxSlope,
		Steps:       make([]Step, 0, len(route.Steps)),
		Nodes:       route.Nodes,
		Stats: SearchStats{
			Pops:         route.Stats.Pops,
			Expansions:   route.Stats.Expansions,
			Generated:    route.Stats.Generated,
			Duplicates:   route.Stats.Duplicates,
			DepthCutoffs: route.Stats.DepthCutoffs,
			PeakFrontier: route.Stats.PeakFrontier,
		},
		ElapsedMs: float64(route.Elapsed.Microseconds()) / 1000,
	}
	if !route.Exists {
		result.Cause = routing.Diagnose(route.Stats)
	}
	for _, n := range route.Steps {
		result.Steps = append(result.Steps, newStep(n, p))
	}
	return result
}
