// Package export converts computed routes into GeoJSON and OSM XML.
package export

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"

	"github.com/natevvv/terrain-routing/pkg/geo"
	"github.com/natevvv/terrain-routing/pkg/routing"
	"github.com/natevvv/terrain-routing/pkg/search"
)

var (
	ErrNoProjection = errors.New("export: OSM output needs a UTM projection")
	ErrNoRoute      = errors.New("export: route does not exist")
)

const generator = "terrain-routing"

func point(c search.Coord, p geo.Projection) orb.Point {
	return p.ToWGS84(orb.Point{c.X, c.Y})
}

// GeoJSON returns the route as a line followed by one point per step.
// Coordinates are (lon, lat) for a UTM projection and (x, y) otherwise.
// A route that does not exist yields an empty collection, a route of a single
// position has no line.
func GeoJSON(route routing.Route, p geo.Projection) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if !route.Exists {
		return fc
	}

	line := make(orb.LineString, 0, len(route.Steps))
	for _, step := range route.Steps {
		line = append(line, point(step.State.Coord, p))
	}
	// a LineString needs two or more positions
	if len(line) >= 2 {
		lf := geojson.NewFeature(line)
		lf.Properties["route_id"] = route.ID
		lf.Properties["strategy"] = route.Strategy
		lf.Properties["length"] = route.Length
		lf.Properties["max_slope"] = route.MaxSlope
		lf.Properties["projection"] = p.String()
		fc.Append(lf)
	}

	for i, step := range route.Steps {
		f := geojson.NewFeature(line[i])
		f.Properties["id"] = step.ID
		if !step.IsRoot() {
			f.Properties["parent"] = step.Parent
			f.Properties["action"] = step.Action.String()
		}
		f.Properties["depth"] = step.Depth
		f.Properties["distance"] = step.DistanceCost
		f.Properties["max_slope"] = step.MaxSlopeCost
		f.Properties["value"] = step.Value
		if h, ok := step.Heuristic(); ok {
			f.Properties["heuristic"] = h
		}
		fc.Append(f)
	}
	return fc
}

// OSM returns the route as a way of new (negative id) nodes tagged as a path.
func OSM(route routing.Route, p geo.Projection) (*osm.OSM, error) {
	if p.IsPlanar() {
		return nil, ErrNoProjection
	}
	if !route.Exists {
		return nil, ErrNoRoute
	}

	o := &osm.OSM{Generator: generator}
	way := &osm.Way{
		ID:      -1,
		Visible: true,
		Tags: osm.Tags{
			{Key: "highway", Value: "path"},
			{Key: "name", Value: "route " + route.ID},
			{Key: "strategy", Value: route.Strategy},
			{Key: "length", Value: fmt.Sprintf("%.1f", route.Length)},
		},
	}
	for i, step := range route.Steps {
		pt := point(step.State.Coord, p)
		node := &osm.Node{
			ID:      osm.NodeID(-(i + 1)),
			Lat:     pt.Lat(),
			Lon:     pt.Lon(),
			Visible: true,
		}
		o.Nodes = append(o.Nodes, node)
		way.Nodes = append(way.Nodes, osm.WayNode{ID: node.ID})
	}
	o.Ways = append(o.Ways, way)
	return o, nil
}

// WriteOSM writes o as indented OSM XML.
func WriteOSM(w io.Writer, o *osm.OSM) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(o); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
