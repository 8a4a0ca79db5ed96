package export

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/terrain-routing/pkg/geo"
	"github.com/natevvv/terrain-routing/pkg/routing"
	"github.com/natevvv/terrain-routing/pkg/search"
)

func sampleRoute() routing.Route {
	coords := []search.Coord{{Y: 3105001, X: 279133}, {Y: 3105301, X: 279133}, {Y: 3105301, X: 279433}}
	actions := []search.Direction{search.NoAction, search.North, search.East}
	steps := make([]search.Node, len(coords))
	for i, c := range coords {
		steps[i] = search.Node{ID: i * 2, Parent: (i - 1) * 2, State: search.State{Coord: c}, Action: actions[i],
			DistanceCost: float64(i) * 300, Depth: i, Value: float64(i) * 300}
	}
	steps[0].Parent = -1
	return routing.Route{ID: "abc", Strategy: "ucs", Exists: true, Steps: steps, Length: 600, MaxSlope: 42}
}

func TestGeoJSONPlanar(t *testing.T) {
	fc := GeoJSON(sampleRoute(), geo.Projection{})
	require.Len(t, fc.Features, 4)

	line, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.Point{279133, 3105001}, line[0])
	assert.Equal(t, "ucs", fc.Features[0].Properties["strategy"])
	assert.Equal(t, "planar", fc.Features[0].Properties["projection"])

	root := fc.Features[1]
	assert.Equal(t, 0, root.Properties["id"])
	assert.NotContains(t, root.Properties, "parent")
	last := fc.Features[3]
	assert.Equal(t, "E", last.Properties["action"])
	assert.Equal(t, 2, last.Properties["parent"])
	assert.Equal(t, 600.0, last.Properties["distance"])
}

func TestGeoJSONGeographic(t *testing.T) {
	p, err := geo.UTM(28, false)
	require.NoError(t, err)
	fc := GeoJSON(sampleRoute(), p)

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	decoded, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, decoded.Features, 4)

	start := decoded.Features[1].Geometry.(orb.Point)
	assert.InDelta(t, -17.25, start.Lon(), 0.2)
	assert.InDelta(t, 28.05, start.Lat(), 0.2)
	assert.True(t, strings.Contains(string(data), `"LineString"`))
}

func TestGeoJSONWithoutRoute(t *testing.T) {
	fc := GeoJSON(routing.Route{Exists: false}, geo.Projection{})
	assert.Empty(t, fc.Features)
}

func TestGeoJSONSinglePosition(t *testing.T) {
	route := sampleRoute()
	route.Steps = route.Steps[:1]
	route.Length = 0
	fc := GeoJSON(route, geo.Projection{})
	require.Len(t, fc.Features, 1)
	assert.Equal(t, orb.Point{279133, 3105001}, fc.Features[0].Geometry)

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"LineString"`)
}

func TestOSM(t *testing.T) {
	p, _ := geo.UTM(28, false)
	o, err := OSM(sampleRoute(), p)
	require.NoError(t, err)
	require.Len(t, o.Nodes, 3)
	require.Len(t, o.Ways, 1)

	way := o.Ways[0]
	assert.Equal(t, "path", way.Tags.Find("highway"))
	assert.Equal(t, "ucs", way.Tags.Find("strategy"))
	for i, wn := range way.Nodes {
		assert.Equal(t, osm.NodeID(-(i + 1)), wn.ID)
		assert.Equal(t, o.Nodes[i].ID, wn.ID)
	}
	assert.InDelta(t, 28.05, o.Nodes[0].Lat, 0.2)

	var buf bytes.Buffer
	require.NoError(t, WriteOSM(&buf, o))
	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

	var decoded osm.OSM
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Ways, 1)
	assert.Len(t, decoded.Ways[0].Nodes, 3)
	assert.Equal(t, "path", decoded.Ways[0].Tags.Find("highway"))
}

func TestOSMErrors(t *testing.T) {
	_, err := OSM(sampleRoute(), geo.Projection{})
	assert.True(t, errors.Is(err, ErrNoProjection))

	p, _ := geo.UTM(28, false)
	_, err = OSM(routing.Route{}, p)
	assert.True(t, errors.Is(err, ErrNoRoute))
}
