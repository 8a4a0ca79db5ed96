package terrain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Map combines several tiles into one surface. It is immutable once built,
// so it can be shared by concurrent searches.
type Map struct {
	tiles    []*Grid
	cellSize float64
	noData   float64
}

// Create a map from the given tiles. All tiles need the same cell size and nodata value.
func NewMap(tiles ...*Grid) (*Map, error) {
	if len(tiles) == 0 {
		return nil, ErrNoTiles
	}
	first := tiles[0]
	for _, t := range tiles[1:] {
		if t.CellSize != first.CellSize {
			return nil, fmt.Errorf("%w: %q has %v, %q has %v", ErrMixedCellSize, first.Name, first.CellSize, t.Name, t.CellSize)
		}
		if t.NoData != first.NoData {
			return nil, fmt.Errorf("%w: %q has %v, %q has %v", ErrMixedNoData, first.Name, first.NoData, t.Name, t.NoData)
		}
	}
	return &Map{tiles: tiles, cellSize: first.CellSize, noData: first.NoData}, nil
}

func (m *Map) CellSize() float64 { return m.cellSize }
func (m *Map) NoData() float64   { return m.noData }
func (m *Map) Tiles() []*Grid    { return m.tiles }

// Elevation of the first tile containing the coordinate.
// Returns NoData if no tile contains it.
func (m *Map) ElevationAt(y, x float64) float64 {
	for _, t := range m.tiles {
		if row, col, ok := t.Locate(y, x); ok {
			return t.At(row, col)
		}
	}
	return m.noData
}

// Bound covering every tile
func (m *Map) Bound() orb.Bound {
	bound := m.tiles[0].Bound()
	for _, t := range m.tiles[1:] {
		bound = bound.Union(t.Bound())
	}
	return bound
}

// Dimensions of the cell raster covering the whole bound
func (m *Map) Dimensions() (rows, cols int) {
	bound := m.Bound()
	rows = int(math.Ceil((bound.Max[1] - bound.Min[1]) / m.cellSize))
	cols = int(math.Ceil((bound.Max[0] - bound.Min[0]) / m.cellSize))
	return rows, cols
}

// Resize creates a new map where each tile is down-sampled by factor,
// so the new cell size is CellSize()*factor.
func (m *Map) Resize(factor int, agg Aggregation) (*Map, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadFactor, factor)
	}
	tiles := make([]*Grid, 0, len(m.tiles))
	for _, t := range m.tiles {
		tiles = append(tiles, t.Resize(factor, agg))
	}
	return NewMap(tiles...)
}
