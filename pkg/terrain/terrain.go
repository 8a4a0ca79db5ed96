// Package terrain provides elevation surfaces for route searches.
//
// A surface is made of one or more rectangular tiles (Grid) sharing a cell size
// and a "no data" sentinel. Coordinates are planar (y = northing, x = easting),
// usually UTM metres. Tiles are read from ESRI ASCII grids or from the
// compressed .trn store written by cmd/terrain-builder, and can be down-sampled
// with Map.Resize.
package terrain

import "errors"

// Terrain is the read interface consumed by the search.
// Implementations must be safe for concurrent reads.
type Terrain interface {
	// Elevation at the given coordinate, or NoData() if nothing is known there.
	ElevationAt(y, x float64) float64
	// Grid spacing
	CellSize() float64
	// Sentinel distinguishing missing data from a real elevation
	NoData() float64
}

// DefaultNoData is used when a source does not declare its sentinel.
const DefaultNoData = -9999.0

var (
	ErrNoTiles        = errors.New("terrain: map needs at least one tile")
	ErrMixedCellSize  = errors.New("terrain: tiles have different cell sizes")
	ErrMixedNoData    = errors.New("terrain: tiles have different nodata values")
	ErrBadFactor      = errors.New("terrain: resize factor must be at least 1")
	ErrBadHeader      = errors.New("terrain: invalid grid header")
	ErrBadData        = errors.New("terrain: invalid grid data")
	ErrUnknownFormat  = errors.New("terrain: unknown file format")
	ErrUnknownAggFunc = errors.New("terrain: unknown aggregation")
)
