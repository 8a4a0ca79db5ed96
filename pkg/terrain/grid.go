package terrain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Grid is a single rectangular tile of elevations.
// Row 0 lies at the north edge (YMax), column 0 at the west edge (XMin).
// Both edges of the tile are inclusive: XMin <= x <= XMax and YMin <= y <= YMax.
type Grid struct {
	Name     string
	XMin     float64   // west edge
	YMax     float64   // north edge
	Rows     int       // number of rows (north to south)
	Cols     int       // number of columns (west to east)
	CellSize float64   // edge length of a cell
	NoData   float64   // sentinel for missing values
	Values   []float64 // row-major, len = Rows*Cols
}

// Create a grid where every cell holds the nodata value
func NewGrid(name string, xMin, yMax float64, rows, cols int, cellSize, noData float64) *Grid {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("invalid grid dimensions %dx%d", rows, cols))
	}
	if cellSize <= 0 {
		panic(fmt.Sprintf("invalid cell size %v", cellSize))
	}
	values := make([]float64, rows*cols)
	for i := range values {
		values[i] = noData
	}
	return &Grid{Name: name, XMin: xMin, YMax: yMax, Rows: rows, Cols: cols, CellSize: cellSize, NoData: noData, Values: values}
}

func (g *Grid) XMax() float64 { return g.XMin + float64(g.Cols)*g.CellSize }
func (g *Grid) YMin() float64 { return g.YMax - float64(g.Rows)*g.CellSize }

func (g *Grid) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{g.XMin, g.YMin()}, Max: orb.Point{g.XMax(), g.YMax}}
}

func (g *Grid) At(row, col int) float64 {
	return g.Values[g.index(row, col)]
}

func (g *Grid) Set(row, col int, value float64) {
	g.Values[g.index(row, col)] = value
}

func (g *Grid) index(row, col int) int {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		panic(fmt.Sprintf("cell (%d,%d) is not contained in grid %q (%dx%d)", row, col, g.Name, g.Rows, g.Cols))
	}
	return row*g.Cols + col
}

// LookupOffset shifts a coordinate before it is divided by the cell size.
const LookupOffset = 1.0

// Locate returns the cell containing the coordinate. The distance from the
// north and west edges is taken one unit further than the coordinate itself,
// so a point just inside a cell boundary already resolves to the next cell.
// Coordinates that resolve past the last row or column are outside the tile.
func (g *Grid) Locate(y, x float64) (row, col int, ok bool) {
	if x < g.XMin || x > g.XMax() || y < g.YMin() || y > g.YMax {
		return 0, 0, false
	}
	row = int(math.Floor((g.YMax - y + LookupOffset) / g.CellSize))
	col = int(math.Floor((x - g.XMin + LookupOffset) / g.CellSize))
	if row >= g.Rows || col >= g.Cols {
		return 0, 0, false
	}
	return row, col, true
}

// Elevation at the coordinate, NoData if outside of the tile
func (g *Grid) ElevationAt(y, x float64) float64 {
	row, col, ok := g.Locate(y, x)
	if !ok {
		return g.NoData
	}
	return g.At(row, col)
}

// Resize down-samples the tile: each factor x factor block becomes one cell.
// Blocks are anchored at the north-west corner; partial blocks at the south and east edges are aggregated as well.
func (g *Grid) Resize(factor int, agg Aggregation) *Grid {
	rows := (g.Rows + factor - 1) / factor
	cols := (g.Cols + factor - 1) / factor
	resized := NewGrid(g.Name, g.XMin, g.YMax, rows, cols, g.CellSize*float64(factor), g.NoData)

	block := make([]float64, 0, factor*factor)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			block = block[:0]
			for r := i * factor; r < min((i+1)*factor, g.Rows); r++ {
				for c := j * factor; c < min((j+1)*factor, g.Cols); c++ {
					if v := g.At(r, c); v != g.NoData {
						block = append(block, v)
					}
				}
			}
			if len(block) > 0 {
				resized.Set(i, j, agg.Apply(block))
			}
		}
	}
	return resized
}
