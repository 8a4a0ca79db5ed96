package pbf

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/qedus/osmpbf"

	"github.com/natevvv/terrain-routing/pkg/geo"
	"github.com/natevvv/terrain-routing/pkg/terrain"
)

var ErrNoSamples = errors.New("pbf: no elevation samples")

// Sample is one elevation reading in projected coordinates.
type Sample struct {
	Y, X      float64
	Elevation float64
}

// ElevationImporter collects the nodes of an OSM PBF file carrying an "ele"
// tag and turns them into elevation grids.
type ElevationImporter struct {
	filename   string
	projection geo.Projection
	samples    []Sample
	skipped    int
}

func NewElevationImporter(filename string, projection geo.Projection) *ElevationImporter {
	return &ElevationImporter{
		filename:   filename,
		projection: projection,
		samples:    make([]Sample, 0),
	}
}

func (ei *ElevationImporter) Import() error {
	file, err := os.Open(ei.filename)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)

	err = decoder.Start(runtime.GOMAXPROCS(-1))
	if err != nil {
		return err
	}

	for {
		v, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", ei.filename, err)
		}
		switch v := v.(type) {
		case *osmpbf.Node:
			ele, ok := v.Tags["ele"]
			if !ok {
				continue
			}
			ei.add(v.Lat, v.Lon, ele)
		}
	}
	return nil
}

func (ei *ElevationImporter) add(lat, lon float64, ele string) {
	elevation, err := ParseElevation(ele)
	if err != nil {
		ei.skipped++
		return
	}
	p := ei.projection.FromWGS84(orb.Point{lon, lat})
	ei.samples = append(ei.samples, Sample{Y: p.Y(), X: p.X(), Elevation: elevation})
}

// ParseElevation reads an OSM "ele" value in metres ("1487", "1487 m", "1,487.5").
func ParseElevation(ele string) (float64, error) {
	ele = strings.TrimSpace(ele)
	ele = strings.TrimSuffix(ele, "m")
	ele = strings.ReplaceAll(strings.TrimSpace(ele), ",", "")
	return strconv.ParseFloat(ele, 64)
}

func (ei *ElevationImporter) Samples() []Sample { return ei.samples }
func (ei *ElevationImporter) Skipped() int      { return ei.skipped }

// Bound of all samples, in projected coordinates.
func (ei *ElevationImporter) Bound() orb.Bound {
	if len(ei.samples) == 0 {
		return orb.Bound{}
	}
	b := orb.Bound{Min: orb.Point{ei.samples[0].X, ei.samples[0].Y}, Max: orb.Point{ei.samples[0].X, ei.samples[0].Y}}
	for _, s := range ei.samples[1:] {
		b = b.Extend(orb.Point{s.X, s.Y})
	}
	return b
}

// Rasterize bins the samples into a grid covering bound with the given cell
// size. Each cell holds the mean of its samples; empty cells hold noData.
func (ei *ElevationImporter) Rasterize(name string, bound orb.Bound, cellSize, noData float64) (*terrain.Grid, error) {
	if len(ei.samples) == 0 {
		return nil, ErrNoSamples
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("pbf: cell size %v must be positive", cellSize)
	}
	// room for the shifted lookup of samples on the southern and eastern edges
	cols := int(math.Floor((bound.Max.X()-bound.Min.X()+terrain.LookupOffset)/cellSize)) + 1
	rows := int(math.Floor((bound.Max.Y()-bound.Min.Y()+terrain.LookupOffset)/cellSize)) + 1

	g := terrain.NewGrid(name, bound.Min.X(), bound.Max.Y(), rows, cols, cellSize, noData)
	sums := make([]float64, rows*cols)
	counts := make([]int, rows*cols)
	for _, s := range ei.samples {
		row, col, ok := g.Locate(s.Y, s.X)
		if !ok {
			continue
		}
		sums[row*cols+col] += s.Elevation
		counts[row*cols+col]++
	}
	for i := range sums {
		if counts[i] > 0 {
			g.Values[i] = sums[i] / float64(counts[i])
		}
	}
	return g, nil
}
