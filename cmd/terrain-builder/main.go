package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natevvv/terrain-routing/internal/pbf"
	"github.com/natevvv/terrain-routing/pkg/geo"
	"github.com/natevvv/terrain-routing/pkg/terrain"
)

var flagInputFiles = flag.String("in", "data/LaGomera.asc", "comma separated .asc/.trn input files")
var flagPbfFile = flag.String("pbf", "", "rasterize the ele tags of an OSM PBF file instead of reading grids")
var flagZone = flag.Int("zone", 28, "UTM zone of the PBF raster (0 picks the zone of the data)")
var flagSouth = flag.Bool("south", false, "PBF raster lies on the southern hemisphere")
var flagCellSize = flag.Float64("cell", 100, "cell size of the PBF raster in metres")
var flagResize = flag.Int("resize", 300, "down-sampling factor")
var flagAggregation = flag.String("agg", "mean", "aggregation of resized blocks (mean, max, min)")
var flagOutputFile = flag.String("o", "data/Zoom300Gomera.trn", "output file (.trn or .asc for a single tile)")

func main() {
	flag.Parse()

	agg, err := terrain.ParseAggregation(*flagAggregation)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	var m *terrain.Map
	if *flagPbfFile != "" {
		m, err = rasterize(*flagPbfFile)
	} else {
		m, err = terrain.Load(strings.Split(*flagInputFiles, ",")...)
	}
	if err != nil {
		log.Fatal(err)
	}
	rows, cols := m.Dimensions()
	fmt.Printf("[TIME] Import: %s\n", time.Since(start))
	fmt.Printf("Tiles: %d, cells: %dx%d, cell size: %v\n", len(m.Tiles()), rows, cols, m.CellSize())

	if *flagResize > 1 {
		start = time.Now()
		m, err = m.Resize(*flagResize, agg)
		if err != nil {
			log.Fatal(err)
		}
		rows, cols = m.Dimensions()
		fmt.Printf("[TIME] Resize: %s\n", time.Since(start))
		fmt.Printf("Cells: %dx%d, cell size: %v\n", rows, cols, m.CellSize())
	}

	start = time.Now()
	if err := write(*flagOutputFile, m); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[TIME] Export: %s\n", time.Since(start))
	fmt.Printf("Wrote terrain to %s\n", *flagOutputFile)
}

func rasterize(file string) (*terrain.Map, error) {
	zone := *flagZone
	projection, err := geo.UTM(max(zone, 1), *flagSouth)
	if err != nil {
		return nil, err
	}

	importer := pbf.NewElevationImporter(file, projection)
	if err := importer.Import(); err != nil {
		return nil, err
	}
	if zone == 0 {
		// re-project in the zone of the data's centre
		center := projection.ToWGS84(importer.Bound().Center())
		if projection, err = geo.UTM(geo.ZoneOf(center.Lon()), *flagSouth); err != nil {
			return nil, err
		}
		importer = pbf.NewElevationImporter(file, projection)
		if err := importer.Import(); err != nil {
			return nil, err
		}
	}
	fmt.Printf("Elevation samples: %d (skipped %d), projection %s\n", len(importer.Samples()), importer.Skipped(), projection)

	name := strings.TrimSuffix(filepath.Base(file), ".osm.pbf")
	g, err := importer.Rasterize(name, importer.Bound(), *flagCellSize, terrain.DefaultNoData)
	if err != nil {
		return nil, err
	}
	return terrain.NewMap(g)
}

func write(path string, m *terrain.Map) error {
	if strings.ToLower(filepath.Ext(path)) != ".asc" {
		return terrain.Save(path, m)
	}
	if len(m.Tiles()) != 1 {
		return fmt.Errorf("%s: ASC output holds a single tile, got %d", path, len(m.Tiles()))
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := terrain.WriteASC(file, m.Tiles()[0]); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
