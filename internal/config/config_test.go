package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/terrain-routing/pkg/search"
	"github.com/natevvv/terrain-routing/pkg/terrain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, search.Coord{Y: 3105001, X: 279133}, cfg.Search.Initial.Coord())
	assert.Equal(t, search.Coord{Y: 3119401, X: 280333}, cfg.Search.Goal.Coord())
	assert.Equal(t, 300, cfg.Terrain.Resize)
	assert.Equal(t, 100.0, cfg.Search.MaxSlope)
	assert.Equal(t, 500000, cfg.Search.MaxDepth)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
terrain:
  files: [a.asc, b.asc]
  resize: 2
  aggregation: max
  utm_zone: 0
search:
  goal: {y: 10, x: 20}
  max_slope: 5
  strategy: greedy-manhattan
server:
  read_timeout: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.asc", "b.asc"}, cfg.Terrain.Files)
	assert.Equal(t, "max", cfg.Terrain.Aggregation)
	assert.Equal(t, Point{Y: 10, X: 20}, cfg.Search.Goal)
	assert.Equal(t, 5.0, cfg.Search.MaxSlope)
	assert.Equal(t, 1.0, cfg.Search.Factor) // kept from the defaults
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)

	p, err := cfg.Terrain.Projection()
	require.NoError(t, err)
	assert.True(t, p.IsPlanar())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SERVER_ADDR", ":9999")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestValidationErrors(t *testing.T) {
	path := writeFile(t, "bad.yaml", `
terrain:
  aggregation: median
search:
  max_slope: 0
  max_depth: -1
logging:
  format: xml
`)
	_, err := Load(path)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"Terrain.Aggregation", "Search.MaxSlope", "Search.MaxDepth", "Logging.Format"} {
		assert.True(t, strings.Contains(msg, want), "%q misses %s", msg, want)
	}

	cfg := Default()
	cfg.Search.Strategy = "hill-climbing"
	assert.True(t, errors.Is(cfg.Validate(), search.ErrUnknownStrategy))

	cfg = Default()
	cfg.Terrain.Files, cfg.Terrain.Cache = nil, ""
	assert.ErrorContains(t, cfg.Validate(), "Terrain.Files: field is required")

	_, err = Load(writeFile(t, "broken.yaml", "terrain: [1, 2"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTerrainOpenWritesAndReadsCache(t *testing.T) {
	asc := writeFile(t, "tile.asc", "ncols 4\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3 4\n5 6 7 8\n")
	cache := filepath.Join(t.TempDir(), "tile.trn")
	cfg := TerrainConfig{Files: []string{asc}, Cache: cache, Resize: 2, Aggregation: "max"}

	m, err := cfg.Open(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, m.CellSize())
	assert.Equal(t, 6.0, m.ElevationAt(2, 0))
	require.FileExists(t, cache)

	// the source is no longer needed once the cache exists
	require.NoError(t, os.Remove(asc))
	cached, err := cfg.Open(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, m.Tiles(), cached.Tiles())

	cfg.Cache = ""
	_, err = cfg.Open(context.Background(), nil)
	assert.Error(t, err)

	cfg.Aggregation = "median"
	_, err = cfg.Open(context.Background(), nil)
	assert.True(t, errors.Is(err, terrain.ErrUnknownAggFunc))
}

func TestTerrainOpenRebuildsStaleCache(t *testing.T) {
	asc := writeFile(t, "tile.asc", "ncols 4\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3 4\n5 6 7 8\n")
	cache := filepath.Join(t.TempDir(), "tile.trn")
	cfg := TerrainConfig{Files: []string{asc}, Cache: cache, Resize: 2, Aggregation: "max"}

	m, err := cfg.Open(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, m.CellSize())
	require.FileExists(t, cache+".yaml")

	cfg.Resize, cfg.Aggregation = 4, "min"
	m, err = cfg.Open(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, m.CellSize())
	assert.Equal(t, 1.0, m.ElevationAt(2, 0))

	// the rebuilt cache is reused for the new settings
	require.NoError(t, os.Remove(asc))
	cached, err := cfg.Open(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, m.Tiles(), cached.Tiles())

	// without files the cache is the only source
	cacheOnly := TerrainConfig{Cache: cache, Resize: 2, Aggregation: "max"}
	cached, err = cacheOnly.Open(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cached.CellSize())

	// a cache of unknown origin is rebuilt from the files
	require.NoError(t, os.Remove(cache+".yaml"))
	_, err = cfg.Open(context.Background(), nil)
	assert.Error(t, err)
}
