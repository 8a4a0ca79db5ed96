// Package config loads the YAML configuration shared by the commands.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/natevvv/terrain-routing/internal/logging"
	"github.com/natevvv/terrain-routing/internal/observability"
	"github.com/natevvv/terrain-routing/pkg/geo"
	"github.com/natevvv/terrain-routing/pkg/search"
	"github.com/natevvv/terrain-routing/pkg/terrain"
)

var validate = validator.New()

type Config struct {
	Terrain TerrainConfig               `yaml:"terrain"`
	Search  SearchConfig                `yaml:"search"`
	Server  ServerConfig                `yaml:"server"`
	Logging LoggingConfig               `yaml:"logging"`
	Tracing observability.TracingConfig `yaml:"tracing"`
}

type TerrainConfig struct {
	Files       []string `yaml:"files" validate:"required_without=Cache,dive,required"`
	Cache       string   `yaml:"cache"` // .trn file holding the resized terrain
	Resize      int      `yaml:"resize" validate:"min=1"`
	Aggregation string   `yaml:"aggregation" validate:"oneof=mean max min"`
	UTMZone     int      `yaml:"utm_zone" validate:"min=0,max=60"` // 0 disables geographic output
	South       bool     `yaml:"south"`
}

type Point struct {
	Y float64 `yaml:"y"`
	X float64 `yaml:"x"`
}

func (p Point) Coord() search.Coord { return search.Coord{Y: p.Y, X: p.X} }

type SearchConfig struct {
	Initial  Point   `yaml:"initial"`
	Goal     Point   `yaml:"goal"`
	Factor   float64 `yaml:"factor" validate:"gt=0"`
	MaxSlope float64 `yaml:"max_slope" validate:"gt=0"`
	MaxDepth int     `yaml:"max_depth" validate:"min=0"`
	Strategy string  `yaml:"strategy"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`
}

type LoggingConfig struct {
	Level     string `yaml:"level" validate:"oneof=debug info warn error"`
	Format    string `yaml:"format" validate:"oneof=text json"`
	AddSource bool   `yaml:"add_source"`
}

// Default is the La Gomera scenario.
func Default() Config {
	return Config{
		Terrain: TerrainConfig{
			Files:       []string{"data/LaGomera.asc"},
			Cache:       "data/Zoom300Gomera.trn",
			Resize:      300,
			Aggregation: "mean",
			UTMZone:     28,
		},
		Search: SearchConfig{
			Initial:  Point{Y: 3105001, X: 279133},
			Goal:     Point{Y: 3119401, X: 280333},
			Factor:   1,
			MaxSlope: 100,
			MaxDepth: 500000,
			Strategy: "astar-euclidean",
		},
		Server: ServerConfig{
			Addr:         ":8081",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Tracing: observability.TracingConfig{Exporter: "none", ServiceName: "terrain-routing", SampleRatio: 1},
	}
}

// Load reads the defaults, overlays the file at path (if any) and the
// environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Search.Strategy != "" {
		if _, err := search.ParseStrategy(c.Search.Strategy, c.Search.Goal.Coord()); err != nil {
			return fmt.Errorf("Search.Strategy: %w", err)
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required", "required_without":
			errs = append(errs, fmt.Errorf("%s: field is required", field))
		case "min", "gte":
			errs = append(errs, fmt.Errorf("%s: must be at least %s", field, e.Param()))
		case "max", "lte":
			errs = append(errs, fmt.Errorf("%s: must not exceed %s", field, e.Param()))
		case "gt":
			errs = append(errs, fmt.Errorf("%s: must be greater than %s", field, e.Param()))
		case "oneof":
			errs = append(errs, fmt.Errorf("%s: must be one of [%s], got %q", field, e.Param(), e.Value()))
		default:
			errs = append(errs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.Join(errs...)
}

func (c LoggingConfig) Logger() logging.Logger {
	return logging.New(logging.Config{Level: c.Level, Format: c.Format, AddSource: c.AddSource})
}

// Projection of the terrain coordinates. Planar when no UTM zone is set.
func (c TerrainConfig) Projection() (geo.Projection, error) {
	if c.UTMZone == 0 {
		return geo.Projection{}, nil
	}
	return geo.UTM(c.UTMZone, c.South)
}

// Open returns the resized terrain. The cache is read when it exists and was
// built from the configured files, resize factor and aggregation; otherwise
// the terrain is rebuilt and the cache rewritten. Without configured files
// the cache is the only source and read as is.
func (c TerrainConfig) Open(ctx context.Context, log logging.Logger) (*terrain.Map, error) {
	if log == nil {
		log = logging.Noop()
	}
	if c.Cache != "" {
		if _, err := os.Stat(c.Cache); err == nil {
			stale, reason := c.staleCache()
			if !stale {
				log.Info(ctx, "loading cached terrain", logging.String("path", c.Cache))
				return terrain.Load(c.Cache)
			}
			log.Warn(ctx, "rebuilding terrain cache", logging.String("path", c.Cache), logging.String("reason", reason))
		}
	}

	agg, err := terrain.ParseAggregation(c.Aggregation)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "loading terrain", logging.Strings("files", c.Files))
	m, err := terrain.Load(c.Files...)
	if err != nil {
		return nil, err
	}
	if c.Resize > 1 {
		if m, err = m.Resize(c.Resize, agg); err != nil {
			return nil, err
		}
		log.Info(ctx, "resized terrain", logging.Int("factor", c.Resize), logging.String("aggregation", agg.String()))
	}
	if c.Cache != "" {
		if err := terrain.Save(c.Cache, m); err != nil {
			return nil, fmt.Errorf("write cache: %w", err)
		}
		if err := writeCacheSource(c.Cache, c.cacheSource()); err != nil {
			return nil, fmt.Errorf("write cache: %w", err)
		}
		log.Info(ctx, "wrote terrain cache", logging.String("path", c.Cache))
	}
	return m, nil
}

// cacheSource is what a terrain cache was built from, stored next to the
// cache as <cache>.yaml.
type cacheSource struct {
	Files       []string `yaml:"files"`
	Resize      int      `yaml:"resize"`
	Aggregation string   `yaml:"aggregation,omitempty"`
}

func (c TerrainConfig) cacheSource() cacheSource {
	if c.Resize <= 1 {
		return cacheSource{Files: c.Files, Resize: 1}
	}
	return cacheSource{Files: c.Files, Resize: c.Resize, Aggregation: c.Aggregation}
}

func (s cacheSource) equal(other cacheSource) bool {
	return slices.Equal(s.Files, other.Files) && s.Resize == other.Resize && s.Aggregation == other.Aggregation
}

func cacheSourcePath(cache string) string { return cache + ".yaml" }

// staleCache reports whether the cache has to be rebuilt, and why.
func (c TerrainConfig) staleCache() (bool, string) {
	if len(c.Files) == 0 {
		return false, ""
	}
	data, err := os.ReadFile(cacheSourcePath(c.Cache))
	if err != nil {
		return true, "unknown source"
	}
	var built cacheSource
	if err := yaml.Unmarshal(data, &built); err != nil {
		return true, "unreadable source"
	}
	if !built.equal(c.cacheSource()) {
		return true, "source changed"
	}
	return false, ""
}

func writeCacheSource(cache string, source cacheSource) error {
	data, err := yaml.Marshal(source)
	if err != nil {
		return err
	}
	return os.WriteFile(cacheSourcePath(cache), data, 0o644)
}
