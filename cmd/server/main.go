package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/natevvv/terrain-routing/internal/config"
	"github.com/natevvv/terrain-routing/internal/logging"
	"github.com/natevvv/terrain-routing/internal/observability"
	"github.com/natevvv/terrain-routing/pkg/routing"
	server "github.com/natevvv/terrain-routing/pkg/server/openapi_server"
)

func main() {
	configFile := flag.String("config", "", "YAML configuration file (defaults when empty)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.NewFromEnv().Error(context.Background(), "invalid configuration", logging.Err(err))
		os.Exit(1)
	}
	log := cfg.Logging.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped", logging.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log logging.Logger) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	projection, err := cfg.Terrain.Projection()
	if err != nil {
		return err
	}

	start := time.Now()
	m, err := cfg.Terrain.Open(ctx, log)
	if err != nil {
		return err
	}
	rows, cols := m.Dimensions()
	log.Info(ctx, "terrain ready",
		logging.Int("rows", rows),
		logging.Int("cols", cols),
		logging.Float("cell_size", m.CellSize()),
		logging.Any("elapsed", time.Since(start)),
	)

	settings := routing.Settings{Factor: cfg.Search.Factor, MaxSlope: cfg.Search.MaxSlope, MaxDepth: cfg.Search.MaxDepth}
	router := routing.NewRouter(m, settings,
		routing.WithLogger(log),
		routing.WithMetrics(collector),
		routing.WithTracer(observability.Tracer()),
	)

	service := server.NewDefaultApiService(router, projection, cfg.Search.Strategy)
	controller := server.NewDefaultApiController(service)
	handler := server.NewRouter(log, controller, server.NewMetricsApiController(collector.Handler()))
	handler.Use(collector.Middleware())

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", logging.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
