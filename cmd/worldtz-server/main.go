// Package main implements the worldtz JSON API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v7"
	"github.com/codeGROOVE-dev/worldtz/pkg/api"
	"github.com/codeGROOVE-dev/worldtz/pkg/timezone"
	"github.com/codeGROOVE-dev/worldtz/pkg/zoneinfo"
	"github.com/go-kit/kit/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	version = flag.Bool("version", false, "Show version")
)

type config struct {
	Port      string        `env:"WORLDTZ_PORT"       envDefault:"8080"`
	LogLevel  string        `env:"WORLDTZ_LOG_LEVEL"  envDefault:"info"`
	ZoneDir   string        `env:"WORLDTZ_ZONE_DIR"   envDefault:""`
	Overrides string        `env:"WORLDTZ_OVERRIDES"  envDefault:""`
	HostTZ    string        `env:"WORLDTZ_HOST_TZ"    envDefault:"UTC"`
	RateLimit int           `env:"WORLDTZ_RATE_LIMIT" envDefault:"120"`
	CacheTTL  time.Duration `env:"WORLDTZ_CACHE_TTL"  envDefault:"2m"`
}

func main() {
	flag.Parse()

	if *version {
		fmt.Println("worldtz Server v1.0.0")
		return
	}

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	logger.Info("Server configuration",
		"port", cfg.Port,
		"log_level", level,
		"zone_dir", cfg.ZoneDir,
		"overrides", cfg.Overrides,
		"host_tz", cfg.HostTZ,
		"rate_limit", cfg.RateLimit,
		"cache_ttl", cfg.CacheTTL)

	counter, latency := api.MakeMetrics("worldtz", "api")
	svc, err := newService(cfg, logger, counter, latency)
	if err != nil {
		logger.Error("Failed to create service", "error", err)
		os.Exit(1)
	}

	srv := &server{
		limiter: newRateLimiter(cfg.RateLimit),
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.Handle("/", api.MakeHandler(svc, logger))
	mux.Handle("GET /metrics", promhttp.Handler())

	antiCSRF := http.NewCrossOriginProtection()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.wrap(antiCSRF.Handler(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.limiter.sweep()
			}
		}
	}()

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// newService wires the zone database, overrides and middleware from cfg.
func newService(cfg config, logger *slog.Logger, counter metrics.Counter, latency metrics.Histogram) (api.Service, error) {
	host, err := time.LoadLocation(cfg.HostTZ)
	if err != nil {
		return nil, fmt.Errorf("loading host zone %q: %w", cfg.HostTZ, err)
	}

	zoneOpts := []zoneinfo.Option{zoneinfo.WithLogger(logger)}
	if cfg.ZoneDir != "" {
		zoneOpts = append(zoneOpts, zoneinfo.WithZoneDir(cfg.ZoneDir))
	}
	zones, err := zoneinfo.New(zoneOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading zone database: %w", err)
	}

	opts := []api.Option{
		api.WithLogger(logger),
		api.WithHostLocation(host),
		api.WithCacheTTL(cfg.CacheTTL),
	}
	if cfg.Overrides != "" {
		f, err := os.Open(cfg.Overrides)
		if err != nil {
			return nil, fmt.Errorf("opening overrides: %w", err)
		}
		defer f.Close() //nolint:errcheck // read-only
		extra, err := timezone.LoadOverrides(f)
		if err != nil {
			return nil, fmt.Errorf("loading overrides %s: %w", cfg.Overrides, err)
		}
		opts = append(opts, api.WithOverrides(extra))
	}

	svc := api.New(zones, opts...)
	svc = api.LoggingMiddleware(svc, logger)
	svc = api.MetricsMiddleware(svc, counter, latency)
	return svc, nil
}
