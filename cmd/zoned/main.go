package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haukened/zoned/internal/dns/common/clock"
	"github.com/haukened/zoned/internal/dns/common/log"
	"github.com/haukened/zoned/internal/dns/config"
	"github.com/haukened/zoned/internal/dns/gateways/transport"
	"github.com/haukened/zoned/internal/dns/gateways/wire"
	"github.com/haukened/zoned/internal/dns/infra/metrics"
	"github.com/haukened/zoned/internal/dns/repos/answercache"
	"github.com/haukened/zoned/internal/dns/repos/zone"
	"github.com/haukened/zoned/internal/dns/services/resolver"
	"github.com/haukened/zoned/internal/dns/services/responder"
)

const (
	version = "0.1.0-dev"
	appName = "zoned"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the DNS server
type Application struct {
	config    *config.AppConfig
	transport transport.ServerTransport
	responder *responder.Responder
	metrics   *metrics.Metrics
	logger    log.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"app":            appName,
		"version":        version,
		"env":            cfg.Env,
		"log_level":      cfg.LogLevel,
		"listen":         cfg.ListenAddr(),
		"zone_file":      cfg.ZoneFile,
		"max_alias_hops": cfg.MaxAliasHops,
		"alias_policy":   cfg.AliasPolicy,
		"cache_size":     cfg.CacheSize,
		"metrics_addr":   cfg.MetricsAddr,
	}, "Starting zoned")

	app, err := buildApplication(cfg, log.GetLogger())
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "zoned stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig, logger log.Logger) (*Application, error) {
	table, err := loadZone(cfg, logger)
	if err != nil {
		return nil, err
	}

	policy, err := resolver.ParseAliasPolicy(cfg.AliasPolicy)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	opts := resolver.ResolverOptions{
		Zone:     table,
		Observer: m,
		Logger:   logger,
		MaxHops:  cfg.MaxAliasHops,
		Policy:   policy,
	}
	if cfg.DisableCache {
		logger.Info(map[string]any{"disabled": true}, "Resolution caching disabled")
	} else {
		if cfg.CacheSize > math.MaxInt {
			return nil, fmt.Errorf("cache size too large: %d (max %d)", cfg.CacheSize, math.MaxInt)
		}
		cache, err := answercache.New(int(cfg.CacheSize))
		if err != nil {
			return nil, fmt.Errorf("failed to create resolution cache: %w", err)
		}
		opts.Cache = cache
		logger.Info(map[string]any{"type": "LRU", "size": cfg.CacheSize}, "Resolution cache configured")
	}

	resp := responder.New(responder.Options{
		Codec:    wire.NewUDPCodec(logger),
		Resolver: resolver.NewResolver(opts),
		Metrics:  m,
		Clock:    clock.RealClock{},
		Logger:   logger,
	})

	tr, err := transport.NewTransport(transport.TransportUDP, cfg.ListenAddr(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	return &Application{
		config:    cfg,
		transport: tr,
		responder: resp,
		metrics:   m,
		logger:    logger,
	}, nil
}

// loadZone returns the configured zone file or the built-in table.
func loadZone(cfg *config.AppConfig, logger log.Logger) (*zone.Table, error) {
	if cfg.ZoneFile == "" {
		table := zone.Builtin()
		logger.Info(map[string]any{"names": table.Len(), "records": table.Records()}, "Serving built-in zone table")
		return table, nil
	}
	table, err := zone.LoadFile(cfg.ZoneFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load zone file: %w", err)
	}
	logger.Info(map[string]any{
		"zone_file": cfg.ZoneFile,
		"names":     table.Len(),
		"records":   table.Records(),
	}, "Zone table loaded")
	return table, nil
}

// Address returns the address the DNS transport is bound to.
func (app *Application) Address() string {
	return app.transport.Address()
}

// Run starts the DNS server and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.transport.Start(ctx, app.responder); err != nil {
		return fmt.Errorf("failed to start UDP transport: %w", err)
	}
	app.logger.Info(map[string]any{
		"address":   app.transport.Address(),
		"transport": "UDP",
	}, "DNS server started")

	metricsErr := make(chan error, 1)
	if app.config.MetricsAddr != "" {
		go func() { metricsErr <- app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger) }()
	}

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info(nil, "Shutdown initiated")
	case err := <-metricsErr:
		if err != nil {
			runErr = err
			app.logger.Error(map[string]any{"error": err}, "Metrics endpoint failed")
		}
		cancel()
	}

	done := make(chan error, 1)
	go func() { done <- app.transport.Stop() }()

	select {
	case err := <-done:
		if err != nil {
			app.logger.Warn(map[string]any{"error": err}, "Error during transport shutdown")
		}
		app.logger.Info(nil, "Graceful shutdown completed")
		return runErr
	case <-time.After(defaultShutdownTimeout):
		app.logger.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
