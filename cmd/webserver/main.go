// Command webserver serves static pages over TCP with a fixed-size worker
// pool, plus an admin endpoint for metrics, health and pool stats.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fluxorio/webpool/pkg/config"
	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/observability/otel"
	prom "github.com/fluxorio/webpool/pkg/observability/prometheus"
	"github.com/fluxorio/webpool/pkg/web"
	"github.com/fluxorio/webpool/pkg/web/health"
	"github.com/fluxorio/webpool/pkg/worker"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := core.NewLogger(core.LoggerConfig{
		JSONOutput: cfg.Log.JSON,
		Level:      cfg.Log.Level,
	})
	core.SetDefaultLogger(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error(fmt.Sprintf("webserver: %v", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger core.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := otel.Initialize(ctx, cfg.Tracing); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := otel.Shutdown(shutdownCtx); err != nil {
			logger.Error(fmt.Sprintf("Failed to flush traces: %v", err))
		}
	}()

	pool := worker.NewPool(cfg.Pool.Size,
		worker.WithLogger(logger),
		worker.WithName("http"),
		worker.WithMetrics(prom.NewPoolMetrics(prom.DefaultRegistry)),
		worker.WithTracer(otel.Tracer()),
	)
	// drain-then-join once both servers have stopped
	defer pool.Shutdown()

	if err := prom.RegisterQueueDepth(prom.DefaultRegistry, func() float64 {
		return float64(pool.QueueDepth())
	}); err != nil {
		return err
	}

	listener := &web.Listener{
		Addr:           cfg.Server.Addr,
		MaxConnections: cfg.Server.MaxConnections,
		Pool:           pool,
		Handler: &web.StaticHandler{
			Root:       cfg.Server.StaticDir,
			BufferSize: cfg.Server.ReadBufferSize,
			SleepDelay: cfg.Server.SleepDelay,
			Logger:     logger,
		},
		Logger: logger,
	}
	if err := listener.Listen(); err != nil {
		return err
	}

	var admin *web.AdminServer
	if cfg.Admin.Enabled {
		registry := health.NewRegistry()
		registry.Register("pool", health.PoolChecker(pool))
		admin = web.NewAdminServer(web.AdminConfig{
			Addr:     cfg.Admin.Addr,
			Registry: prom.DefaultRegistry,
			Health:   registry,
			Pool:     pool,
			Logger:   logger,
		})
		if err := admin.Listen(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// reaching MaxConnections ends the process like a signal does
		defer stop()
		return listener.Serve(gctx)
	})
	if admin != nil {
		g.Go(admin.Serve)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return admin.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
