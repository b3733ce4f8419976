package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/tilepath/internal/api"
	"github.com/udisondev/tilepath/internal/archive"
	"github.com/udisondev/tilepath/internal/config"
	"github.com/udisondev/tilepath/internal/db"
	"github.com/udisondev/tilepath/internal/logx"
	"github.com/udisondev/tilepath/internal/pathfinding"
	"github.com/udisondev/tilepath/internal/router"
	"github.com/udisondev/tilepath/internal/transport"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config first to determine log level
	cfgPath := config.Path()
	cfg, err := config.LoadPathServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
	if level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.Info("path server starting", "config", cfgPath, "log_level", cfg.LogLevel)

	store, _, err := archive.Load(cfg.Data.CollisionArchive)
	if err != nil {
		return fmt.Errorf("loading collision map: %w", err)
	}

	records, err := loadTransports(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading transports: %w", err)
	}
	catalogue := transport.NewCatalogue(records)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rt := router.New(store, catalogue, router.Options{
		Workers:    cfg.Search.Workers,
		Policy:     searchPolicy(cfg.Search),
		Registerer: reg,
	})
	srv := api.New(rt, api.Options{
		StreamInterval: cfg.Search.StreamInterval,
		Gatherer:       reg,
		AccessLog:      logx.NewAccessLogger(level),
	})

	addr := net.JoinHostPort(cfg.BindAddress, strconv.Itoa(cfg.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting http server", "addr", addr, "workers", rt.Workers())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func searchPolicy(c config.SearchConfig) pathfinding.Policy {
	policy := pathfinding.DefaultPolicy()
	policy.Cutoff = c.Cutoff
	policy.AvoidWilderness = c.AvoidWilderness
	policy.DisableWilderness = c.DisableWilderness
	if c.Wilderness != nil {
		policy.Wilderness = pathfinding.Wilderness{Areas: c.Wilderness.Areas, Safe: c.Wilderness.Safe}
	}
	return policy
}

func loadTransports(ctx context.Context, cfg config.PathServer) ([]transport.Record, error) {
	if cfg.Data.TransportSource != config.SourceDatabase {
		return transport.LoadCSV(cfg.Data.TransportsCSV)
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return nil, err
	}

	records, err := database.Transports().LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("transports loaded", "source", "database", "records", len(records))
	return records, nil
}
