package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/easyfin/internal/config"
	"github.com/JonMunkholm/easyfin/internal/core"
	_ "github.com/JonMunkholm/easyfin/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/easyfin/internal/export"
	"github.com/JonMunkholm/easyfin/internal/logging"
	"github.com/JonMunkholm/easyfin/internal/table"
	"github.com/JonMunkholm/easyfin/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", cfg.Source.Kind,
		"export_max_concurrent", cfg.Export.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		slog.Error("failed to open row source", "source", cfg.Source.Kind, "error", err)
		os.Exit(1)
	}
	defer closeSource()

	service, err := core.NewService(core.ServiceConfig{
		Source: source,
		Table: table.Options{
			PageSize:   cfg.Table.PageSize,
			DateLayout: cfg.Table.DateLayout,
			Locale:     cfg.Table.LocaleTag(),
		},
		Export:               export.Options{SheetName: cfg.Export.SheetName},
		ViewTTL:              cfg.Table.ViewTTL,
		MaxConcurrentExports: cfg.Export.MaxConcurrent,
		MaxExportWait:        cfg.Export.MaxWaitTime,
		LoadTimeout:          cfg.Source.LoadTimeout,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// Log registered tables
	slog.Info("tables registered",
		"count", core.TableCount(),
		"groups", len(core.Groups()),
	)
	for _, group := range core.Groups() {
		slog.Debug("table group", "group", group, "tables", len(core.ByGroup(group)))
	}

	// Idle views are evicted until shutdown
	go service.Views().StartSweeper(ctx, cfg.Table.SweepInterval)

	server := web.NewServer(service, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	// Let running exports finish writing their workbooks
	if status := service.ExportLimiterStatus(); status.Active > 0 {
		slog.Info("waiting for exports to complete", "active", status.Active)
		if err := service.WaitForExports(shutdownCtx); err != nil {
			slog.Warn("exports did not complete in time", "error", err)
		} else {
			slog.Info("all exports completed")
		}
	}

	slog.Info("server stopped")
}

// openSource builds the configured row source. The returned func releases
// its resources.
func openSource(ctx context.Context, cfg *config.Config) (core.RowSource, func(), error) {
	noop := func() {}

	switch strings.ToLower(cfg.Source.Kind) {
	case config.SourceMemory:
		return core.NewMemorySource(), noop, nil

	case config.SourceFile:
		slog.Info("serving tables from files", "dir", cfg.Source.Dir)
		return core.NewFileSource(cfg.Source.Dir), noop, nil

	case config.SourcePostgres:
		pool, err := core.OpenPool(ctx, core.PoolConfig{
			DSN:             cfg.Database.URL,
			MaxConns:        int32(cfg.Database.MaxConns),
			MinConns:        int32(cfg.Database.MinConns),
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to database", "max_conns", pool.Config().MaxConns)
		return core.NewPostgresSource(pool), pool.Close, nil

	case config.SourceAPI:
		src, err := core.NewAPISource(cfg.Source.BaseURL, cfg.Source.Token, cfg.Source.Timeout)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("serving tables from the Easyfin API", "base_url", cfg.Source.BaseURL)
		return src, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
