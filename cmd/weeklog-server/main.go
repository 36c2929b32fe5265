package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/weeklog/internal/config"
	"github.com/claude/weeklog/internal/export"
	"github.com/claude/weeklog/internal/logging"
	weekmcp "github.com/claude/weeklog/internal/mcp"
	"github.com/claude/weeklog/internal/metrics"
	"github.com/claude/weeklog/internal/server"
	"github.com/claude/weeklog/internal/tracker"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (defaults plus WEEKLOG_* env when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set instead of calling os.Exit so deferred closes still run.
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	out, logCloser := logging.Output(cfg.Log.File, cfg.Log.MaxSizeMB)
	defer logCloser.Close()
	log := logging.New(out, cfg.Log.Level, cfg.Log.Format)
	log.Info("weeklog starting", "version", Version)

	t, _, err := tracker.Open(cfg.Tracker.CatalogPath, cfg.Tracker.SchedulePath, tracker.WithLogger(log))
	if err != nil {
		log.Error("failed to load week", "error", err)
		exitCode = 1
		return
	}
	week := tracker.NewGuarded(t)

	if cfg.Auth.APIKey == "" {
		log.Warn("no API key configured, mutating endpoints are disabled")
	}

	promRegistry := metrics.NewRegistry()
	m := metrics.New(promRegistry)
	m.Activities.Set(float64(t.Schedule().Total()))

	srv := server.New(week, server.Options{
		APIKey:         cfg.Auth.APIKey,
		RecommendCount: cfg.Tracker.RecommendCount,
		ExportPath:     cfg.Tracker.ExportPath,
		ExportFormat:   export.Format(cfg.Tracker.ExportFormat),
		Metrics:        m,
	}, log)
	srv.Mount("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))

	mcpSrv := weekmcp.New(weekmcp.NewLocal(week), Version, cfg.Tracker.RecommendCount, log)
	srv.Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Listen on the tailnet when enabled, otherwise plain TCP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			exitCode = 1
			return
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			exitCode = 1
			return
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := cfg.Server.Addr()
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			exitCode = 1
			return
		}
		log.Info("server starting", "addr", addr, "mode", "plain HTTP (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	if err := serve(httpSrv, listener, quit, log); err != nil {
		log.Error("server error", "error", err)
		exitCode = 1
		return
	}
	log.Info("server stopped")
}

// serve runs httpSrv until a signal arrives on quit or Serve fails. A signal
// triggers a graceful shutdown and returns nil.
func serve(httpSrv *http.Server, listener net.Listener, quit <-chan os.Signal, log *slog.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpSrv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
