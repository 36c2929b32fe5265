package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/claude/weeklog/internal/config"
	"github.com/claude/weeklog/internal/logging"
	weekmcp "github.com/claude/weeklog/internal/mcp"
	"github.com/claude/weeklog/internal/tracker"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// weeklog-mcp serves the MCP tools over stdio. With -server it forwards to a
// running weeklog-server; otherwise it loads the week from the configured files.
func main() {
	configPath := flag.String("config", "", "path to config file")
	serverURL := flag.String("server", "", "weeklog server URL for remote mode (e.g. http://weeklog.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "API key for mutating tools in remote mode (defaults to auth.api_key)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("weeklog-mcp", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so logs go to stderr.
	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	var ds weekmcp.DataSource
	if *serverURL != "" {
		key := *apiKey
		if key == "" {
			key = cfg.Auth.APIKey
		}
		ds = weekmcp.NewHTTPClient(*serverURL, key)
		log.Info("remote mode", "server", *serverURL)
	} else {
		t, _, err := tracker.Open(cfg.Tracker.CatalogPath, cfg.Tracker.SchedulePath, tracker.WithLogger(log))
		if err != nil {
			log.Error("failed to load week", "error", err)
			os.Exit(1)
		}
		ds = weekmcp.NewLocal(tracker.NewGuarded(t))
	}

	s := weekmcp.New(ds, Version, cfg.Tracker.RecommendCount, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}
