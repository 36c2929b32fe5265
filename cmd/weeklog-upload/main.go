package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/weeklog/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "weeklog server URL (e.g. http://weeklog.tail1234.ts.net)")
	path := flag.String("path", "", "week file or directory of *.txt week files")
	apiKey := flag.String("api-key", os.Getenv("WEEKLOG_AUTH_API_KEY"), "server API key (defaults to $WEEKLOG_AUTH_API_KEY)")
	replace := flag.Bool("replace", false, "replace the server's week instead of appending (single file only)")
	dryRun := flag.Bool("dry-run", false, "parse and validate but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("weeklog-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Usage: weeklog-upload -server <URL> -path <file or dir> [-replace] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}

	mode := "append"
	if *replace {
		if info, err := os.Stat(*path); err == nil && info.IsDir() {
			fmt.Fprintf(os.Stderr, "Error: -replace needs a single file, not a directory\n")
			os.Exit(1)
		}
		mode = "replace"
	}

	*serverURL = strings.TrimRight(*serverURL, "/")

	var client *upload.Client
	var state *upload.StateDB
	if *dryRun {
		log.Info("DRY RUN mode: files will be validated but not sent")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		state, err = upload.OpenStateDB(filepath.Join(homeDir, ".weeklog-upload"))
		if err != nil {
			log.Error("failed to open state database", "error", err)
			os.Exit(1)
		}
		defer state.Close()
		client = upload.NewClient(*serverURL, *apiKey)
	}

	stats, err := upload.New(client, state, *serverURL, *path, mode, log).Run()
	printStats(stats)
	if err != nil {
		log.Error("upload failed", "error", err)
		if state != nil {
			state.Close()
		}
		os.Exit(1)
	}
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files sent:       %d\n", stats.FilesSent)
	fmt.Printf("  Files skipped:    %d (already sent or empty)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Printf("  Records:          %d\n", stats.RecordsSent)
	fmt.Println()
}
