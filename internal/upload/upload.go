package upload

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/claude/weeklog/internal/ingest"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal   int
	FilesSent    int
	FilesSkipped int
	FilesErrored int

	RecordsSent int
}

// Uploader walks a directory of week files (*.txt in record format),
// validates each one locally, and POSTs the new or changed ones to a weeklog
// server. A nil client means dry run: files are parsed and counted only.
type Uploader struct {
	client *Client
	state  *StateDB
	server string
	root   string
	mode   string
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. root may be a directory or a single file;
// server keys the sent-file state so one file can go to several servers.
func New(client *Client, state *StateDB, server, root, mode string, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		server: server,
		root:   root,
		mode:   mode,
		log:    log,
	}
}

// Run executes the upload pipeline. Per-file failures are counted and
// logged; only setup failures abort the run.
func (u *Uploader) Run() (*Stats, error) {
	if u.client != nil {
		sum, err := u.client.FetchSummary()
		if err != nil {
			return &u.stats, fmt.Errorf("contacting server: %w", err)
		}
		u.log.Info("server week before upload", "activities", sum.Activities, "average_per_day", sum.Average)
	}

	files, err := u.collect()
	if err != nil {
		return &u.stats, err
	}

	for _, f := range files {
		u.stats.FilesTotal++
		if err := u.processFile(f); err != nil {
			u.log.Warn("file failed", "file", f, "error", err)
			u.stats.FilesErrored++
		}
	}
	return &u.stats, nil
}

// collect returns the week files under root in lexical order.
func (u *Uploader) collect() ([]string, error) {
	info, err := os.Stat(u.root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u.root, err)
	}
	if !info.IsDir() {
		return []string{u.root}, nil
	}

	var files []string
	err = filepath.WalkDir(u.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".txt" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", u.root, err)
	}
	slices.Sort(files)
	return files, nil
}

func (u *Uploader) processFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	hash := hashBytes(data)

	if u.client != nil {
		sent, err := u.state.IsSent(abs, hash, u.server)
		if err != nil {
			return fmt.Errorf("state check: %w", err)
		}
		if sent {
			u.stats.FilesSkipped++
			return nil
		}
	}

	// Validate locally so a bad file never reaches the server.
	records, err := ingest.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		u.stats.FilesSkipped++
		return nil
	}

	if u.client == nil {
		u.log.Info("dry run", "file", path, "records", len(records))
		u.stats.RecordsSent += len(records)
		return nil
	}

	res, err := u.client.SendSchedule(data, u.mode)
	if err != nil {
		return err
	}
	if err := u.state.MarkSent(abs, hash, u.server, res.RecordsReceived); err != nil {
		return fmt.Errorf("recording sent file: %w", err)
	}
	u.stats.FilesSent++
	u.stats.RecordsSent += res.RecordsReceived
	u.log.Info("sent", "file", path, "records", res.RecordsReceived, "mode", u.mode)
	return nil
}
