package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a slog logger. format is "text" or "json"; unknown levels fall
// back to info.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Output returns stdout, or a rotating file writer when path is set. Rotated
// files are compressed; the caller closes the returned Closer on shutdown.
func Output(path string, maxSizeMB int) (io.Writer, io.Closer) {
	if path == "" {
		return os.Stdout, io.NopCloser(nil)
	}
	if !strings.HasSuffix(path, ".log") {
		path += ".log"
	}
	l := &lumberjack.Logger{
		Filename:  path,
		MaxSize:   maxSizeMB, // megabytes
		LocalTime: false,     // UTC timestamps in rotated names
		Compress:  true,
	}
	return l, l
}
