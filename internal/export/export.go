package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/claude/weeklog/internal/ingest"
	"github.com/claude/weeklog/internal/models"
	"github.com/claude/weeklog/internal/tracker"
)

// Format selects the export layout.
type Format string

const (
	// FormatText is the human-readable weekly listing.
	FormatText Format = "text"
	// FormatRecords is the record-line grammar accepted by ingest.Parse.
	FormatRecords Format = "records"
)

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatRecords:
		return FormatRecords, nil
	}
	return "", fmt.Errorf("unknown export format %q (want text or records)", s)
}

// Render lists every weekday in order, each header followed by one line per activity:
//
//	Monday
//	  legs, Squats, 30 min, 10 reps
//	Tuesday
//
// Days without activities keep their header.
func Render(s *tracker.Schedule) string {
	var b strings.Builder
	s.Each(func(day models.Weekday, acts []models.Activity) {
		b.WriteString(day.String())
		b.WriteByte('\n')
		for _, a := range acts {
			fmt.Fprintf(&b, "  %s, %s, %d min, %d reps\n", a.MuscleGroup, a.WorkoutType, a.DurationMinutes, a.Reps)
		}
	})
	return b.String()
}

// RenderRecords writes the week back as record lines, Monday first.
func RenderRecords(s *tracker.Schedule) string {
	var b strings.Builder
	s.Each(func(day models.Weekday, acts []models.Activity) {
		for _, a := range acts {
			b.WriteString(ingest.FormatLine(day, a))
			b.WriteByte('\n')
		}
	})
	return b.String()
}

// RenderFormat renders in the given format.
func RenderFormat(s *tracker.Schedule, f Format) string {
	if f == FormatRecords {
		return RenderRecords(s)
	}
	return Render(s)
}

// Write renders s to w. It never modifies the schedule.
func Write(w io.Writer, s *tracker.Schedule, f Format) error {
	if _, err := io.WriteString(w, RenderFormat(s, f)); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// WriteFile renders s to path, replacing any existing content.
func WriteFile(path string, s *tracker.Schedule, f Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening export file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing export file %s: %w", path, cerr)
		}
	}()

	if err := Write(file, s, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
