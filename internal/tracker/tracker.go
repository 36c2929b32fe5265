package tracker

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/claude/weeklog/internal/catalog"
	"github.com/claude/weeklog/internal/ingest"
	"github.com/claude/weeklog/internal/models"
)

// Tracker owns a Schedule and the exercise catalog used for recommendations.
// It is the surface that CLI, HTTP and MCP adapters call. Not safe for
// concurrent use; adapters serialise access.
type Tracker struct {
	schedule *Schedule
	catalog  catalog.Catalog
	rng      *rand.Rand
	log      *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithRand sets the random source used for recommendations.
func WithRand(rng *rand.Rand) Option {
	return func(t *Tracker) { t.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// New creates a Tracker with an empty week.
func New(cat catalog.Catalog, opts ...Option) *Tracker {
	t := &Tracker{
		schedule: NewSchedule(),
		catalog:  cat,
	}
	for _, o := range opts {
		o(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if t.log == nil {
		t.log = slog.New(slog.DiscardHandler)
	}
	return t
}

// Schedule exposes the underlying week for read-only consumers such as the exporter.
func (t *Tracker) Schedule() *Schedule {
	return t.schedule
}

// Load parses every record from r and appends them in file order. Parsing
// completes before anything is appended, so a malformed line leaves the
// schedule unchanged.
func (t *Tracker) Load(r io.Reader) (ingest.Result, error) {
	records, err := ingest.Parse(r)
	if err != nil {
		return ingest.Result{}, err
	}
	for _, rec := range records {
		// Parsed days are always in range.
		_ = t.schedule.Append(int(rec.Day), rec.Activity)
	}
	res := ingest.Summarize(records)
	t.log.Debug("records loaded", "records", res.RecordsReceived, "total", t.schedule.Total())
	return res, nil
}

// Replace discards the current week and loads r in its place. On error the
// current week is kept.
func (t *Tracker) Replace(r io.Reader) (ingest.Result, error) {
	records, err := ingest.Parse(r)
	if err != nil {
		return ingest.Result{}, err
	}
	t.schedule.Reset()
	for _, rec := range records {
		_ = t.schedule.Append(int(rec.Day), rec.Activity)
	}
	res := ingest.Summarize(records)
	res.Replaced = true
	t.log.Debug("schedule replaced", "records", res.RecordsReceived)
	return res, nil
}

// LoadFile opens path, loads it and closes it.
func (t *Tracker) LoadFile(path string) (ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("opening schedule file: %w", err)
	}
	defer f.Close()

	res, err := t.Load(f)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return res, nil
}

// Day returns a copy of one day's activities.
func (t *Tracker) Day(day int) ([]models.Activity, error) {
	return t.schedule.Day(day)
}

// Activity returns one entry of a day.
func (t *Tracker) Activity(day, index int) (models.Activity, error) {
	return t.schedule.Activity(day, index)
}

// Append adds an activity to the end of a day.
func (t *Tracker) Append(day int, a models.Activity) error {
	return t.schedule.Append(day, a)
}

// DeleteActivity removes a single entry.
func (t *Tracker) DeleteActivity(day, index int) error {
	return t.schedule.DeleteActivity(day, index)
}

// ClearDay empties a whole day.
func (t *Tracker) ClearDay(day int) error {
	return t.schedule.ClearDay(day)
}

// FewestReps returns the activity with the fewest reps on a day.
func (t *Tracker) FewestReps(day int) (models.Activity, error) {
	return t.schedule.FewestReps(day)
}

// Summary counts activities across the week.
func (t *Tracker) Summary() Summary {
	return t.schedule.Summary()
}

// DurationPerDay sums minutes per day, Monday first.
func (t *Tracker) DurationPerDay() [models.DaysPerWeek]int {
	return t.schedule.DurationPerDay()
}

// Recommend samples up to count exercises for a muscle group from the catalog.
func (t *Tracker) Recommend(group string, count int) Recommendation {
	return recommend(t.catalog, t.rng, group, count)
}

// Catalog returns the injected catalog.
func (t *Tracker) Catalog() catalog.Catalog {
	return t.catalog
}

// Open builds a tracker from a catalog file and a schedule file. A path that
// is empty or names a missing file leaves that part empty; any other error is
// returned.
func Open(catalogPath, schedulePath string, opts ...Option) (*Tracker, ingest.Result, error) {
	cat := catalog.New(nil)
	var missing []string
	if catalogPath != "" {
		c, err := catalog.Load(catalogPath)
		switch {
		case err == nil:
			cat = c
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, catalogPath)
		default:
			return nil, ingest.Result{}, err
		}
	}

	t := New(cat, opts...)
	for _, p := range missing {
		t.log.Warn("catalog file not found, recommendations disabled", "path", p)
	}
	if schedulePath == "" {
		return t, ingest.Result{}, nil
	}
	res, err := t.LoadFile(schedulePath)
	if errors.Is(err, fs.ErrNotExist) {
		t.log.Warn("schedule file not found, starting with an empty week", "path", schedulePath)
		return t, ingest.Result{}, nil
	}
	if err != nil {
		return nil, ingest.Result{}, err
	}
	t.log.Info("schedule loaded", "path", schedulePath, "records", res.RecordsReceived, "catalog_groups", cat.Len())
	return t, res, nil
}
