package mcp

import (
	"context"

	"github.com/claude/weeklog/internal/export"
	"github.com/claude/weeklog/internal/models"
	"github.com/claude/weeklog/internal/tracker"
)

// DataSource abstracts the week for MCP tools. Both Local (in-process tracker)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Day(ctx context.Context, day int) ([]models.Activity, error)
	Activity(ctx context.Context, day, index int) (models.Activity, error)
	Append(ctx context.Context, day int, a models.Activity) error
	DeleteActivity(ctx context.Context, day, index int) error
	ClearDay(ctx context.Context, day int) error
	FewestReps(ctx context.Context, day int) (models.Activity, error)
	Summary(ctx context.Context) (tracker.Summary, error)
	DurationPerDay(ctx context.Context) ([models.DaysPerWeek]int, error)
	Recommend(ctx context.Context, group string, count int) (tracker.Recommendation, error)
	Export(ctx context.Context, f export.Format) (string, error)
}

// Local serves tools from a tracker in this process.
type Local struct {
	week *tracker.Guarded
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal wraps a guarded tracker.
func NewLocal(week *tracker.Guarded) *Local {
	return &Local{week: week}
}

func (l *Local) Day(_ context.Context, day int) (acts []models.Activity, err error) {
	err = l.week.Do(func(t *tracker.Tracker) error {
		acts, err = t.Day(day)
		return err
	})
	return acts, err
}

func (l *Local) Activity(_ context.Context, day, index int) (a models.Activity, err error) {
	err = l.week.Do(func(t *tracker.Tracker) error {
		a, err = t.Activity(day, index)
		return err
	})
	return a, err
}

func (l *Local) Append(_ context.Context, day int, a models.Activity) error {
	return l.week.Do(func(t *tracker.Tracker) error { return t.Append(day, a) })
}

func (l *Local) DeleteActivity(_ context.Context, day, index int) error {
	return l.week.Do(func(t *tracker.Tracker) error { return t.DeleteActivity(day, index) })
}

func (l *Local) ClearDay(_ context.Context, day int) error {
	return l.week.Do(func(t *tracker.Tracker) error { return t.ClearDay(day) })
}

func (l *Local) FewestReps(_ context.Context, day int) (a models.Activity, err error) {
	err = l.week.Do(func(t *tracker.Tracker) error {
		a, err = t.FewestReps(day)
		return err
	})
	return a, err
}

func (l *Local) Summary(_ context.Context) (sum tracker.Summary, err error) {
	err = l.week.Do(func(t *tracker.Tracker) error {
		sum = t.Summary()
		return nil
	})
	return sum, err
}

func (l *Local) DurationPerDay(_ context.Context) (minutes [models.DaysPerWeek]int, err error) {
	err = l.week.Do(func(t *tracker.Tracker) error {
		minutes = t.DurationPerDay()
		return nil
	})
	return minutes, err
}

func (l *Local) Recommend(_ context.Context, group string, count int) (rec tracker.Recommendation, err error) {
	err = l.week.Do(func(t *tracker.Tracker) error {
		rec = t.Recommend(group, count)
		return nil
	})
	return rec, err
}

func (l *Local) Export(_ context.Context, f export.Format) (text string, err error) {
	err = l.week.Do(func(t *tracker.Tracker) error {
		text = export.RenderFormat(t.Schedule(), f)
		return nil
	})
	return text, err
}
