package tracker

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/claude/weeklog/internal/models"
)

// ErrNoActivities is returned by FewestReps for a day with nothing recorded.
var ErrNoActivities = errors.New("no activities recorded for day")

// FewestReps sorts a day's activities by reps ascending and returns the first,
// i.e. the activity with the fewest reps. Ties go to the earliest entry.
func (s *Schedule) FewestReps(day int) (models.Activity, error) {
	acts, err := s.Day(day)
	if err != nil {
		return models.Activity{}, err
	}
	if len(acts) == 0 {
		return models.Activity{}, fmt.Errorf("%s: %w", models.Weekday(day), ErrNoActivities)
	}
	slices.SortStableFunc(acts, func(a, b models.Activity) int {
		return cmp.Compare(a.Reps, b.Reps)
	})
	return acts[0], nil
}

// Summary is the week-level count summary.
type Summary struct {
	Days          int     `json:"day_count"`
	Activities    int     `json:"total_activity_count"`
	AveragePerDay float64 `json:"average_per_day"`
}

// AverageString renders the per-day average with two decimals.
func (s Summary) AverageString() string {
	return fmt.Sprintf("%.2f", s.AveragePerDay)
}

// Summary counts activities across the week.
func (s *Schedule) Summary() Summary {
	total := s.Total()
	return Summary{
		Days:          models.DaysPerWeek,
		Activities:    total,
		AveragePerDay: float64(total) / models.DaysPerWeek,
	}
}

// DurationPerDay sums duration minutes for each day, Monday first.
func (s *Schedule) DurationPerDay() [models.DaysPerWeek]int {
	var out [models.DaysPerWeek]int
	for i, d := range s.days {
		for _, a := range d {
			out[i] += a.DurationMinutes
		}
	}
	return out
}
