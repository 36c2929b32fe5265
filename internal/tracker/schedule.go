package tracker

import (
	"errors"
	"fmt"
	"slices"

	"github.com/claude/weeklog/internal/models"
)

// ErrOutOfRange is matched by every *RangeError.
var ErrOutOfRange = errors.New("index out of range")

// RangeError reports a day or activity index outside its valid bounds.
type RangeError struct {
	Kind  string // "day" or "activity"
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

// Is lets errors.Is(err, ErrOutOfRange) match.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Schedule is the seven-day container of activities, Monday first.
// The zero value is an empty week. A Schedule is not safe for concurrent use.
type Schedule struct {
	days [models.DaysPerWeek][]models.Activity
}

// NewSchedule returns an empty week.
func NewSchedule() *Schedule {
	return &Schedule{}
}

func checkDay(day int) error {
	if day < 0 || day >= models.DaysPerWeek {
		return &RangeError{Kind: "day", Index: day, Len: models.DaysPerWeek}
	}
	return nil
}

func (s *Schedule) checkActivity(day, index int) error {
	if err := checkDay(day); err != nil {
		return err
	}
	if index < 0 || index >= len(s.days[day]) {
		return &RangeError{Kind: "activity", Index: index, Len: len(s.days[day])}
	}
	return nil
}

// Day returns a copy of one day's activities in entry order.
// The result is never nil for a valid day.
func (s *Schedule) Day(day int) ([]models.Activity, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	out := make([]models.Activity, len(s.days[day]))
	copy(out, s.days[day])
	return out, nil
}

// Activity returns one entry of a day.
func (s *Schedule) Activity(day, index int) (models.Activity, error) {
	if err := s.checkActivity(day, index); err != nil {
		return models.Activity{}, err
	}
	return s.days[day][index], nil
}

// Append adds an activity to the end of a day. Fields are not re-validated.
func (s *Schedule) Append(day int, a models.Activity) error {
	if err := checkDay(day); err != nil {
		return err
	}
	s.days[day] = append(s.days[day], a)
	return nil
}

// DeleteActivity removes exactly one entry, keeping the others in order.
func (s *Schedule) DeleteActivity(day, index int) error {
	if err := s.checkActivity(day, index); err != nil {
		return err
	}
	s.days[day] = slices.Delete(s.days[day], index, index+1)
	return nil
}

// ClearDay removes every entry of a day. The slot itself remains.
func (s *Schedule) ClearDay(day int) error {
	if err := checkDay(day); err != nil {
		return err
	}
	s.days[day] = nil
	return nil
}

// Len returns the number of activities recorded on a day, or 0 for an invalid day.
func (s *Schedule) Len(day int) int {
	if checkDay(day) != nil {
		return 0
	}
	return len(s.days[day])
}

// Total returns the number of activities across the week.
func (s *Schedule) Total() int {
	n := 0
	for _, d := range s.days {
		n += len(d)
	}
	return n
}

// Each calls fn for every day in order with that day's activities.
// fn must not retain or modify the slice.
func (s *Schedule) Each(fn func(day models.Weekday, activities []models.Activity)) {
	for i, d := range s.days {
		fn(models.Weekday(i), d)
	}
}

// Reset empties every day.
func (s *Schedule) Reset() {
	s.days = [models.DaysPerWeek][]models.Activity{}
}
