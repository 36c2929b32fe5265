package models

import (
	"strconv"
	"strings"
)

// Activity is one performed exercise entry.
type Activity struct {
	MuscleGroup     string `json:"muscle_group"`
	WorkoutType     string `json:"workout_type"`
	DurationMinutes int    `json:"duration_minutes"`
	Reps            int    `json:"reps"`
}

// Weekday indexes a schedule slot, Monday = 0 through Sunday = 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the fixed number of slots in a schedule.
const DaysPerWeek = 7

var dayTokens = [DaysPerWeek]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

var dayNames = [DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Valid reports whether d names one of the seven slots.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Token returns the two-letter record token ("Mo".."Su").
func (d Weekday) Token() string {
	if !d.Valid() {
		return ""
	}
	return dayTokens[d]
}

// String returns the full weekday name.
func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return dayNames[d]
}

// WeekdayFromToken maps "Mo".."Su" to its index. Matching is exact.
func WeekdayFromToken(tok string) (Weekday, bool) {
	for i, t := range dayTokens {
		if t == tok {
			return Weekday(i), true
		}
	}
	return 0, false
}

// ParseWeekday accepts a token ("mo"), a full name ("monday") or an index ("0"),
// case-insensitively.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return Weekday(s[0] - '0'), true
	}
	for i := range DaysPerWeek {
		if strings.EqualFold(s, dayTokens[i]) || strings.EqualFold(s, dayNames[i]) {
			return Weekday(i), true
		}
	}
	return 0, false
}
