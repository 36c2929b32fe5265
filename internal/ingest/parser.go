package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/weeklog/internal/models"
)

// recordRe matches: muscle_group,workout_type,time,reps,day
// e.g. "legs,Squats,30,10,Mo"
// Names allow only horizontal whitespace so a record never spans lines.
var recordRe = regexp.MustCompile(`^([\p{L}\p{N} \t-]+),([\p{L}\p{N} \t-]+),(\d+),(\d+),(Mo|Tu|We|Th|Fr|Sa|Su)$`)

// ErrFormat is matched by every *FormatError.
var ErrFormat = errors.New("malformed record")

// FormatError reports a line that does not match the record grammar.
type FormatError struct {
	Line   int // 1-based; 0 when parsing a single line
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Text)
}

// Is lets errors.Is(err, ErrFormat) match.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Record is one parsed line: the activity and the slot it belongs to.
type Record struct {
	Day      models.Weekday
	Activity models.Activity
}

// ParseLine parses a single record line.
// Unknown day tokens are rejected like any other grammar violation.
func ParseLine(line string) (models.Activity, models.Weekday, error) {
	text := strings.TrimSpace(line)
	m := recordRe.FindStringSubmatch(text)
	if m == nil {
		return models.Activity{}, 0, &FormatError{Text: text, Reason: reasonFor(text)}
	}

	minutes, err := strconv.Atoi(m[3])
	if err != nil {
		return models.Activity{}, 0, &FormatError{Text: text, Reason: "time out of range"}
	}
	reps, err := strconv.Atoi(m[4])
	if err != nil {
		return models.Activity{}, 0, &FormatError{Text: text, Reason: "reps out of range"}
	}
	day, _ := models.WeekdayFromToken(m[5])

	return models.Activity{
		MuscleGroup:     m[1],
		WorkoutType:     m[2],
		DurationMinutes: minutes,
		Reps:            reps,
	}, day, nil
}

// Parse reads record lines in order. Blank lines are skipped; the first
// malformed line aborts the parse and nothing is returned.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	var records []Record
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		a, day, err := ParseLine(line)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Line = lineNo
			}
			return nil, err
		}
		records = append(records, Record{Day: day, Activity: a})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}

// Validate checks that an activity built outside the parser could have been
// parsed: names from the allowed character set, no commas, non-negative counts.
// The rendered line must also survive the trim ParseLine applies, so a muscle
// group with leading whitespace is rejected rather than silently altered.
func Validate(a models.Activity) error {
	line := FormatLine(models.Monday, a)
	if line != strings.TrimSpace(line) {
		return &FormatError{Text: line, Reason: "muscle group has leading whitespace"}
	}
	_, _, err := ParseLine(line)
	return err
}

// FormatLine renders an activity back into the record grammar.
func FormatLine(day models.Weekday, a models.Activity) string {
	return fmt.Sprintf("%s,%s,%d,%d,%s", a.MuscleGroup, a.WorkoutType, a.DurationMinutes, a.Reps, day.Token())
}

// reasonFor gives a short diagnosis for a line the grammar rejected.
func reasonFor(text string) string {
	fields := strings.Split(text, ",")
	switch {
	case text == "":
		return "empty record"
	case len(fields) != 5:
		return fmt.Sprintf("expected 5 comma-separated fields, got %d", len(fields))
	case !isDigits(fields[2]):
		return "time must be a non-negative integer"
	case !isDigits(fields[3]):
		return "reps must be a non-negative integer"
	}
	if _, ok := models.WeekdayFromToken(fields[4]); !ok {
		return "unknown day token"
	}
	return "invalid characters in muscle group or workout type"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
