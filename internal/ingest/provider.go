package ingest

import "github.com/claude/weeklog/internal/models"

// Result holds the outcome of an import.
type Result struct {
	RecordsReceived int                     `json:"records_received"`
	PerDay          [models.DaysPerWeek]int `json:"per_day"`
	Replaced        bool                    `json:"replaced"`
	Message         string                  `json:"message,omitempty"`
}

// Summarize counts records per weekday.
func Summarize(records []Record) Result {
	res := Result{RecordsReceived: len(records)}
	for _, r := range records {
		res.PerDay[r.Day]++
	}
	return res
}
