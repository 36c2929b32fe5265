package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/claude/weeklog/internal/export"
	"github.com/claude/weeklog/internal/ingest"
	"github.com/claude/weeklog/internal/models"
	"github.com/claude/weeklog/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// maxImportBytes bounds an uploaded week.
const maxImportBytes = 1 << 20

// dayView is one weekday with its activities.
type dayView struct {
	Index      int               `json:"index"`
	Day        string            `json:"day"`
	Activities []models.Activity `json:"activities"`
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	var days []dayView
	s.week.Do(func(t *tracker.Tracker) error {
		t.Schedule().Each(func(d models.Weekday, acts []models.Activity) {
			days = append(days, dayView{
				Index:      int(d),
				Day:        d.String(),
				Activities: append([]models.Activity{}, acts...),
			})
		})
		return nil
	})
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var acts []models.Activity
	err := s.week.Do(func(t *tracker.Tracker) (err error) {
		acts, err = t.Day(day)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dayView{Index: day, Day: models.Weekday(day).String(), Activities: acts})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var a models.Activity
	err := s.week.Do(func(t *tracker.Tracker) (err error) {
		a, err = t.Activity(day, index)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var a models.Activity
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := ingest.Validate(a); err != nil {
		s.writeError(w, err)
		return
	}
	var index int
	err := s.week.Do(func(t *tracker.Tracker) error {
		if err := t.Append(day, a); err != nil {
			return err
		}
		index = t.Schedule().Len(day) - 1
		s.observe(t)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"day": day, "index": index, "activity": a})
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	err := s.week.Do(func(t *tracker.Tracker) error {
		if err := t.DeleteActivity(day, index); err != nil {
			return err
		}
		s.observe(t)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	err := s.week.Do(func(t *tracker.Tracker) error {
		if err := t.ClearDay(day); err != nil {
			return err
		}
		s.observe(t)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFewestReps(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var a models.Activity
	err := s.week.Do(func(t *tracker.Tracker) (err error) {
		a, err = t.FewestReps(day)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day":      models.Weekday(day).String(),
		"activity": a,
		"label":    fmt.Sprintf("%s: %s (%d reps)", models.Weekday(day), a.WorkoutType, a.Reps),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var sum tracker.Summary
	s.week.Do(func(t *tracker.Tracker) error {
		sum = t.Summary()
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"day_count":            sum.Days,
		"total_activity_count": sum.Activities,
		"average_per_day":      sum.AverageString(),
	})
}

func (s *Server) handleDurations(w http.ResponseWriter, r *http.Request) {
	var minutes [models.DaysPerWeek]int
	s.week.Do(func(t *tracker.Tracker) error {
		minutes = t.DurationPerDay()
		return nil
	})
	days := make([]string, models.DaysPerWeek)
	for i := range days {
		days[i] = models.Weekday(i).String()
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days, "minutes": minutes})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	count := s.opts.RecommendCount
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "count must be a non-negative integer"})
			return
		}
		count = n
	}
	var rec tracker.Recommendation
	s.week.Do(func(t *tracker.Tracker) error {
		rec = t.Recommend(group, count)
		return nil
	})
	if !rec.Found {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":        fmt.Sprintf("muscle group %q not in catalog", group),
			"muscle_group": group,
			"found":        false,
		})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	mode := r.URL.Query().Get("mode")
	if mode != "" && mode != "append" && mode != "replace" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mode must be append or replace"})
		return
	}
	if mode == "" {
		mode = "replace"
	}
	var res ingest.Result
	err := s.week.Do(func(t *tracker.Tracker) (err error) {
		if mode == "append" {
			res, err = t.Load(body)
		} else {
			res, err = t.Replace(body)
		}
		if err == nil {
			s.observe(t)
		}
		return err
	})
	if s.opts.Metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		s.opts.Metrics.Imports.WithLabelValues(mode, result).Inc()
	}
	if err != nil {
		s.log.Error("import error", "error", err)
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var text string
	s.week.Do(func(t *tracker.Tracker) error {
		text = export.RenderFormat(t.Schedule(), format)
		return nil
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, text)
}

func (s *Server) handleExportFile(w http.ResponseWriter, r *http.Request) {
	if s.opts.ExportPath == "" {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no export path configured"})
		return
	}
	err := s.week.Do(func(t *tracker.Tracker) error {
		return export.WriteFile(s.opts.ExportPath, t.Schedule(), s.opts.ExportFormat)
	})
	if err != nil {
		s.log.Error("export error", "path", s.opts.ExportPath, "error", err)
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": s.opts.ExportPath, "format": string(s.opts.ExportFormat)})
}

// dayParam resolves {day} as an index or weekday name. Integers outside 0..6
// are passed through so the tracker reports the range error.
func dayParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "day")
	if d, ok := models.ParseWeekday(raw); ok {
		return int(d), true
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid day %q", raw)})
	return 0, false
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "index")
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid activity index %q", raw)})
		return 0, false
	}
	return n, true
}

// writeError maps tracker and ingest errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, tracker.ErrOutOfRange), errors.Is(err, tracker.ErrNoActivities):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ingest.ErrFormat):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &maxErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
