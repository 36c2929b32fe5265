package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/weeklog/internal/catalog"
	"github.com/claude/weeklog/internal/export"
	"github.com/claude/weeklog/internal/models"
	"github.com/claude/weeklog/internal/tracker"
)

const testKey = "test-key"

const week = `legs,Squats,30,10,Mo
chest,Bench Press,20,5,Mo
back,Rows,15,8,Mo
core,Plank,5,1,Th
core,Crunches,5,20,Th
`

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	cat := catalog.New(map[string][]string{"chest": {"Bench Press", "Push-ups"}})
	tr := tracker.New(cat, tracker.WithRand(rand.New(rand.NewPCG(1, 1))))
	if _, err := tr.Load(strings.NewReader(week)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.APIKey == "" {
		opts.APIKey = testKey
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(tracker.NewGuarded(tr), opts, log)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", testKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode error: %v (body %q)", err, rec.Body.String())
	}
}

// TestHandleDay verifies day lookup by index and by token, and range errors as 404.
func TestHandleDay(t *testing.T) {
	s := newTestServer(t, Options{})

	for _, path := range []string{"/api/v1/days/0", "/api/v1/days/mo", "/api/v1/days/Monday"} {
		rec := do(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
		var v dayView
		decode(t, rec, &v)
		if v.Day != "Monday" || len(v.Activities) != 3 {
			t.Errorf("%s = %+v", path, v)
		}
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/days/7", ""); rec.Code != http.StatusNotFound {
		t.Errorf("day 7 status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/days/someday", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("day someday status = %d, want 400", rec.Code)
	}
}

// TestHandleWeek verifies all seven days are listed in order.
func TestHandleWeek(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s, http.MethodGet, "/api/v1/days", "")
	var days []dayView
	decode(t, rec, &days)
	if len(days) != 7 {
		t.Fatalf("days = %d, want 7", len(days))
	}
	if days[3].Day != "Thursday" || len(days[3].Activities) != 2 {
		t.Errorf("days[3] = %+v", days[3])
	}
	if days[1].Activities == nil {
		t.Error("empty day encoded as null")
	}
}

// TestHandleActivity verifies single-activity lookup and bad indices.
func TestHandleActivity(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s, http.MethodGet, "/api/v1/days/0/activities/0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var a models.Activity
	decode(t, rec, &a)
	want := models.Activity{MuscleGroup: "legs", WorkoutType: "Squats", DurationMinutes: 30, Reps: 10}
	if a != want {
		t.Errorf("activity = %+v, want %+v", a, want)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/days/0/activities/3", ""); rec.Code != http.StatusNotFound {
		t.Errorf("out of range status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/days/0/activities/x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad index status = %d, want 400", rec.Code)
	}
}

// TestHandleAppend verifies a valid activity is appended and invalid ones are rejected.
func TestHandleAppend(t *testing.T) {
	s := newTestServer(t, Options{})
	body := `{"muscle_group":"arms","workout_type":"Curls","duration_minutes":10,"reps":12}`
	rec := do(t, s, http.MethodPost, "/api/v1/days/fr/activities", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/v1/days/4/activities/0", "")
	var a models.Activity
	decode(t, rec, &a)
	if a.WorkoutType != "Curls" {
		t.Errorf("appended = %+v", a)
	}

	bad := `{"muscle_group":"arms","workout_type":"Curls, heavy","duration_minutes":10,"reps":12}`
	if rec := do(t, s, http.MethodPost, "/api/v1/days/4/activities", bad); rec.Code != http.StatusBadRequest {
		t.Errorf("comma in name status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/days/4/activities", "{"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d, want 400", rec.Code)
	}
}

// TestHandleAppendRejectsLineBreaks verifies names that would split an exported record are refused.
func TestHandleAppendRejectsLineBreaks(t *testing.T) {
	s := newTestServer(t, Options{})
	for _, body := range []string{
		`{"muscle_group":"legs\nx","workout_type":"Squats","duration_minutes":30,"reps":10}`,
		`{"muscle_group":"legs","workout_type":"Squats\r","duration_minutes":30,"reps":10}`,
		`{"muscle_group":" legs","workout_type":"Squats","duration_minutes":30,"reps":10}`,
	} {
		if rec := do(t, s, http.MethodPost, "/api/v1/days/4/activities", body); rec.Code != http.StatusBadRequest {
			t.Errorf("POST %s = %d, want 400", body, rec.Code)
		}
	}

	rec := do(t, s, http.MethodGet, "/api/v1/export?format=records", "")
	if _, err := tracker.New(catalog.New(nil)).Load(rec.Body); err != nil {
		t.Errorf("exported records no longer load: %v", err)
	}
}

// TestMutationsRequireAPIKey verifies mutating routes reject missing or wrong keys.
func TestMutationsRequireAPIKey(t *testing.T) {
	s := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/days/0", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/days/0", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}

	day := do(t, s, http.MethodGet, "/api/v1/days/0", "")
	var v dayView
	decode(t, day, &v)
	if len(v.Activities) != 3 {
		t.Errorf("Monday changed without auth: %d activities", len(v.Activities))
	}
}

// TestHandleDeleteAndClear verifies the two deletion granularities.
func TestHandleDeleteAndClear(t *testing.T) {
	s := newTestServer(t, Options{})

	if rec := do(t, s, http.MethodDelete, "/api/v1/days/0/activities/0", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	var v dayView
	decode(t, do(t, s, http.MethodGet, "/api/v1/days/0", ""), &v)
	if len(v.Activities) != 2 || v.Activities[0].WorkoutType != "Bench Press" {
		t.Errorf("Monday after delete = %+v", v.Activities)
	}

	if rec := do(t, s, http.MethodDelete, "/api/v1/days/0/activities/5", ""); rec.Code != http.StatusNotFound {
		t.Errorf("delete out of range status = %d, want 404", rec.Code)
	}

	if rec := do(t, s, http.MethodDelete, "/api/v1/days/th", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d, want 204", rec.Code)
	}
	decode(t, do(t, s, http.MethodGet, "/api/v1/days/3", ""), &v)
	if len(v.Activities) != 0 {
		t.Errorf("Thursday after clear = %+v", v.Activities)
	}
}

// TestHandleFewestReps verifies the minimum-reps activity and the empty-day 404.
func TestHandleFewestReps(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s, http.MethodGet, "/api/v1/days/0/fewest-reps", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out struct {
		Activity models.Activity `json:"activity"`
		Label    string          `json:"label"`
	}
	decode(t, rec, &out)
	if out.Activity.Reps != 5 {
		t.Errorf("reps = %d, want 5", out.Activity.Reps)
	}
	if out.Label != "Monday: Bench Press (5 reps)" {
		t.Errorf("label = %q", out.Label)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/days/2/fewest-reps", ""); rec.Code != http.StatusNotFound {
		t.Errorf("empty day status = %d, want 404", rec.Code)
	}
}

// TestHandleSummaryAndDurations verifies the aggregate endpoints.
func TestHandleSummaryAndDurations(t *testing.T) {
	s := newTestServer(t, Options{})

	var sum map[string]any
	decode(t, do(t, s, http.MethodGet, "/api/v1/summary", ""), &sum)
	if sum["day_count"] != float64(7) || sum["total_activity_count"] != float64(5) {
		t.Errorf("summary = %v", sum)
	}
	if sum["average_per_day"] != "0.71" {
		t.Errorf("average = %v, want 0.71", sum["average_per_day"])
	}

	var dur struct {
		Days    []string `json:"days"`
		Minutes []int    `json:"minutes"`
	}
	decode(t, do(t, s, http.MethodGet, "/api/v1/durations", ""), &dur)
	if len(dur.Minutes) != 7 || dur.Minutes[0] != 65 || dur.Minutes[3] != 10 {
		t.Errorf("durations = %+v", dur)
	}
	if dur.Days[6] != "Sunday" {
		t.Errorf("days = %v", dur.Days)
	}
}

// TestHandleRecommend verifies found, capped and not-found outcomes.
func TestHandleRecommend(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(t, s, http.MethodGet, "/api/v1/recommend/Chest?count=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var r tracker.Recommendation
	decode(t, rec, &r)
	if !r.Found || len(r.Exercises) != 2 {
		t.Errorf("recommendation = %+v", r)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/recommend/calves", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing group status = %d, want 404", rec.Code)
	}
	var nf map[string]any
	decode(t, rec, &nf)
	if nf["found"] != false {
		t.Errorf("not-found body = %v", nf)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/recommend/chest?count=-1", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("negative count status = %d, want 400", rec.Code)
	}
}

// TestHandleImport verifies replace, append and malformed uploads.
func TestHandleImport(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(t, s, http.MethodPost, "/api/v1/import?mode=append", "legs,Lunges,10,12,Su\n")
	if rec.Code != http.StatusOK {
		t.Fatalf("append status = %d (%s)", rec.Code, rec.Body.String())
	}
	var sum map[string]any
	decode(t, do(t, s, http.MethodGet, "/api/v1/summary", ""), &sum)
	if sum["total_activity_count"] != float64(6) {
		t.Errorf("after append = %v", sum["total_activity_count"])
	}

	rec = do(t, s, http.MethodPost, "/api/v1/import", "legs,Squats,30,10,Mo\nbadline\n")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "line 2") {
		t.Errorf("error body %q should name the line", rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, "/api/v1/import", "legs,Squats,30,10,Tu\n")
	if rec.Code != http.StatusOK {
		t.Fatalf("replace status = %d", rec.Code)
	}
	decode(t, do(t, s, http.MethodGet, "/api/v1/summary", ""), &sum)
	if sum["total_activity_count"] != float64(1) {
		t.Errorf("after replace = %v", sum["total_activity_count"])
	}
}

// TestHandleExport verifies both rendered formats over HTTP.
func TestHandleExport(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(t, s, http.MethodGet, "/api/v1/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "Monday\n  legs, Squats, 30 min, 10 reps\n") {
		t.Errorf("text export = %q", rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/v1/export?format=records", "")
	if !strings.HasPrefix(rec.Body.String(), "legs,Squats,30,10,Mo\n") {
		t.Errorf("records export = %q", rec.Body.String())
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/export?format=pdf", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d, want 400", rec.Code)
	}
}

// TestHandleExportFile verifies the configured export path is written and overwritten.
func TestHandleExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, Options{ExportPath: path, ExportFormat: export.FormatRecords})

	rec := do(t, s, http.MethodPost, "/api/v1/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "legs,Squats,30,10,Mo\n") || strings.Contains(string(data), "stale") {
		t.Errorf("export file = %q", data)
	}

	bad := newTestServer(t, Options{ExportPath: filepath.Join(t.TempDir(), "missing", "out.txt")})
	if rec := do(t, bad, http.MethodPost, "/api/v1/export", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("unwritable export status = %d, want 500", rec.Code)
	}
}
