package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/claude/weeklog/internal/export"
	"github.com/claude/weeklog/internal/ingest"
	"github.com/claude/weeklog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

const dayDescription = "Day of the week: index 0-6 (0 = Monday), token (Mo..Su) or full name"

// parseDay accepts an index, token or weekday name. Integers outside 0..6 are
// returned as-is so the data source reports the range error.
func parseDay(raw string) (int, error) {
	if d, ok := models.ParseWeekday(raw); ok {
		return int(d), nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	return 0, fmt.Errorf("invalid day %q", raw)
}

func requireDay(req mcp.CallToolRequest) (int, *mcp.CallToolResult) {
	raw, err := req.RequireString("day")
	if err != nil {
		return 0, mcp.NewToolResultError("day parameter is required")
	}
	day, err := parseDay(raw)
	if err != nil {
		return 0, mcp.NewToolResultError(err.Error())
	}
	return day, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool definitions ---

var toolGetDay = mcp.NewTool("get_day",
	mcp.WithDescription("List the activities recorded on one day of the week, in insertion order."),
	mcp.WithString("day", mcp.Required(), mcp.Description(dayDescription)),
)

var toolGetActivity = mcp.NewTool("get_activity",
	mcp.WithDescription("Get a single activity by day and position (0-based)."),
	mcp.WithString("day", mcp.Required(), mcp.Description(dayDescription)),
	mcp.WithNumber("index", mcp.Required(), mcp.Description("Position of the activity within the day, starting at 0")),
)

var toolAddActivity = mcp.NewTool("add_activity",
	mcp.WithDescription("Append an activity to the end of a day. Names may contain letters, digits, spaces and hyphens."),
	mcp.WithString("day", mcp.Required(), mcp.Description(dayDescription)),
	mcp.WithString("muscle_group", mcp.Required(), mcp.Description("Muscle group trained (e.g. legs, chest)")),
	mcp.WithString("workout_type", mcp.Required(), mcp.Description("Exercise performed (e.g. Squats)")),
	mcp.WithNumber("duration_minutes", mcp.Required(), mcp.Description("Duration in whole minutes")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed")),
)

var toolDeleteActivity = mcp.NewTool("delete_activity",
	mcp.WithDescription("Remove one activity from a day. Later activities shift down by one."),
	mcp.WithString("day", mcp.Required(), mcp.Description(dayDescription)),
	mcp.WithNumber("index", mcp.Required(), mcp.Description("Position of the activity to remove")),
)

var toolClearDay = mcp.NewTool("clear_day",
	mcp.WithDescription("Remove every activity from a day."),
	mcp.WithString("day", mcp.Required(), mcp.Description(dayDescription)),
)

var toolFewestReps = mcp.NewTool("fewest_reps",
	mcp.WithDescription("Find the activity with the fewest repetitions on a day. Ties go to the earliest recorded activity."),
	mcp.WithString("day", mcp.Required(), mcp.Description(dayDescription)),
)

var toolWeeklySummary = mcp.NewTool("weekly_summary",
	mcp.WithDescription("Number of days, total activities, and average activities per day across the week."),
)

var toolDailyDurations = mcp.NewTool("daily_durations",
	mcp.WithDescription("Total workout minutes for each day, Monday through Sunday."),
)

var toolRecommendExercises = mcp.NewTool("recommend_exercises",
	mcp.WithDescription("Suggest distinct exercises for a muscle group from the catalog, in random order."),
	mcp.WithString("muscle_group", mcp.Required(), mcp.Description("Muscle group to look up (case-insensitive)")),
	mcp.WithNumber("count", mcp.Description("How many suggestions to return. Defaults to the server setting.")),
)

var toolExportSchedule = mcp.NewTool("export_schedule",
	mcp.WithDescription("Render the whole week as text. 'text' is the human-readable layout, 'records' is the importable line format."),
	mcp.WithString("format", mcp.Description("Output format. Defaults to 'text'."), mcp.Enum(string(export.FormatText), string(export.FormatRecords))),
)

// --- Tool handlers ---

func (h *handlers) getDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, errResult := requireDay(req)
	if errResult != nil {
		return errResult, nil
	}
	acts, err := h.ds.Day(ctx, day)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"day":        models.Weekday(day).String(),
		"activities": acts,
	})
}

func (h *handlers) getActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, errResult := requireDay(req)
	if errResult != nil {
		return errResult, nil
	}
	index, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError("index parameter is required"), nil
	}
	a, err := h.ds.Activity(ctx, day, index)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(a)
}

func (h *handlers) addActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, errResult := requireDay(req)
	if errResult != nil {
		return errResult, nil
	}
	var a models.Activity
	var err error
	if a.MuscleGroup, err = req.RequireString("muscle_group"); err != nil {
		return mcp.NewToolResultError("muscle_group parameter is required"), nil
	}
	if a.WorkoutType, err = req.RequireString("workout_type"); err != nil {
		return mcp.NewToolResultError("workout_type parameter is required"), nil
	}
	if a.DurationMinutes, err = req.RequireInt("duration_minutes"); err != nil {
		return mcp.NewToolResultError("duration_minutes parameter is required"), nil
	}
	if a.Reps, err = req.RequireInt("reps"); err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	if err := ingest.Validate(a); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.ds.Append(ctx, day, a); err != nil {
		h.log.Error("mcp add_activity", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added %s (%s) to %s", a.WorkoutType, a.MuscleGroup, models.Weekday(day))), nil
}

func (h *handlers) deleteActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, errResult := requireDay(req)
	if errResult != nil {
		return errResult, nil
	}
	index, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError("index parameter is required"), nil
	}
	if err := h.ds.DeleteActivity(ctx, day, index); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted activity %d from %s", index, models.Weekday(day))), nil
}

func (h *handlers) clearDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, errResult := requireDay(req)
	if errResult != nil {
		return errResult, nil
	}
	if err := h.ds.ClearDay(ctx, day); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("cleared %s", models.Weekday(day))), nil
}

func (h *handlers) fewestReps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, errResult := requireDay(req)
	if errResult != nil {
		return errResult, nil
	}
	a, err := h.ds.FewestReps(ctx, day)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"day":      models.Weekday(day).String(),
		"activity": a,
	})
}

func (h *handlers) weeklySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sum, err := h.ds.Summary(ctx)
	if err != nil {
		h.log.Error("mcp weekly_summary", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"day_count":            sum.Days,
		"total_activity_count": sum.Activities,
		"average_per_day":      sum.AverageString(),
	})
}

func (h *handlers) dailyDurations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minutes, err := h.ds.DurationPerDay(ctx)
	if err != nil {
		h.log.Error("mcp daily_durations", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	days := make([]string, models.DaysPerWeek)
	for i := range days {
		days[i] = models.Weekday(i).String()
	}
	return jsonResult(map[string]any{"days": days, "minutes": minutes})
}

func (h *handlers) recommendExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := req.RequireString("muscle_group")
	if err != nil {
		return mcp.NewToolResultError("muscle_group parameter is required"), nil
	}
	count := req.GetInt("count", h.recommendCount)
	if count < 0 {
		return mcp.NewToolResultError("count must be non-negative"), nil
	}
	rec, err := h.ds.Recommend(ctx, group, count)
	if err != nil {
		h.log.Error("mcp recommend_exercises", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !rec.Found {
		return mcp.NewToolResultError(fmt.Sprintf("muscle group %q not in catalog", group)), nil
	}
	return jsonResult(rec)
}

func (h *handlers) exportSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := export.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := h.ds.Export(ctx, format)
	if err != nil {
		h.log.Error("mcp export_schedule", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}
