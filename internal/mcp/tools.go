package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/emberfit/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

var toolGetCurrentDay = mcp.NewTool("get_current_day",
	mcp.WithDescription("Get the workout day at the user's current program position: week, day, focus, description, and per-exercise completion state."),
)

var toolGetProgramOverview = mcp.NewTool("get_program_overview",
	mcp.WithDescription("Get the full program shape: every week with its days, each flagged with whether it has been completed and whether it is the current day."),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Get completed workout records, most recent first. Each record includes the day's exercise snapshot, duration, and whether a progress photo is attached."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of records to return. Defaults to 20.")),
)

var toolGetProgressStats = mcp.NewTool("get_progress_stats",
	mcp.WithDescription("Get aggregate progress: workouts completed, days in the program, total training seconds, and the current position."),
)

func (h *handlers) getCurrentDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.sess.Activate()
	summary, err := h.currentDaySummary()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgramOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.sess.Activate()
	prog, ok := h.sess.Program()
	if !ok {
		return mcp.NewToolResultError("program catalog unavailable"), nil
	}
	cursor := h.sess.Cursor()

	type dayOverview struct {
		Name      string `json:"name"`
		Focus     string `json:"focus"`
		Completed bool   `json:"completed"`
		Current   bool   `json:"current"`
	}
	type weekOverview struct {
		Name string        `json:"name"`
		Days []dayOverview `json:"days"`
	}

	weeks := make([]weekOverview, 0, len(prog.Weeks))
	for wi, w := range prog.Weeks {
		wo := weekOverview{Name: w.Name}
		for di, d := range w.Days {
			_, completed := h.sess.History().FindByWeekDay(w.Name, d.Name)
			wo.Days = append(wo.Days, dayOverview{
				Name:      d.Name,
				Focus:     d.Focus,
				Completed: completed,
				Current:   wi == cursor.Week && di == cursor.Day,
			})
		}
		weeks = append(weeks, wo)
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"weeks": weeks})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	h.sess.History().Reload()
	records := h.sess.History().All()

	// Most recent first.
	type recordSummary struct {
		WeekName           string `json:"weekName"`
		DayName            string `json:"dayName"`
		CompletionDate     string `json:"completionDate"`
		CompletedExercises int    `json:"completedExercises"`
		TotalExercises     int    `json:"totalExercises"`
		Duration           string `json:"duration"`
		HasPhoto           bool   `json:"hasPhoto"`
	}
	out := make([]recordSummary, 0, limit)
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		r := records[i]
		out = append(out, recordSummary{
			WeekName:           r.WeekName,
			DayName:            r.DayName,
			CompletionDate:     r.CompletionDate.Format("2006-01-02 15:04"),
			CompletedExercises: r.CompletedExercises(),
			TotalExercises:     r.TotalExercises(),
			Duration:           r.FormattedDuration(),
			HasPhoto:           r.PhotoID != "",
		})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgressStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.sess.Activate()

	totalDays := 0
	if prog, ok := h.sess.Program(); ok {
		totalDays = prog.TotalDays()
	}

	totalSeconds := 0
	for _, r := range h.sess.History().All() {
		if r.DurationSec != nil {
			totalSeconds += *r.DurationSec
		}
	}

	cursor := h.sess.Cursor()
	stats := map[string]any{
		"workoutsCompleted":    h.sess.History().Len(),
		"programDays":          totalDays,
		"totalTrainingSeconds": totalSeconds,
		"currentWeekIndex":     cursor.Week,
		"currentDayIndex":      cursor.Day,
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) currentDayResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	h.sess.Activate()
	summary, err := h.currentDaySummary()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) currentDaySummary() (map[string]any, error) {
	week, okW := h.sess.CurrentWeek()
	day, okD := h.sess.CurrentDay()
	if !okW || !okD {
		if err := h.sess.LoadErr(); err != nil {
			return nil, err
		}
		return nil, session.ErrNoCurrentDay
	}

	type exerciseSummary struct {
		Title     string `json:"title"`
		Sets      *int   `json:"sets,omitempty"`
		Reps      *int   `json:"reps,omitempty"`
		Weight    string `json:"weight,omitempty"`
		Duration  string `json:"duration,omitempty"`
		Completed bool   `json:"completed"`
	}
	exercises := make([]exerciseSummary, 0, len(day.Exercises))
	for _, e := range day.Exercises {
		exercises = append(exercises, exerciseSummary{
			Title:     e.Title,
			Sets:      e.Sets,
			Reps:      e.Reps,
			Weight:    e.Weight,
			Duration:  e.Duration,
			Completed: e.IsCompleted,
		})
	}

	return map[string]any{
		"week":        week.Name,
		"day":         day.Name,
		"focus":       day.Focus,
		"description": day.Description,
		"exercises":   exercises,
	}, nil
}
