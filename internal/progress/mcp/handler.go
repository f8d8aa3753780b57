package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/fitprogress/internal/plans"
	"github.com/2beens/fitprogress/internal/progress/evaluation"
	"github.com/2beens/fitprogress/internal/progress/nutrition"
	"github.com/2beens/fitprogress/internal/progress/training"
	"github.com/2beens/fitprogress/pkg"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type evaluator interface {
	EvaluateTraining(ctx context.Context, userID int) (*evaluation.Snapshot, error)
	EvaluateNutrition(ctx context.Context, userID int) (*evaluation.Snapshot, error)
	History(ctx context.Context, userID, limit int) ([]evaluation.Snapshot, error)
	ExerciseProgress(ctx context.Context, userID, exerciseID int) (*training.ExerciseProgress, error)
	DailyNutrition(ctx context.Context, userID int, date time.Time) (*nutrition.DailySummary, error)
}

type planner interface {
	LatestWorkoutPlan(ctx context.Context, userID int) (*plans.WorkoutPlan, error)
	LatestMealPlan(ctx context.Context, userID int) (*plans.MealPlan, error)
}

// Handler turns MCP tool calls into service calls and formats the results as JSON text.
type Handler struct {
	evaluator evaluator
	planner   planner
}

func NewHandler(evaluator evaluator, planner planner) *Handler {
	return &Handler{
		evaluator: evaluator,
		planner:   planner,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// UserInput is the input of the tools that only need a user.
type UserInput struct {
	UserID int `json:"user_id" jsonschema:"ID of the user"`
}

func (h *Handler) EvaluateTrainingTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return errorResult("Invalid user_id"), nil, nil
		}
		snapshot, err := h.evaluator.EvaluateTraining(ctx, in.UserID)
		if err != nil {
			return errorResult("Error evaluating training: " + err.Error()), nil, nil
		}
		return jsonResult(snapshot), nil, nil
	}
}

func (h *Handler) EvaluateNutritionTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return errorResult("Invalid user_id"), nil, nil
		}
		snapshot, err := h.evaluator.EvaluateNutrition(ctx, in.UserID)
		if err != nil {
			return errorResult("Error evaluating nutrition: " + err.Error()), nil, nil
		}
		return jsonResult(snapshot), nil, nil
	}
}

// HistoryInput is the input for get_evaluation_history.
type HistoryInput struct {
	UserID int `json:"user_id" jsonschema:"ID of the user"`
	Limit  int `json:"limit,omitempty" jsonschema:"Max number of evaluations (default 10, max 50)"`
}

func (h *Handler) EvaluationHistoryTool() func(context.Context, *mcp.CallToolRequest, HistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return errorResult("Invalid user_id"), nil, nil
		}
		history, err := h.evaluator.History(ctx, in.UserID, in.Limit)
		if err != nil {
			return errorResult("Error fetching evaluation history: " + err.Error()), nil, nil
		}
		return jsonResult(history), nil, nil
	}
}

// ExerciseProgressInput is the input for get_exercise_progress.
type ExerciseProgressInput struct {
	UserID     int `json:"user_id" jsonschema:"ID of the user"`
	ExerciseID int `json:"exercise_id" jsonschema:"ID of the exercise"`
}

func (h *Handler) ExerciseProgressTool() func(context.Context, *mcp.CallToolRequest, ExerciseProgressInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseProgressInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 || in.ExerciseID <= 0 {
			return errorResult("Invalid user_id or exercise_id"), nil, nil
		}
		progress, err := h.evaluator.ExerciseProgress(ctx, in.UserID, in.ExerciseID)
		if err != nil {
			return errorResult("Error fetching exercise progress: " + err.Error()), nil, nil
		}
		return jsonResult(progress), nil, nil
	}
}

// DailyNutritionInput is the input for get_daily_nutrition.
type DailyNutritionInput struct {
	UserID int    `json:"user_id" jsonschema:"ID of the user"`
	Date   string `json:"date" jsonschema:"Day (YYYY-MM-DD)"`
}

func (h *Handler) DailyNutritionTool() func(context.Context, *mcp.CallToolRequest, DailyNutritionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DailyNutritionInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return errorResult("Invalid user_id"), nil, nil
		}
		date, err := pkg.ParseDay(in.Date)
		if err != nil {
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		}
		summary, err := h.evaluator.DailyNutrition(ctx, in.UserID, date)
		if err != nil {
			return errorResult("Error fetching daily nutrition: " + err.Error()), nil, nil
		}
		return jsonResult(summary), nil, nil
	}
}

func (h *Handler) LatestWorkoutPlanTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return errorResult("Invalid user_id"), nil, nil
		}
		plan, err := h.planner.LatestWorkoutPlan(ctx, in.UserID)
		if err != nil {
			return errorResult("Error fetching workout plan: " + err.Error()), nil, nil
		}
		return jsonResult(plan), nil, nil
	}
}

func (h *Handler) LatestMealPlanTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return errorResult("Invalid user_id"), nil, nil
		}
		plan, err := h.planner.LatestMealPlan(ctx, in.UserID)
		if err != nil {
			return errorResult("Error fetching meal plan: " + err.Error()), nil, nil
		}
		return jsonResult(plan), nil, nil
	}
}
