package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing progress evaluations, per-exercise progress,
// daily nutrition and the latest generated plans.
// Served over stdio by cmd/progress_mcp and mounted at /mcp by the main service.
func NewServer(evaluator evaluator, planner planner) *mcp.Server {
	h := NewHandler(evaluator, planner)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitprogress",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "evaluate_training",
		Description: "Runs and stores a training evaluation for the user: last 7 days against the 7 days before, trend, plateau detection and feedback. Arg: user_id.",
	}, h.EvaluateTrainingTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "evaluate_nutrition",
		Description: "Runs and stores a nutrition evaluation for the user: daily averages of the last 7 days against the profile targets, adherence, detected patterns and feedback. Arg: user_id.",
	}, h.EvaluateNutritionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_evaluation_history",
		Description: "Returns the user's stored evaluations, newest first. Args: user_id; optional: limit (default 10, max 50).",
	}, h.EvaluationHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_progress",
		Description: "Returns the progress of one exercise in the last 7 days against the 7 days before (volume, peak load, improvement, trend). Args: user_id, exercise_id.",
	}, h.ExerciseProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_daily_nutrition",
		Description: "Returns the nutrition totals and entries for one day. Args: user_id, date (YYYY-MM-DD).",
	}, h.DailyNutritionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_latest_workout_plan",
		Description: "Returns the most recent weekly workout plan generated for the user. Arg: user_id.",
	}, h.LatestWorkoutPlanTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_latest_meal_plan",
		Description: "Returns the most recent weekly meal plan generated for the user. Arg: user_id.",
	}, h.LatestMealPlanTool())

	return s
}
