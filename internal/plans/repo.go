package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fitprogress/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrPlanNotFound = errors.New("plan not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// SaveExercise stores a generated exercise and returns its id. Exercises are not deduplicated.
func (r *Repo) SaveExercise(ctx context.Context, exercise PlannedExercise) (int, error) {
	var id int
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO exercise (name, muscle_group, description) VALUES ($1, $2, $3) RETURNING id;`,
		exercise.Name, exercise.MuscleGroup, exercise.Description,
	).Scan(&id); err != nil {
		return -1, fmt.Errorf("insert exercise %s: %w", exercise.Name, err)
	}
	return id, nil
}

func (r *Repo) SaveWorkoutPlan(ctx context.Context, plan *WorkoutPlan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.saveWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", plan.UserID))

	days, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("marshal workout days: %w", err)
	}

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO workout_plan (user_id, starts_on, source, days)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at;`,
		plan.UserID, plan.StartsOn, string(plan.Source), days,
	).Scan(&plan.ID, &plan.CreatedAt); err != nil {
		return fmt.Errorf("insert workout plan: %w", err)
	}
	return nil
}

func (r *Repo) SaveMealPlan(ctx context.Context, plan *MealPlan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.saveMeal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", plan.UserID))

	days, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("marshal meal days: %w", err)
	}

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO meal_plan (user_id, starts_on, source, days)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at;`,
		plan.UserID, plan.StartsOn, string(plan.Source), days,
	).Scan(&plan.ID, &plan.CreatedAt); err != nil {
		return fmt.Errorf("insert meal plan: %w", err)
	}
	return nil
}

func (r *Repo) LatestWorkoutPlan(ctx context.Context, userID int) (_ *WorkoutPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.latestWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	plan := &WorkoutPlan{UserID: userID}
	var source string
	var days []byte
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, starts_on, source, days, created_at FROM workout_plan
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT 1;`,
		userID,
	).Scan(&plan.ID, &plan.StartsOn, &source, &days, &plan.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("select latest workout plan: %w", err)
	}

	plan.Source = Source(source)
	if err := json.Unmarshal(days, &plan.Days); err != nil {
		return nil, fmt.Errorf("unmarshal workout days: %w", err)
	}
	return plan, nil
}

func (r *Repo) LatestMealPlan(ctx context.Context, userID int) (_ *MealPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.latestMeal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	plan := &MealPlan{UserID: userID}
	var source string
	var days []byte
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, starts_on, source, days, created_at FROM meal_plan
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT 1;`,
		userID,
	).Scan(&plan.ID, &plan.StartsOn, &source, &days, &plan.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("select latest meal plan: %w", err)
	}

	plan.Source = Source(source)
	if err := json.Unmarshal(days, &plan.Days); err != nil {
		return nil, fmt.Errorf("unmarshal meal days: %w", err)
	}
	return plan, nil
}
