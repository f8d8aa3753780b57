package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddTraining(ctx context.Context, entry TrainingEntry) (_ *TrainingEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.addTraining")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", entry.UserID))

	var effort *string
	if entry.Effort != nil {
		e := string(*entry.Effort)
		effort = &e
	}

	err = r.db.QueryRow(
		ctx,
		`WITH ins AS (
				INSERT INTO training_log
					(user_id, exercise_id, log_date, sets, reps, load_kg, rest_seconds, duration_minutes, effort, notes, completed)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				RETURNING id, exercise_id
			)
			SELECT ins.id, e.name, e.muscle_group FROM ins JOIN exercise e ON e.id = ins.exercise_id;`,
		entry.UserID, entry.ExerciseID, entry.Date, entry.Sets, entry.Reps, entry.Load,
		entry.RestSeconds, entry.DurationMinutes, effort, entry.Notes, entry.Completed,
	).Scan(&entry.ID, &entry.ExerciseName, &entry.MuscleGroup)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("insert training log: %w", err)
	}

	span.SetAttributes(attribute.Int("training_log.id", entry.ID))
	return &entry, nil
}

func (r *Repo) AddNutrition(ctx context.Context, entry NutritionEntry) (_ *NutritionEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.addNutrition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", entry.UserID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO nutrition_log
				(user_id, log_date, meal_slot, calories, protein_g, carbs_g, fat_g, fiber_g, water_ml, description, planned)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id;`,
		entry.UserID, entry.Date, string(entry.Slot), entry.Calories, entry.Protein, entry.Carbs,
		entry.Fat, entry.Fiber, entry.WaterMl, entry.Description, entry.Planned,
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("insert nutrition log: %w", err)
	}

	span.SetAttributes(attribute.Int("nutrition_log.id", entry.ID))
	return &entry, nil
}

// TrainingLogs returns the user's entries with from <= date <= to, oldest first.
func (r *Repo) TrainingLogs(ctx context.Context, userID int, from, to time.Time) (_ []TrainingEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.trainingLogs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT
				t.id, t.user_id, t.exercise_id, e.name, e.muscle_group, t.log_date, t.sets, t.reps, t.load_kg,
				t.rest_seconds, t.duration_minutes, t.effort, t.notes, t.completed
			FROM training_log t
			JOIN exercise e ON e.id = t.exercise_id
			WHERE t.user_id = $1 AND t.log_date >= $2 AND t.log_date <= $3
			ORDER BY t.log_date, t.id;`,
		userID, pkg.Day(from), pkg.Day(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TrainingEntry
	for rows.Next() {
		var (
			e      TrainingEntry
			effort *string
		)
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.ExerciseID, &e.ExerciseName, &e.MuscleGroup, &e.Date, &e.Sets, &e.Reps, &e.Load,
			&e.RestSeconds, &e.DurationMinutes, &effort, &e.Notes, &e.Completed,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if effort != nil {
			if lvl, ok := ParseEffortLevel(*effort); ok {
				e.Effort = &lvl
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}

// NutritionLogs returns the user's entries with from <= date <= to, ordered by day and slot.
func (r *Repo) NutritionLogs(ctx context.Context, userID int, from, to time.Time) (_ []NutritionEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.nutritionLogs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT
				id, user_id, log_date, meal_slot, calories, protein_g, carbs_g, fat_g, fiber_g, water_ml, description, planned
			FROM nutrition_log
			WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3
			ORDER BY log_date, id;`,
		userID, pkg.Day(from), pkg.Day(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []NutritionEntry
	for rows.Next() {
		var (
			e    NutritionEntry
			slot string
		)
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Date, &slot, &e.Calories, &e.Protein, &e.Carbs, &e.Fat, &e.Fiber, &e.WaterMl,
			&e.Description, &e.Planned,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		e.Slot = MealSlot(slot)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortBySlot(entries)
	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}

func (r *Repo) ExerciseExists(ctx context.Context, exerciseID int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.exerciseExists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	err = r.db.QueryRow(ctx, `SELECT id FROM exercise WHERE id = $1;`, exerciseID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
