package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitprogress/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrProfileNotFound = errors.New("profile not found")

const profileColumns = `user_id, username, gender, birth_date, current_weight_kg, height_cm,
		primary_goal, fitness_level, activity_level, training_days_per_week, session_duration_minutes,
		equipment, injuries, allergies, medical_conditions, diet_type, meals_per_day,
		target_calories, target_protein, target_carbs, target_fat`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM user_profile WHERE user_id = $1;`, userID)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *Repo) ListAll(ctx context.Context) (_ []Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.listAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT `+profileColumns+` FROM user_profile ORDER BY user_id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("profiles.count", len(profiles)))
	return profiles, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(
		&p.UserID, &p.Username, &p.Gender, &p.BirthDate, &p.CurrentWeightKg, &p.HeightCm,
		&p.PrimaryGoal, &p.FitnessLevel, &p.ActivityLevel, &p.TrainingDaysPerWeek, &p.SessionDurationMinutes,
		&p.Equipment, &p.Injuries, &p.Allergies, &p.MedicalConditions, &p.DietType, &p.MealsPerDay,
		&p.TargetCalories, &p.TargetProtein, &p.TargetCarbs, &p.TargetFat,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
