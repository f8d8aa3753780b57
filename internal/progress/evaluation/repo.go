package evaluation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/fitprogress/internal/progress/trend"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Save appends the snapshot and fills in its ID and CreatedAt.
func (r *Repo) Save(ctx context.Context, snapshot *Snapshot) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.evaluation.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", snapshot.UserID),
		attribute.String("evaluation.kind", string(snapshot.Kind)),
	)

	var (
		trainingJSON, nutritionJSON []byte
		trainingTrend, nutritionTrend *string
		improvementPct                *float64
	)
	if snapshot.Training != nil {
		trainingJSON, err = json.Marshal(snapshot.Training)
		if err != nil {
			return fmt.Errorf("marshal training result: %w", err)
		}
		t := string(snapshot.Training.Trend)
		pct := snapshot.Training.Summary.ImprovementPct
		trainingTrend = &t
		improvementPct = &pct
	}
	if snapshot.Nutrition != nil {
		nutritionJSON, err = json.Marshal(snapshot.Nutrition)
		if err != nil {
			return fmt.Errorf("marshal nutrition result: %w", err)
		}
		t := string(snapshot.Nutrition.Trend)
		nutritionTrend = &t
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO evaluation
				(user_id, evaluated_on, kind, training, nutrition, training_trend, training_improvement_pct,
				 nutrition_trend, feedback, recommendations, achievements)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at;`,
		snapshot.UserID, snapshot.EvaluatedOn, string(snapshot.Kind), trainingJSON, nutritionJSON,
		trainingTrend, improvementPct, nutritionTrend, snapshot.Feedback,
		snapshot.Recommendations, snapshot.Achievements,
	).Scan(&snapshot.ID, &snapshot.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	span.SetAttributes(attribute.Int("evaluation.id", snapshot.ID))
	return nil
}

// Recent returns up to limit snapshots of the user, newest first.
func (r *Repo) Recent(ctx context.Context, userID, limit int) (_ []Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.evaluation.recent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("limit", limit))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, evaluated_on, kind, training, nutrition, feedback, recommendations, achievements, created_at
			FROM evaluation
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var (
			s                           Snapshot
			kind                        string
			trainingJSON, nutritionJSON []byte
		)
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.EvaluatedOn, &kind, &trainingJSON, &nutritionJSON,
			&s.Feedback, &s.Recommendations, &s.Achievements, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		s.Kind = Kind(kind)
		if len(trainingJSON) > 0 {
			s.Training = &TrainingResult{}
			if err := json.Unmarshal(trainingJSON, s.Training); err != nil {
				return nil, fmt.Errorf("unmarshal training result %d: %w", s.ID, err)
			}
		}
		if len(nutritionJSON) > 0 {
			s.Nutrition = &NutritionResult{}
			if err := json.Unmarshal(nutritionJSON, s.Nutrition); err != nil {
				return nil, fmt.Errorf("unmarshal nutrition result %d: %w", s.ID, err)
			}
		}
		if s.Recommendations == nil {
			s.Recommendations = []string{}
		}
		if s.Achievements == nil {
			s.Achievements = []string{}
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

// RecentTraining reads back the trend part of the latest training snapshots, newest first.
func (r *Repo) RecentTraining(ctx context.Context, userID, limit int) (_ []trend.Prior, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.evaluation.recentTraining")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT training_trend, training_improvement_pct
			FROM evaluation
			WHERE user_id = $1 AND training_trend IS NOT NULL
			ORDER BY created_at DESC, id DESC
			LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prior []trend.Prior
	for rows.Next() {
		var (
			t   string
			pct *float64
		)
		if err := rows.Scan(&t, &pct); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		prior = append(prior, trend.Prior{Trend: trend.Trend(t), ImprovementPct: pct})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prior, nil
}
