package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitprogress/internal/inference"
	"github.com/2beens/fitprogress/internal/profiles"
	"github.com/2beens/fitprogress/internal/telemetry/metrics"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

const (
	kindWorkout = "workout"
	kindMeal    = "meal"
)

type generator interface {
	Generate(ctx context.Context, req inference.Request) (string, error)
}

type plansRepo interface {
	SaveExercise(ctx context.Context, exercise PlannedExercise) (int, error)
	SaveWorkoutPlan(ctx context.Context, plan *WorkoutPlan) error
	SaveMealPlan(ctx context.Context, plan *MealPlan) error
	LatestWorkoutPlan(ctx context.Context, userID int) (*WorkoutPlan, error)
	LatestMealPlan(ctx context.Context, userID int) (*MealPlan, error)
}

type profilesRepo interface {
	Get(ctx context.Context, userID int) (*profiles.Profile, error)
	ListAll(ctx context.Context) ([]profiles.Profile, error)
}

type Synthesizer struct {
	generator      generator
	repo           plansRepo
	profilesRepo   profilesRepo
	metricsManager *metrics.Manager
	nowFunc        func() time.Time
}

func NewSynthesizer(
	generator generator,
	repo plansRepo,
	profilesRepo profilesRepo,
	metricsManager *metrics.Manager,
) *Synthesizer {
	return &Synthesizer{
		generator:      generator,
		repo:           repo,
		profilesRepo:   profilesRepo,
		metricsManager: metricsManager,
		nowFunc:        time.Now,
	}
}

// GenerateWeeklyWorkoutPlan asks the generator for a plan and falls back to
// the template when nothing usable comes back. Only storage errors are returned.
func (s *Synthesizer) GenerateWeeklyWorkoutPlan(ctx context.Context, profile *profiles.Profile) (_ *WorkoutPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plans.generateWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", profile.UserID))

	now := s.nowFunc()
	source := SourceGenerated
	days, genErr := s.generateWorkoutDays(ctx, profile, now)
	if genErr != nil {
		log.Warnf("workout plan for user %d, using template: %s", profile.UserID, genErr)
		source = SourceTemplate
		days = TemplateWorkoutDays(profile.TrainingDaysPerWeek)
	}
	span.SetAttributes(attribute.String("source", string(source)))

	for di := range days {
		for ei := range days[di].Exercises {
			id, err := s.repo.SaveExercise(ctx, days[di].Exercises[ei])
			if err != nil {
				return nil, fmt.Errorf("save exercise: %w", err)
			}
			days[di].Exercises[ei].ExerciseID = id
		}
	}

	plan := &WorkoutPlan{
		UserID:   profile.UserID,
		StartsOn: pkg.Day(now),
		Source:   source,
		Days:     days,
	}
	if err := s.repo.SaveWorkoutPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save workout plan: %w", err)
	}

	s.countGeneration(kindWorkout, source)
	return plan, nil
}

func (s *Synthesizer) generateWorkoutDays(ctx context.Context, profile *profiles.Profile, now time.Time) ([]WorkoutDay, error) {
	content, err := s.generator.Generate(ctx, inference.Request{
		Prompt: WorkoutPrompt(profile, now),
		Budget: inference.PlanBudget,
	})
	if err != nil {
		return nil, err
	}
	return ParseWorkoutDays(content)
}

// GenerateWeeklyMealPlan works like GenerateWeeklyWorkoutPlan, with the seven day meal template as fallback.
func (s *Synthesizer) GenerateWeeklyMealPlan(ctx context.Context, profile *profiles.Profile) (_ *MealPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plans.generateMeal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", profile.UserID))

	source := SourceGenerated
	days, genErr := s.generateMealDays(ctx, profile)
	if genErr != nil {
		log.Warnf("meal plan for user %d, using template: %s", profile.UserID, genErr)
		source = SourceTemplate
		days = TemplateMealDays()
	}
	span.SetAttributes(attribute.String("source", string(source)))

	plan := &MealPlan{
		UserID:   profile.UserID,
		StartsOn: pkg.Day(s.nowFunc()),
		Source:   source,
		Days:     days,
	}
	if err := s.repo.SaveMealPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save meal plan: %w", err)
	}

	s.countGeneration(kindMeal, source)
	return plan, nil
}

func (s *Synthesizer) generateMealDays(ctx context.Context, profile *profiles.Profile) ([]MealDay, error) {
	content, err := s.generator.Generate(ctx, inference.Request{
		Prompt: MealPrompt(profile),
		Budget: inference.PlanBudget,
	})
	if err != nil {
		return nil, err
	}
	return ParseMealDays(content)
}

func (s *Synthesizer) GenerateWorkoutPlanForUser(ctx context.Context, userID int) (*WorkoutPlan, error) {
	profile, err := s.profilesRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return s.GenerateWeeklyWorkoutPlan(ctx, profile)
}

func (s *Synthesizer) GenerateMealPlanForUser(ctx context.Context, userID int) (*MealPlan, error) {
	profile, err := s.profilesRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return s.GenerateWeeklyMealPlan(ctx, profile)
}

func (s *Synthesizer) LatestWorkoutPlan(ctx context.Context, userID int) (*WorkoutPlan, error) {
	return s.repo.LatestWorkoutPlan(ctx, userID)
}

func (s *Synthesizer) LatestMealPlan(ctx context.Context, userID int) (*MealPlan, error) {
	return s.repo.LatestMealPlan(ctx, userID)
}

// RegenerateAllPlans refreshes both plans of every profile. A failing user does
// not stop the batch; all failures are returned together.
func (s *Synthesizer) RegenerateAllPlans(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plans.regenerateAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()
	defer func() {
		if s.metricsManager != nil {
			s.metricsManager.HistRegenerationDuration.Observe(time.Since(start).Seconds())
		}
	}()

	allProfiles, err := s.profilesRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	span.SetAttributes(attribute.Int("profiles.count", len(allProfiles)))

	var errs error
	regenerated := 0
	for i := range allProfiles {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(errs, fmt.Errorf("regeneration interrupted: %w", ctxErr))
		}

		profile := &allProfiles[i]
		if userErr := s.regenerateForUser(ctx, profile); userErr != nil {
			log.Errorf("regenerate plans for user %d (%s): %s", profile.UserID, profile.Username, userErr)
			if s.metricsManager != nil {
				s.metricsManager.CounterRegenerationErrors.Inc()
			}
			errs = multierr.Append(errs, fmt.Errorf("user %d: %w", profile.UserID, userErr))
			continue
		}
		regenerated++
		log.Debugf("regenerated plans for user %d (%s)", profile.UserID, profile.Username)
	}

	log.Infof("plans regenerated for %d/%d users", regenerated, len(allProfiles))
	return errs
}

func (s *Synthesizer) regenerateForUser(ctx context.Context, profile *profiles.Profile) error {
	_, workoutErr := s.GenerateWeeklyWorkoutPlan(ctx, profile)
	if workoutErr != nil {
		return workoutErr
	}
	_, mealErr := s.GenerateWeeklyMealPlan(ctx, profile)
	return mealErr
}

func (s *Synthesizer) countGeneration(kind string, source Source) {
	if s.metricsManager == nil {
		return
	}
	s.metricsManager.CounterPlanGenerations.WithLabelValues(kind, string(source)).Inc()
}

// IsNotFound reports whether err means the user or plan does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlanNotFound) || errors.Is(err, profiles.ErrProfileNotFound)
}
