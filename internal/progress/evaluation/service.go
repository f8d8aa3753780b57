package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitprogress/internal/inference"
	"github.com/2beens/fitprogress/internal/profiles"
	"github.com/2beens/fitprogress/internal/progress/logs"
	"github.com/2beens/fitprogress/internal/progress/nutrition"
	"github.com/2beens/fitprogress/internal/progress/training"
	"github.com/2beens/fitprogress/internal/progress/trend"
	"github.com/2beens/fitprogress/internal/telemetry/metrics"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50

	defaultDispatchTimeout = 2 * time.Minute
)

var ErrNoExerciseData = errors.New("no data for exercise in the current window")

type logsRepo interface {
	TrainingLogs(ctx context.Context, userID int, from, to time.Time) ([]logs.TrainingEntry, error)
	NutritionLogs(ctx context.Context, userID int, from, to time.Time) ([]logs.NutritionEntry, error)
}

type profilesRepo interface {
	Get(ctx context.Context, userID int) (*profiles.Profile, error)
}

type evaluationsRepo interface {
	snapshotSaver
	Recent(ctx context.Context, userID, limit int) ([]Snapshot, error)
	RecentTraining(ctx context.Context, userID, limit int) ([]trend.Prior, error)
}

type generator interface {
	Generate(ctx context.Context, req inference.Request) (string, error)
}

type ServiceParams struct {
	LogsRepo        logsRepo
	ProfilesRepo    profilesRepo
	EvaluationsRepo evaluationsRepo
	Generator       generator
	MetricsManager  *metrics.Manager
	// DispatchTimeout bounds a single background evaluation.
	DispatchTimeout time.Duration
}

type Service struct {
	logsRepo        logsRepo
	profilesRepo    profilesRepo
	evaluationsRepo evaluationsRepo
	recorder        *Recorder
	generator       generator
	metricsManager  *metrics.Manager
	dispatchTimeout time.Duration
	nowFunc         func() time.Time

	dispatches sync.WaitGroup
}

func NewService(params ServiceParams) *Service {
	timeout := params.DispatchTimeout
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	return &Service{
		logsRepo:        params.LogsRepo,
		profilesRepo:    params.ProfilesRepo,
		evaluationsRepo: params.EvaluationsRepo,
		recorder:        NewRecorder(params.EvaluationsRepo),
		generator:       params.Generator,
		metricsManager:  params.MetricsManager,
		dispatchTimeout: timeout,
		nowFunc:         time.Now,
	}
}

func (s *Service) today() time.Time {
	return pkg.Day(s.nowFunc())
}

// EvaluateTraining compares the last 7 days of training with the 7 days before,
// checks the previous training evaluations for a plateau and stores the result.
func (s *Service) EvaluateTraining(ctx context.Context, userID int) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "evaluation.training")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	profile, err := s.profilesRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	current, previous := training.Windows(s.today())
	currentLogs, err := s.logsRepo.TrainingLogs(ctx, userID, current.From, current.To)
	if err != nil {
		return nil, fmt.Errorf("current training logs: %w", err)
	}
	previousLogs, err := s.logsRepo.TrainingLogs(ctx, userID, previous.From, previous.To)
	if err != nil {
		return nil, fmt.Errorf("previous training logs: %w", err)
	}

	summary := training.Aggregate(currentLogs, previousLogs, profile.TrainingDaysPerWeek)

	// must run before the new snapshot is stored
	prior, err := s.evaluationsRepo.RecentTraining(ctx, userID, trend.PlateauWindow)
	if err != nil {
		return nil, fmt.Errorf("recent training evaluations: %w", err)
	}
	t := trend.Training(summary.ImprovementPct, trend.DetectPlateau(prior))
	span.SetAttributes(attribute.String("trend", string(t)))

	feedback, source := s.feedback(
		ctx,
		TrainingFeedbackPrompt(summary, t, profile),
		func() string { return DefaultTrainingFeedback(summary, t) },
	)

	snapshot, err := s.recorder.RecordTraining(ctx, userID, summary, t, feedback)
	if err != nil {
		return nil, err
	}
	s.metricsManager.CounterEvaluations.WithLabelValues(string(KindTraining), source).Inc()
	return snapshot, nil
}

// EvaluateNutrition summarises the last 7 days of nutrition logs against the profile targets.
func (s *Service) EvaluateNutrition(ctx context.Context, userID int) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "evaluation.nutrition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	profile, err := s.profilesRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	window, _ := training.Windows(s.today())
	entries, err := s.logsRepo.NutritionLogs(ctx, userID, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("nutrition logs: %w", err)
	}

	summary := nutrition.Aggregate(entries, nutrition.TargetsFromProfile(profile))
	t := trend.Nutrition(summary.CalorieAdherence, summary.ProteinAdherence)
	span.SetAttributes(attribute.String("trend", string(t)))

	feedback, source := s.feedback(
		ctx,
		NutritionFeedbackPrompt(summary, t, profile),
		func() string { return DefaultNutritionFeedback(summary, t) },
	)

	snapshot, err := s.recorder.RecordNutrition(ctx, userID, summary, t, feedback)
	if err != nil {
		return nil, err
	}
	s.metricsManager.CounterEvaluations.WithLabelValues(string(KindNutrition), source).Inc()
	return snapshot, nil
}

// EvaluateFull stores a training and a nutrition snapshot and returns their combination.
func (s *Service) EvaluateFull(ctx context.Context, userID int) (*Snapshot, error) {
	trainingSnap, err := s.EvaluateTraining(ctx, userID)
	if err != nil {
		return nil, err
	}
	nutritionSnap, err := s.EvaluateNutrition(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Combine(trainingSnap, nutritionSnap), nil
}

func (s *Service) feedback(ctx context.Context, prompt string, fallback func() string) (string, string) {
	if s.generator == nil {
		return fallback(), feedbackSourceDefault
	}

	text, err := s.generator.Generate(ctx, inference.Request{
		Prompt: prompt,
		Budget: inference.FeedbackBudget,
	})
	if err != nil {
		log.Warnf("feedback generation failed, using default text: %s", err)
		return fallback(), feedbackSourceDefault
	}
	return text, feedbackSourceModel
}

// DispatchTraining runs a training evaluation in the background. The caller is
// never blocked and never sees the outcome.
func (s *Service) DispatchTraining(ctx context.Context, userID int) {
	s.dispatch(ctx, KindTraining, userID, s.EvaluateTraining)
}

func (s *Service) DispatchNutrition(ctx context.Context, userID int) {
	s.dispatch(ctx, KindNutrition, userID, s.EvaluateNutrition)
}

func (s *Service) dispatch(
	ctx context.Context,
	kind Kind,
	userID int,
	evaluate func(ctx context.Context, userID int) (*Snapshot, error),
) {
	jobID := uuid.NewString()
	s.dispatches.Add(1)
	s.metricsManager.GaugePendingDispatches.Inc()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("evaluation job %s [%s] for user %d panicked: %v", jobID, kind, userID, r)
			}
			s.metricsManager.GaugePendingDispatches.Dec()
			s.dispatches.Done()
		}()

		// the request that triggered the job is likely done by now
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.dispatchTimeout)
		defer cancel()

		snapshot, err := evaluate(jobCtx, userID)
		if err != nil {
			log.Errorf("evaluation job %s [%s] for user %d: %s", jobID, kind, userID, err)
			return
		}
		log.Debugf("evaluation job %s [%s] for user %d done, snapshot %d", jobID, kind, userID, snapshot.ID)
	}()
}

// Wait blocks until all dispatched evaluations are finished.
func (s *Service) Wait() {
	s.dispatches.Wait()
}

// History returns the latest snapshots, newest first. Limit is clamped to [1, MaxHistoryLimit].
func (s *Service) History(ctx context.Context, userID, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)
	return s.evaluationsRepo.Recent(ctx, userID, limit)
}

func (s *Service) ExerciseProgress(ctx context.Context, userID, exerciseID int) (*training.ExerciseProgress, error) {
	current, previous := training.Windows(s.today())
	currentLogs, err := s.logsRepo.TrainingLogs(ctx, userID, current.From, current.To)
	if err != nil {
		return nil, fmt.Errorf("current training logs: %w", err)
	}
	previousLogs, err := s.logsRepo.TrainingLogs(ctx, userID, previous.From, previous.To)
	if err != nil {
		return nil, fmt.Errorf("previous training logs: %w", err)
	}

	progress, ok := training.ExerciseProgressFor(exerciseID, currentLogs, previousLogs)
	if !ok {
		return nil, ErrNoExerciseData
	}
	return &progress, nil
}

func (s *Service) DailyNutrition(ctx context.Context, userID int, date time.Time) (*nutrition.DailySummary, error) {
	day := pkg.Day(date)
	entries, err := s.logsRepo.NutritionLogs(ctx, userID, day, day)
	if err != nil {
		return nil, fmt.Errorf("nutrition logs: %w", err)
	}
	summary := nutrition.Daily(day, entries)
	return &summary, nil
}
