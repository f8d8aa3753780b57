package logs

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitprogress/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

type logsRepo interface {
	AddTraining(ctx context.Context, entry TrainingEntry) (*TrainingEntry, error)
	AddNutrition(ctx context.Context, entry NutritionEntry) (*NutritionEntry, error)
	TrainingLogs(ctx context.Context, userID int, from, to time.Time) ([]TrainingEntry, error)
	NutritionLogs(ctx context.Context, userID int, from, to time.Time) ([]NutritionEntry, error)
	ExerciseExists(ctx context.Context, exerciseID int) (bool, error)
}

type Service struct {
	repo           logsRepo
	metricsManager *metrics.Manager
}

func NewService(repo logsRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (s *Service) LogTraining(ctx context.Context, userID int, newLog NewTrainingLog) (*TrainingEntry, error) {
	entry, err := newLog.Entry(userID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExerciseExists(ctx, entry.ExerciseID)
	if err != nil {
		return nil, fmt.Errorf("check exercise: %w", err)
	}
	if !exists {
		return nil, ErrExerciseNotFound
	}

	added, err := s.repo.AddTraining(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.metricsManager.CounterLogEntries.WithLabelValues("training").Inc()
	log.Debugf("training log %d added for user %d, exercise %d", added.ID, userID, added.ExerciseID)
	return added, nil
}

func (s *Service) LogNutrition(ctx context.Context, userID int, newLog NewNutritionLog) (*NutritionEntry, error) {
	entry, err := newLog.Entry(userID)
	if err != nil {
		return nil, err
	}

	added, err := s.repo.AddNutrition(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.metricsManager.CounterLogEntries.WithLabelValues("nutrition").Inc()
	log.Debugf("nutrition log %d added for user %d, slot %s", added.ID, userID, added.Slot)
	return added, nil
}

func (s *Service) TrainingHistory(ctx context.Context, userID int, from, to time.Time) ([]TrainingEntry, error) {
	if from.After(to) {
		return nil, validationErr("from must not be after to")
	}
	return s.repo.TrainingLogs(ctx, userID, from, to)
}

func (s *Service) NutritionHistory(ctx context.Context, userID int, from, to time.Time) ([]NutritionEntry, error) {
	if from.After(to) {
		return nil, validationErr("from must not be after to")
	}
	return s.repo.NutritionLogs(ctx, userID, from, to)
}
