package logs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitprogress/internal/auth"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const defaultHistoryDays = 30

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=logs_test
type logsService interface {
	LogTraining(ctx context.Context, userID int, newLog NewTrainingLog) (*TrainingEntry, error)
	LogNutrition(ctx context.Context, userID int, newLog NewNutritionLog) (*NutritionEntry, error)
	TrainingHistory(ctx context.Context, userID int, from, to time.Time) ([]TrainingEntry, error)
	NutritionHistory(ctx context.Context, userID int, from, to time.Time) ([]NutritionEntry, error)
}

// evaluationDispatcher runs evaluations in the background after a new log.
type evaluationDispatcher interface {
	DispatchTraining(ctx context.Context, userID int)
	DispatchNutrition(ctx context.Context, userID int)
}

type TrainingLoggedResponse struct {
	ID     int     `json:"id"`
	Volume float64 `json:"volume"`
}

type NutritionLoggedResponse struct {
	ID int `json:"id"`
}

type Handler struct {
	service    logsService
	dispatcher evaluationDispatcher
	nowFunc    func() time.Time
}

func NewHandler(service logsService, dispatcher evaluationDispatcher) *Handler {
	return &Handler{
		service:    service,
		dispatcher: dispatcher,
		nowFunc:    time.Now,
	}
}

func (handler *Handler) HandleLogTraining(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.training")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var newLog NewTrainingLog
	if err := json.NewDecoder(r.Body).Decode(&newLog); err != nil {
		log.Errorf("log training, unmarshal json params: %s", err)
		http.Error(w, "log training failed", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.LogTraining(ctx, userID, newLog)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrExerciseNotFound):
			http.Error(w, "exercise not found", http.StatusNotFound)
		default:
			log.Errorf("failed to log training for user %d: %s", userID, err)
			http.Error(w, "error, failed to log training", http.StatusInternalServerError)
		}
		return
	}

	handler.dispatcher.DispatchTraining(ctx, userID)

	pkg.WriteJSON(w, TrainingLoggedResponse{
		ID:     entry.ID,
		Volume: entry.Volume(),
	}, http.StatusCreated)
}

func (handler *Handler) HandleLogNutrition(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.nutrition")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var newLog NewNutritionLog
	if err := json.NewDecoder(r.Body).Decode(&newLog); err != nil {
		log.Errorf("log nutrition, unmarshal json params: %s", err)
		http.Error(w, "log nutrition failed", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.LogNutrition(ctx, userID, newLog)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("failed to log nutrition for user %d: %s", userID, err)
		http.Error(w, "error, failed to log nutrition", http.StatusInternalServerError)
		return
	}

	handler.dispatcher.DispatchNutrition(ctx, userID)

	pkg.WriteJSON(w, NutritionLoggedResponse{ID: entry.ID}, http.StatusCreated)
}

func (handler *Handler) HandleTrainingHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.trainingHistory")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	from, to, err := handler.historyRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := handler.service.TrainingHistory(ctx, userID, from, to)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("training history for user %d: %s", userID, err)
		http.Error(w, "error, failed to get training history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []TrainingEntry{}
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	pkg.WriteJSON(w, entries, http.StatusOK)
}

func (handler *Handler) HandleNutritionHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.nutritionHistory")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	from, to, err := handler.historyRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := handler.service.NutritionHistory(ctx, userID, from, to)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("nutrition history for user %d: %s", userID, err)
		http.Error(w, "error, failed to get nutrition history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []NutritionEntry{}
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	pkg.WriteJSON(w, entries, http.StatusOK)
}

// historyRange reads ?from=YYYY-MM-DD&to=YYYY-MM-DD, defaulting to the last 30 days.
func (handler *Handler) historyRange(r *http.Request) (from, to time.Time, err error) {
	to = pkg.Day(handler.nowFunc())
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err = pkg.ParseDay(toStr); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
	}

	from = to.AddDate(0, 0, -defaultHistoryDays)
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err = pkg.ParseDay(fromStr); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
	}

	return from, to, nil
}
