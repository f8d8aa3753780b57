package evaluation

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitprogress/internal/auth"
	"github.com/2beens/fitprogress/internal/profiles"
	"github.com/2beens/fitprogress/internal/progress/nutrition"
	"github.com/2beens/fitprogress/internal/progress/training"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type evaluationService interface {
	EvaluateTraining(ctx context.Context, userID int) (*Snapshot, error)
	EvaluateNutrition(ctx context.Context, userID int) (*Snapshot, error)
	EvaluateFull(ctx context.Context, userID int) (*Snapshot, error)
	History(ctx context.Context, userID, limit int) ([]Snapshot, error)
	ExerciseProgress(ctx context.Context, userID, exerciseID int) (*training.ExerciseProgress, error)
	DailyNutrition(ctx context.Context, userID int, date time.Time) (*nutrition.DailySummary, error)
}

type Handler struct {
	service evaluationService
	nowFunc func() time.Time
}

func NewHandler(service evaluationService) *Handler {
	return &Handler{
		service: service,
		nowFunc: time.Now,
	}
}

func (handler *Handler) HandleEvaluateTraining(w http.ResponseWriter, r *http.Request) {
	handler.evaluate(w, r, "handler.evaluation.training", handler.service.EvaluateTraining)
}

func (handler *Handler) HandleEvaluateNutrition(w http.ResponseWriter, r *http.Request) {
	handler.evaluate(w, r, "handler.evaluation.nutrition", handler.service.EvaluateNutrition)
}

func (handler *Handler) HandleEvaluateFull(w http.ResponseWriter, r *http.Request) {
	handler.evaluate(w, r, "handler.evaluation.full", handler.service.EvaluateFull)
}

func (handler *Handler) evaluate(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	evaluate func(ctx context.Context, userID int) (*Snapshot, error),
) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), spanName)
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	snapshot, err := evaluate(ctx, userID)
	if err != nil {
		writeError(w, "evaluate", userID, err)
		return
	}

	pkg.WriteJSON(w, snapshot, http.StatusOK)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.evaluation.history")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	limit := DefaultHistoryLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		l, err := strconv.Atoi(limitParam)
		if err != nil || l <= 0 {
			http.Error(w, "error, invalid limit", http.StatusBadRequest)
			return
		}
		limit = l
	}

	history, err := handler.service.History(ctx, userID, limit)
	if err != nil {
		writeError(w, "get evaluation history", userID, err)
		return
	}

	pkg.WriteJSON(w, history, http.StatusOK)
}

func (handler *Handler) HandleExerciseProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.evaluation.exerciseProgress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	exerciseID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, invalid exercise id", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	progress, err := handler.service.ExerciseProgress(ctx, userID, exerciseID)
	if err != nil {
		writeError(w, "get exercise progress", userID, err)
		return
	}

	pkg.WriteJSON(w, progress, http.StatusOK)
}

func (handler *Handler) HandleDailySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.evaluation.dailySummary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	date := pkg.Day(handler.nowFunc())
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		d, err := pkg.ParseDay(dateParam)
		if err != nil {
			http.Error(w, "error, invalid date", http.StatusBadRequest)
			return
		}
		date = d
	}

	summary, err := handler.service.DailyNutrition(ctx, userID, date)
	if err != nil {
		writeError(w, "get daily summary", userID, err)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}

func writeError(w http.ResponseWriter, op string, userID int, err error) {
	if errors.Is(err, profiles.ErrProfileNotFound) || errors.Is(err, ErrNoExerciseData) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	log.Errorf("%s for user %d: %s", op, userID, err)
	http.Error(w, "error, failed to "+op, http.StatusInternalServerError)
}
