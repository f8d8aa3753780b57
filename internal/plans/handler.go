package plans

import (
	"context"
	"net/http"

	"github.com/2beens/fitprogress/internal/auth"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

type plansService interface {
	GenerateWorkoutPlanForUser(ctx context.Context, userID int) (*WorkoutPlan, error)
	GenerateMealPlanForUser(ctx context.Context, userID int) (*MealPlan, error)
	LatestWorkoutPlan(ctx context.Context, userID int) (*WorkoutPlan, error)
	LatestMealPlan(ctx context.Context, userID int) (*MealPlan, error)
	RegenerateAllPlans(ctx context.Context) error
}

type RegenerateResponse struct {
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}

type Handler struct {
	service plansService
}

func NewHandler(service plansService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleGenerateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.generateWorkout")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	plan, err := handler.service.GenerateWorkoutPlanForUser(ctx, userID)
	if err != nil {
		handler.writeError(w, "generate workout plan", userID, err)
		return
	}

	pkg.WriteJSON(w, plan, http.StatusCreated)
}

func (handler *Handler) HandleGenerateMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.generateMeal")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	plan, err := handler.service.GenerateMealPlanForUser(ctx, userID)
	if err != nil {
		handler.writeError(w, "generate meal plan", userID, err)
		return
	}

	pkg.WriteJSON(w, plan, http.StatusCreated)
}

func (handler *Handler) HandleLatestWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.latestWorkout")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	plan, err := handler.service.LatestWorkoutPlan(ctx, userID)
	if err != nil {
		handler.writeError(w, "latest workout plan", userID, err)
		return
	}

	pkg.WriteJSON(w, plan, http.StatusOK)
}

func (handler *Handler) HandleLatestMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.latestMeal")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	plan, err := handler.service.LatestMealPlan(ctx, userID)
	if err != nil {
		handler.writeError(w, "latest meal plan", userID, err)
		return
	}

	pkg.WriteJSON(w, plan, http.StatusOK)
}

// HandleRegenerateAll runs the weekly batch on demand. Per-user failures are
// reported in the body, the batch itself always completes.
func (handler *Handler) HandleRegenerateAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.regenerateAll")
	defer span.End()

	resp := RegenerateResponse{Errors: []string{}}
	if err := handler.service.RegenerateAllPlans(ctx); err != nil {
		for _, e := range multierr.Errors(err) {
			resp.Errors = append(resp.Errors, e.Error())
		}
		resp.Failed = len(resp.Errors)
		log.Errorf("regenerate all plans: %d failures", resp.Failed)
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (handler *Handler) writeError(w http.ResponseWriter, op string, userID int, err error) {
	if IsNotFound(err) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	log.Errorf("%s for user %d: %s", op, userID, err)
	http.Error(w, "error, failed to "+op, http.StatusInternalServerError)
}
