package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitprogress/internal/auth"
	"github.com/2beens/fitprogress/internal/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fakePlansService struct {
	workoutPlan   *WorkoutPlan
	mealPlan      *MealPlan
	err           error
	regenerateErr error
	calledUserID  int
}

func (f *fakePlansService) GenerateWorkoutPlanForUser(_ context.Context, userID int) (*WorkoutPlan, error) {
	f.calledUserID = userID
	return f.workoutPlan, f.err
}

func (f *fakePlansService) GenerateMealPlanForUser(_ context.Context, userID int) (*MealPlan, error) {
	f.calledUserID = userID
	return f.mealPlan, f.err
}

func (f *fakePlansService) LatestWorkoutPlan(_ context.Context, userID int) (*WorkoutPlan, error) {
	f.calledUserID = userID
	return f.workoutPlan, f.err
}

func (f *fakePlansService) LatestMealPlan(_ context.Context, userID int) (*MealPlan, error) {
	f.calledUserID = userID
	return f.mealPlan, f.err
}

func (f *fakePlansService) RegenerateAllPlans(_ context.Context) error {
	return f.regenerateErr
}

func authedRequest(method, target string, userID int) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(auth.ContextWithUserID(req.Context(), userID))
}

func TestHandler_HandleGenerateWorkout(t *testing.T) {
	service := &fakePlansService{workoutPlan: &WorkoutPlan{ID: 4, UserID: 9, Source: SourceTemplate, Days: TemplateWorkoutDays(nil)}}
	h := NewHandler(service)

	rec := httptest.NewRecorder()
	h.HandleGenerateWorkout(rec, authedRequest(http.MethodPost, "/plans/workout/generate", 9))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 9, service.calledUserID)

	var plan WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, 4, plan.ID)
	assert.Equal(t, SourceTemplate, plan.Source)
	assert.Len(t, plan.Days, 3)
}

func TestHandler_HandleGenerateMeal(t *testing.T) {
	service := &fakePlansService{mealPlan: &MealPlan{ID: 2, UserID: 9, Source: SourceGenerated, Days: TemplateMealDays()}}
	h := NewHandler(service)

	rec := httptest.NewRecorder()
	h.HandleGenerateMeal(rec, authedRequest(http.MethodPost, "/plans/meal/generate", 9))

	require.Equal(t, http.StatusCreated, rec.Code)
	var plan MealPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Len(t, plan.Days, 7)
	assert.Equal(t, "Baked salmon", plan.Days[0].Dinner.Foods[0])
}

func TestHandler_Unauthorized(t *testing.T) {
	h := NewHandler(&fakePlansService{})
	rec := httptest.NewRecorder()
	h.HandleLatestWorkout(rec, httptest.NewRequest(http.MethodGet, "/plans/workout/latest", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"plan not found", ErrPlanNotFound, http.StatusNotFound},
		{"profile not found", fmt.Errorf("get profile: %w", profiles.ErrProfileNotFound), http.StatusNotFound},
		{"storage", errors.New("conn reset"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakePlansService{err: tc.err})

			rec := httptest.NewRecorder()
			h.HandleLatestMeal(rec, authedRequest(http.MethodGet, "/plans/meal/latest", 1))
			assert.Equal(t, tc.expected, rec.Code)

			rec = httptest.NewRecorder()
			h.HandleGenerateWorkout(rec, authedRequest(http.MethodPost, "/plans/workout/generate", 1))
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}

func TestHandler_HandleRegenerateAll(t *testing.T) {
	h := NewHandler(&fakePlansService{})
	rec := httptest.NewRecorder()
	h.HandleRegenerateAll(rec, httptest.NewRequest(http.MethodPost, "/admin/plans/regenerate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"failed":0,"errors":[]}`, rec.Body.String())

	h = NewHandler(&fakePlansService{regenerateErr: multierr.Combine(
		errors.New("user 2: save meal plan: boom"),
		errors.New("user 5: save exercise: boom"),
	)})
	rec = httptest.NewRecorder()
	h.HandleRegenerateAll(rec, httptest.NewRequest(http.MethodPost, "/admin/plans/regenerate", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RegenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Failed)
	assert.Contains(t, resp.Errors[0], "user 2")
}
