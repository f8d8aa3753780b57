//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/2beens/fitprogress/internal/middleware"
	"github.com/2beens/fitprogress/internal/plans"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestPlans() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)

	// no inference key configured, so plans come from the templates
	resp := s.doRequest(ctx, t, "POST", "/plans/workout/generate", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	workout := decodeBody[plans.WorkoutPlan](t, resp)
	assert.Equal(t, plans.SourceTemplate, workout.Source)
	assert.Equal(t, testUserID, workout.UserID)
	require.Len(t, workout.Days, 4)
	for _, day := range workout.Days {
		for _, ex := range day.Exercises {
			assert.Positive(t, ex.ExerciseID)
		}
	}

	resp = s.doRequest(ctx, t, "POST", "/plans/meal/generate", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	meal := decodeBody[plans.MealPlan](t, resp)
	assert.Equal(t, plans.SourceTemplate, meal.Source)
	assert.Len(t, meal.Days, 7)

	resp = s.doRequest(ctx, t, "GET", "/plans/workout/latest", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	latestWorkout := decodeBody[plans.WorkoutPlan](t, resp)
	assert.Equal(t, workout.ID, latestWorkout.ID)

	resp = s.doRequest(ctx, t, "GET", "/plans/meal/latest", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	latestMeal := decodeBody[plans.MealPlan](t, resp)
	assert.Equal(t, meal.ID, latestMeal.ID)
}

func (s *IntegrationTestSuite) TestAdminRegeneratePlans() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp := s.doRequest(ctx, t, "POST", "/admin/plans/regenerate", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequestWithContext(ctx, "POST", serverEndpoint+"/admin/plans/regenerate", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.AdminSecretHeader, testAdminSecret)
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	regenerated := decodeBody[plans.RegenerateResponse](t, resp)
	assert.Zero(t, regenerated.Failed)
	assert.Empty(t, regenerated.Errors)

	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM workout_plan WHERE user_id = $1;`, testUserID).Scan(&count))
	assert.Positive(t, count)
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM meal_plan WHERE user_id = $1;`, testUserID).Scan(&count))
	assert.Positive(t, count)
}

func (s *IntegrationTestSuite) TestMCPRequiresAdminSecret() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)
	resp := s.doRequest(ctx, t, "POST", "/mcp", token, map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/list",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
