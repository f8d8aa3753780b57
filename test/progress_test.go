//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitprogress/internal/progress/evaluation"
	"github.com/2beens/fitprogress/internal/progress/logs"
	"github.com/2beens/fitprogress/internal/progress/nutrition"
	"github.com/2beens/fitprogress/internal/progress/training"
	"github.com/2beens/fitprogress/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestTrainingLogAndEvaluation() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)
	today := time.Now().UTC()

	for i, load := range []float64{60, 62.5, 65} {
		resp := s.doRequest(ctx, t, "POST", "/progress/training/log", token, logs.NewTrainingLog{
			ExerciseID: testExerciseID,
			Date:       today.AddDate(0, 0, -i).Format(pkg.DateLayout),
			Sets:       4,
			Reps:       8,
			Load:       load,
			Effort:     "hard",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		logged := decodeBody[logs.TrainingLoggedResponse](t, resp)
		assert.Positive(t, logged.ID)
		assert.Equal(t, 32*load, logged.Volume)
	}

	// unknown exercise
	resp := s.doRequest(ctx, t, "POST", "/progress/training/log", token, logs.NewTrainingLog{
		ExerciseID: 999,
		Date:       today.Format(pkg.DateLayout),
		Sets:       3,
		Reps:       10,
		Load:       20,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// invalid payload
	resp = s.doRequest(ctx, t, "POST", "/progress/training/log", token, logs.NewTrainingLog{
		ExerciseID: testExerciseID,
		Date:       today.Format(pkg.DateLayout),
		Sets:       0,
		Reps:       10,
		Load:       20,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.doRequest(ctx, t, "GET", "/progress/training/history", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeBody[[]logs.TrainingEntry](t, resp)
	require.GreaterOrEqual(t, len(history), 3)
	assert.Equal(t, "Barbell Squat", history[0].ExerciseName)

	resp = s.doRequest(ctx, t, "GET", "/progress/evaluate/training", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snapshot := decodeBody[evaluation.Snapshot](t, resp)
	assert.Positive(t, snapshot.ID)
	assert.Equal(t, evaluation.KindTraining, snapshot.Kind)
	require.NotNil(t, snapshot.Training)
	assert.Nil(t, snapshot.Nutrition)
	assert.Positive(t, snapshot.Training.Summary.TotalVolume)
	assert.NotEmpty(t, snapshot.Feedback)
	assert.NotNil(t, snapshot.Recommendations)

	resp = s.doRequest(ctx, t, "GET", fmt.Sprintf("/progress/training/exercise/%d/progress", testExerciseID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	progress := decodeBody[training.ExerciseProgress](t, resp)
	assert.Equal(t, testExerciseID, progress.ExerciseID)
	assert.GreaterOrEqual(t, progress.EntriesThisWeek, 3)
	assert.Equal(t, 65.0, progress.CurrentPeak)

	// never logged
	resp = s.doRequest(ctx, t, "GET", "/progress/training/exercise/2/progress", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.Eventually(t, func() bool {
		var count int
		err := s.DB.QueryRow(`SELECT COUNT(*) FROM evaluation WHERE user_id = $1 AND kind = 'TRAINING';`, testUserID).Scan(&count)
		// on demand evaluation + the background ones dispatched after every log
		return err == nil && count >= 4
	}, 10*time.Second, 100*time.Millisecond)
}

func (s *IntegrationTestSuite) TestNutritionLogAndEvaluation() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)
	today := time.Now().UTC().Format(pkg.DateLayout)
	ptr := func(f float64) *float64 { return &f }

	for _, newLog := range []logs.NewNutritionLog{
		{Date: today, Slot: "breakfast", Calories: ptr(550), Protein: ptr(30), Carbs: ptr(60), Fat: ptr(15)},
		{Date: today, Slot: "lunch", Calories: ptr(800), Protein: ptr(45), Carbs: ptr(90), Fat: ptr(25), WaterMl: ptr(500)},
		{Date: today, Slot: "Dinner", Calories: ptr(700), Protein: ptr(40), Carbs: ptr(70), Fat: ptr(22)},
	} {
		resp := s.doRequest(ctx, t, "POST", "/progress/nutrition/log", token, newLog)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		logged := decodeBody[logs.NutritionLoggedResponse](t, resp)
		assert.Positive(t, logged.ID)
	}

	resp := s.doRequest(ctx, t, "POST", "/progress/nutrition/log", token, logs.NewNutritionLog{
		Date: today,
		Slot: "second breakfast",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.doRequest(ctx, t, "GET", "/progress/nutrition/daily-summary?date="+today, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	daily := decodeBody[nutrition.DailySummary](t, resp)
	assert.Equal(t, today, daily.Date)
	assert.Equal(t, 3, daily.Meals)
	assert.Equal(t, 2050.0, daily.Calories)
	assert.Equal(t, 115.0, daily.Protein)
	assert.Len(t, daily.Entries, 3)

	resp = s.doRequest(ctx, t, "GET", "/progress/nutrition/daily-summary?date=yesterday", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.doRequest(ctx, t, "GET", "/progress/evaluate/nutrition", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snapshot := decodeBody[evaluation.Snapshot](t, resp)
	assert.Equal(t, evaluation.KindNutrition, snapshot.Kind)
	require.NotNil(t, snapshot.Nutrition)
	assert.Equal(t, 1, snapshot.Nutrition.Summary.DaysLogged)
	assert.Equal(t, 2200.0, snapshot.Nutrition.Summary.Targets.Calories)
	assert.NotEmpty(t, snapshot.Feedback)

	resp = s.doRequest(ctx, t, "GET", "/progress/evaluate/full", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	full := decodeBody[evaluation.Snapshot](t, resp)
	assert.Equal(t, evaluation.KindCombined, full.Kind)
	assert.NotNil(t, full.Training)
	assert.NotNil(t, full.Nutrition)

	resp = s.doRequest(ctx, t, "GET", "/progress/evaluate/history?limit=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeBody[[]evaluation.Snapshot](t, resp)
	assert.Len(t, history, 2)
	assert.False(t, history[0].CreatedAt.Before(history[1].CreatedAt))

	resp = s.doRequest(ctx, t, "GET", "/progress/evaluate/history?limit=nope", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
