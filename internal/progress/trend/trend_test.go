package trend

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestFromImprovement(t *testing.T) {
	assert.Equal(t, Improving, FromImprovement(11.11))
	assert.Equal(t, Improving, FromImprovement(1.01))
	assert.Equal(t, Stable, FromImprovement(1))
	assert.Equal(t, Stable, FromImprovement(0))
	assert.Equal(t, Stable, FromImprovement(-1))
	assert.Equal(t, Declining, FromImprovement(-1.01))
}

func TestTraining(t *testing.T) {
	assert.Equal(t, Plateau, Training(25, true))
	assert.Equal(t, Improving, Training(25, false))
	assert.Equal(t, Declining, Training(-5, false))
}

func TestNutrition(t *testing.T) {
	assert.Equal(t, Improving, Nutrition(85, 80))
	assert.Equal(t, Stable, Nutrition(85, 79.9))
	assert.Equal(t, Stable, Nutrition(10, 70))
	assert.Equal(t, Stable, Nutrition(70, 0))
	assert.Equal(t, Declining, Nutrition(69.9, 69.9))
}

func TestNutrition_AlwaysValid(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 500; i++ {
		tr := Nutrition(faker.Float64Range(0, 100), faker.Float64Range(0, 100))
		assert.True(t, tr.IsValid())
		assert.NotEqual(t, Plateau, tr)
	}
}

func TestDetectPlateau(t *testing.T) {
	testCases := []struct {
		name     string
		prior    []Prior
		expected bool
	}{
		{
			name:     "none",
			prior:    nil,
			expected: false,
		},
		{
			name:     "twoStable",
			prior:    []Prior{{Trend: Stable}, {Trend: Stable}},
			expected: false,
		},
		{
			name:     "threeStable",
			prior:    []Prior{{Trend: Stable}, {Trend: Stable}, {Trend: Stable}},
			expected: true,
		},
		{
			name: "lowImprovements",
			prior: []Prior{
				{Trend: Improving, ImprovementPct: ptr(0.5)},
				{Trend: Declining, ImprovementPct: ptr(-3)},
				{Trend: Stable, ImprovementPct: ptr(0)},
			},
			expected: true,
		},
		{
			name: "oneRealImprovement",
			prior: []Prior{
				{Trend: Stable},
				{Trend: Improving, ImprovementPct: ptr(4)},
				{Trend: Stable},
			},
			expected: false,
		},
		{
			name: "improvingWithoutPct",
			prior: []Prior{
				{Trend: Stable},
				{Trend: Stable},
				{Trend: Improving},
			},
			expected: false,
		},
		{
			name: "onlyNewestThreeCount",
			prior: []Prior{
				{Trend: Stable},
				{Trend: Stable},
				{Trend: Stable},
				{Trend: Improving, ImprovementPct: ptr(20)},
			},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectPlateau(tc.prior))
		})
	}
}
