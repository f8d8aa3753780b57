package logs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/fitprogress/pkg"
)

var ErrValidation = errors.New("validation failed")

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewTrainingLog is the write model of a single performed exercise.
type NewTrainingLog struct {
	ExerciseID      int     `json:"exerciseId"`
	Date            string  `json:"date"`
	Sets            int     `json:"sets"`
	Reps            int     `json:"reps"`
	Load            float64 `json:"load"`
	RestSeconds     *int    `json:"restSeconds,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Effort          string  `json:"effort,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	Completed       *bool   `json:"completed,omitempty"`
}

func (l NewTrainingLog) Entry(userID int) (TrainingEntry, error) {
	if l.ExerciseID <= 0 {
		return TrainingEntry{}, validationErr("exerciseId must be positive")
	}
	if strings.TrimSpace(l.Date) == "" {
		return TrainingEntry{}, validationErr("date is required")
	}
	date, err := pkg.ParseDay(l.Date)
	if err != nil {
		return TrainingEntry{}, validationErr("date must be YYYY-MM-DD")
	}
	if l.Sets <= 0 {
		return TrainingEntry{}, validationErr("sets must be positive")
	}
	if l.Reps <= 0 {
		return TrainingEntry{}, validationErr("reps must be positive")
	}
	if l.Load < 0 {
		return TrainingEntry{}, validationErr("load must not be negative")
	}
	if l.RestSeconds != nil && *l.RestSeconds < 0 {
		return TrainingEntry{}, validationErr("restSeconds must not be negative")
	}
	if l.DurationMinutes != nil && *l.DurationMinutes < 0 {
		return TrainingEntry{}, validationErr("durationMinutes must not be negative")
	}

	var effort *EffortLevel
	if l.Effort != "" {
		e, ok := ParseEffortLevel(l.Effort)
		if !ok {
			return TrainingEntry{}, validationErr("invalid effort level %q", l.Effort)
		}
		effort = &e
	}

	completed := true
	if l.Completed != nil {
		completed = *l.Completed
	}

	return TrainingEntry{
		UserID:          userID,
		ExerciseID:      l.ExerciseID,
		Date:            date,
		Sets:            l.Sets,
		Reps:            l.Reps,
		Load:            l.Load,
		RestSeconds:     l.RestSeconds,
		DurationMinutes: l.DurationMinutes,
		Effort:          effort,
		Notes:           strings.TrimSpace(l.Notes),
		Completed:       completed,
	}, nil
}

// NewNutritionLog is the write model of a single meal.
type NewNutritionLog struct {
	Date        string   `json:"date"`
	Slot        string   `json:"slot"`
	Calories    *float64 `json:"calories,omitempty"`
	Protein     *float64 `json:"protein,omitempty"`
	Carbs       *float64 `json:"carbs,omitempty"`
	Fat         *float64 `json:"fat,omitempty"`
	Fiber       *float64 `json:"fiber,omitempty"`
	WaterMl     *float64 `json:"waterMl,omitempty"`
	Description string   `json:"description,omitempty"`
	Planned     bool     `json:"planned"`
}

func (l NewNutritionLog) Entry(userID int) (NutritionEntry, error) {
	if strings.TrimSpace(l.Date) == "" {
		return NutritionEntry{}, validationErr("date is required")
	}
	date, err := pkg.ParseDay(l.Date)
	if err != nil {
		return NutritionEntry{}, validationErr("date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(l.Slot) == "" {
		return NutritionEntry{}, validationErr("slot is required")
	}
	slot, ok := ParseMealSlot(l.Slot)
	if !ok {
		return NutritionEntry{}, validationErr("invalid meal slot %q", l.Slot)
	}

	macros := []struct {
		name string
		val  *float64
	}{
		{"calories", l.Calories},
		{"protein", l.Protein},
		{"carbs", l.Carbs},
		{"fat", l.Fat},
		{"fiber", l.Fiber},
		{"waterMl", l.WaterMl},
	}
	for _, m := range macros {
		if m.val != nil && *m.val < 0 {
			return NutritionEntry{}, validationErr("%s must not be negative", m.name)
		}
	}

	return NutritionEntry{
		UserID:      userID,
		Date:        date,
		Slot:        slot,
		Calories:    l.Calories,
		Protein:     l.Protein,
		Carbs:       l.Carbs,
		Fat:         l.Fat,
		Fiber:       l.Fiber,
		WaterMl:     l.WaterMl,
		Description: strings.TrimSpace(l.Description),
		Planned:     l.Planned,
	}, nil
}
