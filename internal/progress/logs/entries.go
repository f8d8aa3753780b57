package logs

import (
	"strings"
	"time"
)

type EffortLevel string

const (
	EffortEasy     EffortLevel = "EASY"
	EffortModerate EffortLevel = "MODERATE"
	EffortHard     EffortLevel = "HARD"
	EffortVeryHard EffortLevel = "VERY_HARD"
)

func (e EffortLevel) IsValid() bool {
	switch e {
	case EffortEasy, EffortModerate, EffortHard, EffortVeryHard:
		return true
	}
	return false
}

// ParseEffortLevel is case-insensitive; "very hard" and "very-hard" are accepted too.
func ParseEffortLevel(s string) (EffortLevel, bool) {
	e := EffortLevel(normalizeEnum(s))
	return e, e.IsValid()
}

type MealSlot string

const (
	SlotBreakfast  MealSlot = "BREAKFAST"
	SlotMidMorning MealSlot = "MID_MORNING"
	SlotLunch      MealSlot = "LUNCH"
	SlotSnack      MealSlot = "SNACK"
	SlotDinner     MealSlot = "DINNER"
)

// MealSlots in the order they happen during a day.
var MealSlots = []MealSlot{SlotBreakfast, SlotMidMorning, SlotLunch, SlotSnack, SlotDinner}

func (s MealSlot) IsValid() bool {
	return s.Order() >= 0
}

// Order is the position of the slot within a day, -1 for unknown slots.
func (s MealSlot) Order() int {
	for i, slot := range MealSlots {
		if slot == s {
			return i
		}
	}
	return -1
}

func ParseMealSlot(s string) (MealSlot, bool) {
	slot := MealSlot(normalizeEnum(s))
	return slot, slot.IsValid()
}

func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

type TrainingEntry struct {
	ID              int          `json:"id"`
	UserID          int          `json:"userId"`
	ExerciseID      int          `json:"exerciseId"`
	ExerciseName    string       `json:"exerciseName"`
	MuscleGroup     string       `json:"muscleGroup"`
	Date            time.Time    `json:"date"`
	Sets            int          `json:"sets"`
	Reps            int          `json:"reps"`
	Load            float64      `json:"load"`
	RestSeconds     *int         `json:"restSeconds,omitempty"`
	DurationMinutes *int         `json:"durationMinutes,omitempty"`
	Effort          *EffortLevel `json:"effort,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	Completed       bool         `json:"completed"`
}

// Volume is load × reps × sets.
func (e TrainingEntry) Volume() float64 {
	return e.Load * float64(e.Reps) * float64(e.Sets)
}

type NutritionEntry struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Date        time.Time `json:"date"`
	Slot        MealSlot  `json:"slot"`
	Calories    *float64  `json:"calories,omitempty"`
	Protein     *float64  `json:"protein,omitempty"`
	Carbs       *float64  `json:"carbs,omitempty"`
	Fat         *float64  `json:"fat,omitempty"`
	Fiber       *float64  `json:"fiber,omitempty"`
	WaterMl     *float64  `json:"waterMl,omitempty"`
	Description string    `json:"description,omitempty"`
	Planned     bool      `json:"planned"`
}
