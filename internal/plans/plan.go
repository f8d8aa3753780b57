package plans

import (
	"slices"
	"strings"
	"time"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var Week = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// generated plans may come back with spanish day names
var spanishDays = map[string]DayOfWeek{
	"LUNES":     Monday,
	"MARTES":    Tuesday,
	"MIERCOLES": Wednesday,
	"MIÉRCOLES": Wednesday,
	"JUEVES":    Thursday,
	"VIERNES":   Friday,
	"SABADO":    Saturday,
	"SÁBADO":    Saturday,
	"DOMINGO":   Sunday,
}

func (d DayOfWeek) IsValid() bool {
	return slices.Contains(Week, d)
}

// ParseDayOfWeek accepts english or spanish day names in any case.
func ParseDayOfWeek(s string) (DayOfWeek, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if d, ok := spanishDays[upper]; ok {
		return d, true
	}
	d := DayOfWeek(upper)
	return d, d.IsValid()
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EASY", "FACIL", "FÁCIL":
		return DifficultyEasy, true
	case "MEDIUM", "MEDIA":
		return DifficultyMedium, true
	case "HARD", "DIFICIL", "DIFÍCIL":
		return DifficultyHard, true
	}
	return "", false
}

type Source string

const (
	SourceGenerated Source = "generated"
	SourceTemplate  Source = "template"
)

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Optional bool   `json:"optional"`
}

type Recipe struct {
	Foods       []string     `json:"foods"`
	Description string       `json:"description"`
	PrepMinutes int          `json:"prepMinutes"`
	Servings    int          `json:"servings"`
	Difficulty  Difficulty   `json:"difficulty,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
}

// NewRecipe copies the given slices so the recipe does not share them with the caller.
func NewRecipe(
	foods []string,
	description string,
	prepMinutes, servings int,
	difficulty Difficulty,
	ingredients []Ingredient,
	steps []string,
) Recipe {
	return Recipe{
		Foods:       copyOrEmpty(foods),
		Description: description,
		PrepMinutes: prepMinutes,
		Servings:    servings,
		Difficulty:  difficulty,
		Ingredients: copyOrEmpty(ingredients),
		Steps:       copyOrEmpty(steps),
	}
}

// LegacyRecipe is a recipe known only by its list of foods.
func LegacyRecipe(foods []string) Recipe {
	return NewRecipe(foods, "", 0, 0, "", nil, nil)
}

const (
	DefaultRestSeconds = 60
	DefaultMuscleGroup = "General"
)

type PlannedExercise struct {
	// ExerciseID is set once the exercise is stored.
	ExerciseID  int    `json:"exerciseId,omitempty"`
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"restSeconds"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscleGroup"`
}

// NewPlannedExercise applies defaults for missing rest and muscle group.
func NewPlannedExercise(name string, sets, reps int, restSeconds *int, description, muscleGroup string) PlannedExercise {
	rest := DefaultRestSeconds
	if restSeconds != nil {
		rest = *restSeconds
	}
	if strings.TrimSpace(muscleGroup) == "" {
		muscleGroup = DefaultMuscleGroup
	}
	return PlannedExercise{
		Name:        strings.TrimSpace(name),
		Sets:        sets,
		Reps:        reps,
		RestSeconds: rest,
		Description: description,
		MuscleGroup: muscleGroup,
	}
}

type WorkoutDay struct {
	Day       DayOfWeek         `json:"day"`
	Exercises []PlannedExercise `json:"exercises"`
}

func NewWorkoutDay(day DayOfWeek, exercises []PlannedExercise) WorkoutDay {
	return WorkoutDay{
		Day:       day,
		Exercises: copyOrEmpty(exercises),
	}
}

type WorkoutPlan struct {
	ID        int          `json:"id"`
	UserID    int          `json:"userId"`
	StartsOn  time.Time    `json:"startsOn"`
	Source    Source       `json:"source"`
	Days      []WorkoutDay `json:"days"`
	CreatedAt time.Time    `json:"createdAt"`
}

type MealDay struct {
	Day        DayOfWeek `json:"day"`
	Breakfast  Recipe    `json:"breakfast"`
	MidMorning Recipe    `json:"midMorning"`
	Lunch      Recipe    `json:"lunch"`
	Snack      Recipe    `json:"snack"`
	Dinner     Recipe    `json:"dinner"`
}

type MealPlan struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	StartsOn  time.Time `json:"startsOn"`
	Source    Source    `json:"source"`
	Days      []MealDay `json:"days"`
	CreatedAt time.Time `json:"createdAt"`
}

func copyOrEmpty[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
