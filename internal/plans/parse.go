package plans

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrNoDays is returned when a generated plan parses but holds no usable day.
var ErrNoDays = errors.New("generated plan has no valid days")

// looseInt accepts numbers and numeric strings; anything else reads as 0.
type looseInt int

func (i *looseInt) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*i = looseInt(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(s)
		end := 0
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if n, err := strconv.Atoi(s[:end]); err == nil {
			*i = looseInt(n)
			return nil
		}
	}
	*i = 0
	return nil
}

// looseString keeps a quantity like "50" or 50 as text.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	*s = looseString(strings.TrimSpace(string(b)))
	return nil
}

type generatedExercise struct {
	Name        string    `json:"name"`
	Nombre      string    `json:"nombre"`
	Sets        *looseInt `json:"sets"`
	Series      *looseInt `json:"series"`
	Reps        *looseInt `json:"reps"`
	Repetitions *looseInt `json:"repeticiones"`
	RestSeconds *looseInt `json:"restSeconds"`
	Descanso    *looseInt `json:"descansoSegundos"`
	Description string    `json:"description"`
	Descripcion string    `json:"descripcion"`
	MuscleGroup string    `json:"muscleGroup"`
	Grupo       string    `json:"grupoMuscular"`
}

type generatedWorkoutDay struct {
	Day        string              `json:"day"`
	DiaSemana  string              `json:"diaSemana"`
	Exercises  []generatedExercise `json:"exercises"`
	Ejercicios []generatedExercise `json:"ejercicios"`
}

type generatedWorkoutPlan struct {
	Days []generatedWorkoutDay `json:"days"`
	Dias []generatedWorkoutDay `json:"dias"`
}

// ParseWorkoutDays reads a generated workout plan. Days with an unknown name and
// exercises without a name are skipped.
func ParseWorkoutDays(content string) ([]WorkoutDay, error) {
	var generated generatedWorkoutPlan
	if err := json.Unmarshal([]byte(content), &generated); err != nil {
		return nil, fmt.Errorf("unmarshal workout plan: %w", err)
	}

	var days []WorkoutDay
	for _, gd := range firstNonEmpty(generated.Days, generated.Dias) {
		dayName := firstNonBlank(gd.Day, gd.DiaSemana)
		day, ok := ParseDayOfWeek(dayName)
		if !ok {
			log.Warnf("generated workout plan: skipping unknown day [%s]", dayName)
			continue
		}

		var exercises []PlannedExercise
		for _, ge := range firstNonEmpty(gd.Exercises, gd.Ejercicios) {
			name := firstNonBlank(ge.Name, ge.Nombre)
			if name == "" {
				continue
			}
			exercises = append(exercises, NewPlannedExercise(
				name,
				intOr(firstNonNil(ge.Sets, ge.Series), 0),
				intOr(firstNonNil(ge.Reps, ge.Repetitions), 0),
				intPtr(firstNonNil(ge.RestSeconds, ge.Descanso)),
				firstNonBlank(ge.Description, ge.Descripcion),
				firstNonBlank(ge.MuscleGroup, ge.Grupo),
			))
		}
		days = append(days, NewWorkoutDay(day, exercises))
	}

	if len(days) == 0 {
		return nil, ErrNoDays
	}
	return days, nil
}

type generatedIngredient struct {
	Name     string      `json:"name"`
	Nombre   string      `json:"nombre"`
	Quantity looseString `json:"quantity"`
	Cantidad looseString `json:"cantidad"`
	Unit     string      `json:"unit"`
	Unidad   string      `json:"unidad"`
	Optional bool        `json:"optional"`
	Opcional bool        `json:"opcional"`
}

type generatedRecipe struct {
	Foods        []string              `json:"foods"`
	Alimentos    []string              `json:"alimentos"`
	Description  string                `json:"description"`
	Descripcion  string                `json:"descripcion"`
	PrepMinutes  looseInt              `json:"prepMinutes"`
	Tiempo       looseInt              `json:"tiempoPreparacionMinutos"`
	Servings     looseInt              `json:"servings"`
	Porciones    looseInt              `json:"porciones"`
	Difficulty   string                `json:"difficulty"`
	Dificultad   string                `json:"dificultad"`
	Ingredients  []generatedIngredient `json:"ingredients"`
	Ingredientes []generatedIngredient `json:"ingredientes"`
	Steps        []string              `json:"steps"`
	Pasos        []string              `json:"pasosPreparacion"`
}

type generatedMealDay struct {
	Day        string          `json:"day"`
	DiaSemana  string          `json:"diaSemana"`
	Breakfast  json.RawMessage `json:"breakfast"`
	Desayuno   json.RawMessage `json:"desayuno"`
	MidMorning json.RawMessage `json:"midMorning"`
	Almuerzo   json.RawMessage `json:"almuerzo"`
	Lunch      json.RawMessage `json:"lunch"`
	Comida     json.RawMessage `json:"comida"`
	Snack      json.RawMessage `json:"snack"`
	Merienda   json.RawMessage `json:"merienda"`
	Dinner     json.RawMessage `json:"dinner"`
	Cena       json.RawMessage `json:"cena"`
}

type generatedMealPlan struct {
	Days []generatedMealDay `json:"days"`
	Dias []generatedMealDay `json:"dias"`
}

// ParseMealDays reads a generated meal plan. A slot is either a recipe object
// or a bare list of foods.
func ParseMealDays(content string) ([]MealDay, error) {
	var generated generatedMealPlan
	if err := json.Unmarshal([]byte(content), &generated); err != nil {
		return nil, fmt.Errorf("unmarshal meal plan: %w", err)
	}

	var days []MealDay
	for _, gd := range firstNonEmpty(generated.Days, generated.Dias) {
		dayName := firstNonBlank(gd.Day, gd.DiaSemana)
		day, ok := ParseDayOfWeek(dayName)
		if !ok {
			log.Warnf("generated meal plan: skipping unknown day [%s]", dayName)
			continue
		}

		days = append(days, MealDay{
			Day:        day,
			Breakfast:  parseSlot(day, "breakfast", gd.Breakfast, gd.Desayuno),
			MidMorning: parseSlot(day, "midMorning", gd.MidMorning, gd.Almuerzo),
			Lunch:      parseSlot(day, "lunch", gd.Lunch, gd.Comida),
			Snack:      parseSlot(day, "snack", gd.Snack, gd.Merienda),
			Dinner:     parseSlot(day, "dinner", gd.Dinner, gd.Cena),
		})
	}

	if len(days) == 0 {
		return nil, ErrNoDays
	}
	return days, nil
}

func parseSlot(day DayOfWeek, slot string, english, spanish json.RawMessage) Recipe {
	raw := bytes.TrimSpace(english)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = bytes.TrimSpace(spanish)
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return LegacyRecipe(nil)
	}

	recipe, err := parseRecipe(raw)
	if err != nil {
		log.Warnf("generated meal plan: %s %s: %s", day, slot, err)
		return LegacyRecipe(nil)
	}
	return recipe
}

func parseRecipe(raw []byte) (Recipe, error) {
	switch raw[0] {
	case '[':
		var foods []string
		if err := json.Unmarshal(raw, &foods); err != nil {
			return Recipe{}, fmt.Errorf("unmarshal food list: %w", err)
		}
		return LegacyRecipe(foods), nil
	case '{':
		var gr generatedRecipe
		if err := json.Unmarshal(raw, &gr); err != nil {
			return Recipe{}, fmt.Errorf("unmarshal recipe: %w", err)
		}

		var ingredients []Ingredient
		for _, gi := range firstNonEmpty(gr.Ingredients, gr.Ingredientes) {
			ingredients = append(ingredients, Ingredient{
				Name:     firstNonBlank(gi.Name, gi.Nombre),
				Quantity: firstNonBlank(string(gi.Quantity), string(gi.Cantidad)),
				Unit:     firstNonBlank(gi.Unit, gi.Unidad),
				Optional: gi.Optional || gi.Opcional,
			})
		}

		// an unknown difficulty is dropped, the rest of the recipe is still usable
		difficulty, _ := ParseDifficulty(firstNonBlank(gr.Difficulty, gr.Dificultad))

		return NewRecipe(
			firstNonEmpty(gr.Foods, gr.Alimentos),
			firstNonBlank(gr.Description, gr.Descripcion),
			int(max(gr.PrepMinutes, gr.Tiempo)),
			int(max(gr.Servings, gr.Porciones)),
			difficulty,
			ingredients,
			firstNonEmpty(gr.Steps, gr.Pasos),
		), nil
	}
	return Recipe{}, fmt.Errorf("unexpected recipe shape starting with %q", raw[0])
}

func firstNonEmpty[T any](a, b []T) []T {
	if len(a) > 0 {
		return a
	}
	return b
}

func firstNonBlank(a, b string) string {
	if s := strings.TrimSpace(a); s != "" {
		return s
	}
	return strings.TrimSpace(b)
}

func firstNonNil(a, b *looseInt) *looseInt {
	if a != nil {
		return a
	}
	return b
}

func intOr(v *looseInt, def int) int {
	if v == nil {
		return def
	}
	return int(*v)
}

func intPtr(v *looseInt) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
