package nutrition

import (
	"time"

	"github.com/2beens/fitprogress/internal/profiles"
	"github.com/2beens/fitprogress/internal/progress/logs"
	"github.com/2beens/fitprogress/pkg"
)

type Pattern string

const (
	PatternInsufficientData    Pattern = "INSUFFICIENT_DATA"
	PatternLowIntakeFrequent   Pattern = "LOW_INTAKE_FREQUENT"
	PatternOverIntakeFrequent  Pattern = "OVER_INTAKE_FREQUENT"
	PatternProteinInsufficient Pattern = "PROTEIN_INSUFFICIENT"
	PatternLowHydration        Pattern = "LOW_HYDRATION"
)

const (
	DefaultCalories = 2000.0
	DefaultProtein  = 100.0
	DefaultCarbs    = 250.0
	DefaultFat      = 65.0

	lowIntakeRatio  = 0.8
	overIntakeRatio = 1.2
	lowProteinRatio = 0.7
	minDailyWaterMl = 1500.0
)

type Targets struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// TargetsFromProfile fills the targets the profile does not define with defaults.
func TargetsFromProfile(p *profiles.Profile) Targets {
	t := Targets{
		Calories: DefaultCalories,
		Protein:  DefaultProtein,
		Carbs:    DefaultCarbs,
		Fat:      DefaultFat,
	}
	if p == nil {
		return t
	}
	if p.TargetCalories != nil {
		t.Calories = *p.TargetCalories
	}
	if p.TargetProtein != nil {
		t.Protein = *p.TargetProtein
	}
	if p.TargetCarbs != nil {
		t.Carbs = *p.TargetCarbs
	}
	if p.TargetFat != nil {
		t.Fat = *p.TargetFat
	}
	return t
}

type Summary struct {
	DaysLogged       int       `json:"daysLogged"`
	AvgCalories      float64   `json:"avgCalories"`
	CalorieAdherence float64   `json:"calorieAdherence"`
	AvgProtein       float64   `json:"avgProtein"`
	ProteinAdherence float64   `json:"proteinAdherence"`
	AvgCarbs         float64   `json:"avgCarbs"`
	AvgFat           float64   `json:"avgFat"`
	AvgWaterMl       float64   `json:"avgWaterMl"`
	Targets          Targets   `json:"targets"`
	Patterns         []Pattern `json:"patterns"`
}

func (s Summary) HasPattern(p Pattern) bool {
	for _, sp := range s.Patterns {
		if sp == p {
			return true
		}
	}
	return false
}

// Aggregate computes daily averages of the given entries against the targets.
func Aggregate(entries []logs.NutritionEntry, targets Targets) Summary {
	if len(entries) == 0 {
		return Summary{
			Targets:  targets,
			Patterns: []Pattern{PatternInsufficientData},
		}
	}

	days := max(1, distinctDays(entries))
	totals := sumMacros(entries)

	avgCalories := totals.calories / float64(days)
	avgProtein := totals.protein / float64(days)
	avgWater := totals.water / float64(days)

	var calorieAdherence, proteinAdherence float64
	if targets.Calories > 0 {
		calorieAdherence = max(0, 100-abs((avgCalories-targets.Calories)/targets.Calories*100))
	}
	if targets.Protein > 0 {
		proteinAdherence = min(100, avgProtein/targets.Protein*100)
	}

	return Summary{
		DaysLogged:       days,
		AvgCalories:      pkg.Round(avgCalories, 0),
		CalorieAdherence: pkg.Round(calorieAdherence, 1),
		AvgProtein:       pkg.Round(avgProtein, 1),
		ProteinAdherence: pkg.Round(proteinAdherence, 1),
		AvgCarbs:         pkg.Round(totals.carbs/float64(days), 1),
		AvgFat:           pkg.Round(totals.fat/float64(days), 1),
		AvgWaterMl:       pkg.Round(avgWater, 0),
		Targets:          targets,
		Patterns:         detectPatterns(entries, targets, avgProtein, avgWater),
	}
}

// detectPatterns looks at calories per logged day and at the daily protein and water averages.
func detectPatterns(entries []logs.NutritionEntry, targets Targets, avgProtein, avgWater float64) []Pattern {
	caloriesPerDay := make(map[time.Time]float64)
	for _, e := range entries {
		if e.Calories != nil {
			caloriesPerDay[pkg.Day(e.Date)] += *e.Calories
		}
	}

	var under, over int
	for _, kcal := range caloriesPerDay {
		if kcal < targets.Calories*lowIntakeRatio {
			under++
		}
		if kcal > targets.Calories*overIntakeRatio {
			over++
		}
	}

	patterns := []Pattern{}
	daysWithCalories := len(caloriesPerDay)
	if 2*under > daysWithCalories {
		patterns = append(patterns, PatternLowIntakeFrequent)
	}
	if 2*over > daysWithCalories {
		patterns = append(patterns, PatternOverIntakeFrequent)
	}
	if avgProtein < targets.Protein*lowProteinRatio {
		patterns = append(patterns, PatternProteinInsufficient)
	}
	if avgWater < minDailyWaterMl {
		patterns = append(patterns, PatternLowHydration)
	}
	return patterns
}

type macroTotals struct {
	calories float64
	protein  float64
	carbs    float64
	fat      float64
	fiber    float64
	water    float64
}

func sumMacros(entries []logs.NutritionEntry) macroTotals {
	var t macroTotals
	for _, e := range entries {
		t.calories += valueOf(e.Calories)
		t.protein += valueOf(e.Protein)
		t.carbs += valueOf(e.Carbs)
		t.fat += valueOf(e.Fat)
		t.fiber += valueOf(e.Fiber)
		t.water += valueOf(e.WaterMl)
	}
	return t
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func distinctDays(entries []logs.NutritionEntry) int {
	days := make(map[time.Time]struct{}, len(entries))
	for _, e := range entries {
		days[pkg.Day(e.Date)] = struct{}{}
	}
	return len(days)
}
