package profiles

import "time"

const (
	GoalLoseWeight    = "LOSE_WEIGHT"
	GoalGainMuscle    = "GAIN_MUSCLE"
	GoalMaintain      = "MAINTAIN"
	GoalImproveHealth = "IMPROVE_HEALTH"
)

// Profile is read-only for this service; it is owned by the user-facing app.
type Profile struct {
	UserID                 int        `json:"userId"`
	Username               string     `json:"username"`
	Gender                 string     `json:"gender,omitempty"`
	BirthDate              *time.Time `json:"birthDate,omitempty"`
	CurrentWeightKg        *float64   `json:"currentWeightKg,omitempty"`
	HeightCm               *float64   `json:"heightCm,omitempty"`
	PrimaryGoal            string     `json:"primaryGoal,omitempty"`
	FitnessLevel           string     `json:"fitnessLevel,omitempty"`
	ActivityLevel          string     `json:"activityLevel,omitempty"`
	TrainingDaysPerWeek    *int       `json:"trainingDaysPerWeek,omitempty"`
	SessionDurationMinutes *int       `json:"sessionDurationMinutes,omitempty"`
	Equipment              string     `json:"equipment,omitempty"`
	Injuries               []string   `json:"injuries,omitempty"`
	Allergies              []string   `json:"allergies,omitempty"`
	MedicalConditions      []string   `json:"medicalConditions,omitempty"`
	DietType               string     `json:"dietType,omitempty"`
	MealsPerDay            *int       `json:"mealsPerDay,omitempty"`
	TargetCalories         *float64   `json:"targetCalories,omitempty"`
	TargetProtein          *float64   `json:"targetProtein,omitempty"`
	TargetCarbs            *float64   `json:"targetCarbs,omitempty"`
	TargetFat              *float64   `json:"targetFat,omitempty"`
}

// Age in full years at the given moment, nil when the birth date is unknown.
func (p *Profile) Age(at time.Time) *int {
	if p.BirthDate == nil {
		return nil
	}
	b := *p.BirthDate
	age := at.Year() - b.Year()
	if at.Month() < b.Month() || (at.Month() == b.Month() && at.Day() < b.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return &age
}
