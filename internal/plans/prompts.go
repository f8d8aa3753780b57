package plans

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitprogress/internal/profiles"
	"github.com/2beens/fitprogress/internal/progress/nutrition"
)

const workoutSchemaExample = `{
  "days": [
    {
      "day": "MONDAY",
      "exercises": [
        {
          "name": "Bench press",
          "sets": 4,
          "reps": 10,
          "restSeconds": 90,
          "description": "1. Lie on the bench with your feet flat on the floor. 2. Grip the bar slightly wider than shoulder-width. 3. Lower the bar under control until it touches the chest at nipple height. 4. Press the bar up extending the arms without locking the elbows. 5. Keep the shoulder blades retracted and the chest up the whole time. 6. Breathe in on the way down, breathe out on the way up.",
          "muscleGroup": "Chest"
        }
      ]
    }
  ]
}`

const mealSchemaExample = `{
  "days": [
    {
      "day": "MONDAY",
      "breakfast": {
        "foods": ["Oats with milk", "Banana"],
        "description": "Energising and nutritious breakfast",
        "prepMinutes": 10,
        "servings": 1,
        "difficulty": "EASY",
        "ingredients": [
          {"name": "Oats", "quantity": "50", "unit": "g", "optional": false},
          {"name": "Milk", "quantity": "200", "unit": "ml", "optional": false}
        ],
        "steps": [
          "Warm the milk in a saucepan",
          "Add the oats and cook for 5 minutes",
          "Serve topped with the banana"
        ]
      },
      "midMorning": { ... },
      "lunch": { ... },
      "snack": { ... },
      "dinner": { ... }
    }
  ]
}`

func describeGoal(goal string) string {
	switch goal {
	case profiles.GoalLoseWeight:
		return "Lose weight"
	case profiles.GoalGainMuscle:
		return "Gain muscle"
	case profiles.GoalImproveHealth:
		return "Improve overall health"
	default:
		return "Maintain fitness"
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func optInt(v *int) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", *v)
}

func optFloat(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", *v)
}

// WorkoutPrompt asks for a weekly workout plan tailored to the profile.
func WorkoutPrompt(p *profiles.Profile, now time.Time) string {
	trainingDays := defaultTrainingDays
	if p.TrainingDaysPerWeek != nil {
		trainingDays = *p.TrainingDaysPerWeek
	}
	equipment := p.Equipment
	if strings.TrimSpace(equipment) == "" {
		equipment = "GYM"
	}

	var b strings.Builder
	b.WriteString("You are a professional personal trainer. Create a personalised weekly workout plan.\n\n")
	b.WriteString("USER DATA:\n")
	fmt.Fprintf(&b, "- Gender: %s\n", orUnknown(p.Gender))
	fmt.Fprintf(&b, "- Age: %s years\n", optInt(p.Age(now)))
	fmt.Fprintf(&b, "- Current weight: %s kg\n", optFloat(p.CurrentWeightKg))
	fmt.Fprintf(&b, "- Height: %s cm\n", optFloat(p.HeightCm))
	fmt.Fprintf(&b, "- Primary goal: %s\n", describeGoal(p.PrimaryGoal))
	fmt.Fprintf(&b, "- Fitness level: %s\n", orUnknown(p.FitnessLevel))
	fmt.Fprintf(&b, "- Activity level: %s\n", orUnknown(p.ActivityLevel))
	fmt.Fprintf(&b, "- Training days per week: %d\n", trainingDays)
	fmt.Fprintf(&b, "- Session duration: %s minutes\n", optInt(p.SessionDurationMinutes))
	fmt.Fprintf(&b, "- Available equipment: %s\n", equipment)
	if len(p.Injuries) > 0 {
		fmt.Fprintf(&b, "- Injuries/limitations: %s\n", strings.Join(p.Injuries, ", "))
	}

	b.WriteString("\nRESPOND ONLY WITH VALID JSON, no markdown and no extra text. The format must be:\n")
	b.WriteString(workoutSchemaExample)
	b.WriteString("\n\nABOUT THE DESCRIPTION:\n")
	b.WriteString("- The description must be a DETAILED step by step technique guide (4-6 numbered steps).\n")
	b.WriteString("- Include starting body position, grip, concentric and eccentric movement.\n")
	b.WriteString("- Mention correct breathing (when to inhale and exhale).\n")
	b.WriteString("- Point out common mistakes to avoid and tips for correct form.\n")
	b.WriteString("- Do NOT use generic descriptions like 'Chest exercise'. Be specific.\n")
	fmt.Fprintf(&b, "\nCreate exercises for %d days. ", trainingDays)
	b.WriteString("Use valid week days: MONDAY, TUESDAY, WEDNESDAY, THURSDAY, FRIDAY, SATURDAY, SUNDAY.")

	return b.String()
}

// MealPrompt asks for a seven day meal plan with full recipes.
func MealPrompt(p *profiles.Profile) string {
	targets := nutrition.TargetsFromProfile(p)

	var b strings.Builder
	b.WriteString("You are a professional nutritionist and chef. Create a personalised weekly meal plan with detailed recipes.\n\n")
	b.WriteString("USER DATA:\n")
	fmt.Fprintf(&b, "- Daily calorie target: %.0f kcal\n", targets.Calories)
	fmt.Fprintf(&b, "- Protein target: %.0fg\n", targets.Protein)
	fmt.Fprintf(&b, "- Carbohydrate target: %.0fg\n", targets.Carbs)
	fmt.Fprintf(&b, "- Fat target: %.0fg\n", targets.Fat)
	fmt.Fprintf(&b, "- Diet type: %s\n", orUnknown(p.DietType))
	fmt.Fprintf(&b, "- Meals per day: %s\n", optInt(p.MealsPerDay))
	if len(p.Allergies) > 0 {
		fmt.Fprintf(&b, "- Allergies/intolerances: %s\n", strings.Join(p.Allergies, ", "))
	}
	if len(p.MedicalConditions) > 0 {
		fmt.Fprintf(&b, "- Medical conditions: %s\n", strings.Join(p.MedicalConditions, ", "))
	}

	b.WriteString("\nRESPOND ONLY WITH VALID JSON, no markdown and no extra text. The format must be:\n")
	b.WriteString(mealSchemaExample)
	b.WriteString("\n\nIMPORTANT:\n")
	b.WriteString("- Create meals for 7 days: MONDAY, TUESDAY, WEDNESDAY, THURSDAY, FRIDAY, SATURDAY, SUNDAY.\n")
	b.WriteString("- Every meal (breakfast, midMorning, lunch, snack, dinner) must have ALL the fields of the example.\n")
	b.WriteString("- difficulty can be: EASY, MEDIUM or HARD.\n")
	b.WriteString("- Ingredients must include quantity, unit and whether they are optional.\n")
	b.WriteString("- Preparation steps must be clear and detailed (3-6 steps per recipe).\n")

	return b.String()
}
