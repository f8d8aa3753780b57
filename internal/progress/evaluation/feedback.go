package evaluation

import (
	"fmt"
	"strings"

	"github.com/2beens/fitprogress/internal/profiles"
	"github.com/2beens/fitprogress/internal/progress/nutrition"
	"github.com/2beens/fitprogress/internal/progress/training"
	"github.com/2beens/fitprogress/internal/progress/trend"
)

const (
	feedbackSourceModel   = "model"
	feedbackSourceDefault = "default"

	goodConsistencyPct = 80.0
	lowAdherencePct    = 70.0
)

// DefaultTrainingFeedback is used whenever no model produced feedback.
func DefaultTrainingFeedback(s training.Summary, t trend.Trend) string {
	var b strings.Builder

	switch {
	case s.ConsistencyPct >= goodConsistencyPct:
		fmt.Fprintf(&b, "Excellent consistency this week, completing %d of %d planned workouts. ", s.Completed, s.Planned)
	case s.Completed > 0:
		fmt.Fprintf(&b, "You completed %d workouts this week. ", s.Completed)
	default:
		b.WriteString("No workouts were logged this week. ")
	}

	switch t {
	case trend.Improving:
		fmt.Fprintf(&b, "Your training volume increased by %.1f%%, which shows good progression. ", s.ImprovementPct)
	case trend.Stable:
		b.WriteString("Your performance is holding steady. ")
	case trend.Declining:
		b.WriteString("A slight decline in performance was detected. ")
	case trend.Plateau:
		b.WriteString("A stall in your progress was detected. ")
	}

	switch {
	case t == trend.Plateau:
		b.WriteString("Consider varying your exercises or adjusting reps/sets to break through this plateau.")
	case s.ConsistencyPct < lowAdherencePct:
		b.WriteString("Try to be more consistent next week to get the most out of your training.")
	default:
		b.WriteString("Keep up the good work and consider gradually increasing the intensity.")
	}

	return b.String()
}

func DefaultNutritionFeedback(s nutrition.Summary, t trend.Trend) string {
	if s.HasPattern(nutrition.PatternInsufficientData) {
		return "Not enough nutrition data was logged this week to evaluate your diet. " +
			"Log your meals every day to get a useful evaluation."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This week you averaged %.0f calories per day", s.AvgCalories)
	if s.Targets.Calories > 0 {
		fmt.Fprintf(&b, " of your %.0f kcal target", s.Targets.Calories)
	}
	b.WriteString(". ")

	switch t {
	case trend.Improving:
		b.WriteString("Your diet is well aligned with your targets. ")
	case trend.Stable:
		b.WriteString("Your diet is reasonably close to your targets. ")
	case trend.Declining:
		b.WriteString("Your diet is drifting away from your targets. ")
	}

	for _, p := range s.Patterns {
		switch p {
		case nutrition.PatternLowIntakeFrequent:
			b.WriteString("Your intake is often below target. ")
		case nutrition.PatternOverIntakeFrequent:
			b.WriteString("Your calorie intake exceeds the target on several days. ")
		case nutrition.PatternProteinInsufficient:
			b.WriteString("Protein intake is below the recommended level. ")
		case nutrition.PatternLowHydration:
			b.WriteString("Hydration is insufficient. ")
		}
	}

	switch {
	case s.ProteinAdherence < lowAdherencePct:
		b.WriteString("Try adding more protein sources such as chicken, fish, legumes or eggs.")
	case s.CalorieAdherence < lowAdherencePct:
		b.WriteString("Adjust your portions to get closer to your calorie target.")
	default:
		b.WriteString("Keep these eating habits and keep logging your meals.")
	}

	return b.String()
}

func describeGoal(goal string) string {
	switch goal {
	case profiles.GoalLoseWeight:
		return "lose weight"
	case profiles.GoalGainMuscle:
		return "gain muscle mass"
	case profiles.GoalImproveHealth:
		return "improve overall health"
	default:
		return "maintain current fitness"
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func TrainingFeedbackPrompt(s training.Summary, t trend.Trend, p *profiles.Profile) string {
	var b strings.Builder
	b.WriteString("You are an expert personal trainer. Generate brief personalised feedback (at most 3 short paragraphs) ")
	b.WriteString("about the user's training progress this week.\n\n")

	b.WriteString("WEEKLY DATA:\n")
	fmt.Fprintf(&b, "- Total volume: %.1f kg\n", s.TotalVolume)
	fmt.Fprintf(&b, "- Improvement versus the previous week: %.1f%%\n", s.ImprovementPct)
	fmt.Fprintf(&b, "- Workouts completed: %d of %d planned\n", s.Completed, s.Planned)
	fmt.Fprintf(&b, "- Consistency: %.1f%%\n", s.ConsistencyPct)
	fmt.Fprintf(&b, "- Trend: %s\n", t)
	if t == trend.Plateau {
		fmt.Fprintf(&b, "- ALERT: %s\n", trend.PlateauMessage)
	}
	for _, e := range s.TopExercises {
		fmt.Fprintf(&b, "- %s: %.1f%% (%s)\n", e.ExerciseName, e.ImprovementPct, e.Trend)
	}

	b.WriteString("\nUSER PROFILE:\n")
	if p != nil {
		fmt.Fprintf(&b, "- Goal: %s\n", describeGoal(p.PrimaryGoal))
		fmt.Fprintf(&b, "- Fitness level: %s\n", orDefault(p.FitnessLevel, "INTERMEDIATE"))
	}

	b.WriteString("\nThe feedback must:\n")
	b.WriteString("1. Acknowledge the achievements (if any)\n")
	b.WriteString("2. Point out one relevant observation\n")
	b.WriteString("3. Give one concrete, actionable recommendation\n")
	if t == trend.Plateau {
		b.WriteString("\nA plateau was detected. Suggest strategies to break it: vary reps/sets, change exercises or take a deload week.\n")
	}
	b.WriteString("\nAnswer directly in plain text, no JSON.")
	return b.String()
}

func NutritionFeedbackPrompt(s nutrition.Summary, t trend.Trend, p *profiles.Profile) string {
	var b strings.Builder
	b.WriteString("You are an expert nutritionist. Generate brief personalised feedback (at most 3 short paragraphs) ")
	b.WriteString("about the user's eating this week.\n\n")

	b.WriteString("WEEKLY DATA:\n")
	fmt.Fprintf(&b, "- Days logged: %d\n", s.DaysLogged)
	fmt.Fprintf(&b, "- Average calories: %.0f kcal (target %.0f)\n", s.AvgCalories, s.Targets.Calories)
	fmt.Fprintf(&b, "- Calorie adherence: %.1f%%\n", s.CalorieAdherence)
	fmt.Fprintf(&b, "- Average protein: %.1f g (target %.0f)\n", s.AvgProtein, s.Targets.Protein)
	fmt.Fprintf(&b, "- Protein adherence: %.1f%%\n", s.ProteinAdherence)
	fmt.Fprintf(&b, "- Trend: %s\n", t)
	if len(s.Patterns) > 0 {
		patterns := make([]string, 0, len(s.Patterns))
		for _, pt := range s.Patterns {
			patterns = append(patterns, string(pt))
		}
		fmt.Fprintf(&b, "- Detected patterns: %s\n", strings.Join(patterns, ", "))
	}

	b.WriteString("\nUSER PROFILE:\n")
	if p != nil {
		fmt.Fprintf(&b, "- Goal: %s\n", describeGoal(p.PrimaryGoal))
		fmt.Fprintf(&b, "- Diet type: %s\n", orDefault(p.DietType, "REGULAR"))
	}

	b.WriteString("\nThe feedback must:\n")
	b.WriteString("1. Acknowledge the positive habits\n")
	b.WriteString("2. Point out the detected patterns\n")
	b.WriteString("3. Give concrete, practical recommendations\n")
	if s.HasPattern(nutrition.PatternLowIntakeFrequent) {
		b.WriteString("- Suggest healthy snacks to reach the calorie target\n")
	}
	if s.HasPattern(nutrition.PatternOverIntakeFrequent) {
		b.WriteString("- Suggest portion control strategies\n")
	}
	if s.HasPattern(nutrition.PatternProteinInsufficient) {
		b.WriteString("- Suggest protein sources that fit the diet type\n")
	}
	if s.HasPattern(nutrition.PatternLowHydration) {
		b.WriteString("- Remind the user to drink more water\n")
	}
	b.WriteString("\nAnswer directly in plain text, no JSON.")
	return b.String()
}
