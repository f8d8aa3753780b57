package plans

const defaultTrainingDays = 3

// templateWorkoutDays spreads sessions so that consecutive ones get a rest day when possible.
var templateWorkoutDays = []DayOfWeek{Monday, Wednesday, Friday, Tuesday, Thursday, Saturday}

func intRef(i int) *int { return &i }

func templateExercises() []PlannedExercise {
	return []PlannedExercise{
		NewPlannedExercise("Squats", 3, 12, intRef(60),
			"1. Stand with your feet shoulder-width apart, toes slightly turned out. "+
				"2. Keep your back straight and chest up throughout the movement. "+
				"3. Bend your knees and hips as if sitting down until your thighs are parallel to the floor. "+
				"4. Keep your knees tracking over your feet without passing your toes. "+
				"5. Push through your heels to return to the starting position. "+
				"6. Breathe in on the way down, breathe out on the way up.",
			"Legs"),
		NewPlannedExercise("Push-ups", 3, 10, intRef(60),
			"1. Place your hands on the floor slightly wider than shoulder-width. "+
				"2. Extend your legs back keeping the body in a straight line from head to heels. "+
				"3. Brace your core so the hips neither sag nor rise. "+
				"4. Lower your body by bending the elbows until the chest almost touches the floor. "+
				"5. Push back up until the arms are fully extended. "+
				"6. Breathe in on the way down, breathe out on the way up. Avoid arching the lower back.",
			"Chest"),
		NewPlannedExercise("Plank", 3, 30, intRef(45),
			"1. Rest your forearms on the floor with the elbows directly under the shoulders. "+
				"2. Extend your legs back, resting on the balls of your feet. "+
				"3. Keep the body completely straight from head to heels. "+
				"4. Tighten your abs as if bracing for a punch to the stomach. "+
				"5. Do not let the hips rise or drop, hold a neutral position. "+
				"6. Breathe steadily for the whole set without holding your breath.",
			"Core"),
	}
}

// TemplateWorkoutDays is the plan used when no usable plan can be generated.
// It holds min(trainingDays, 6) days, trainingDays defaulting to 3.
func TemplateWorkoutDays(trainingDays *int) []WorkoutDay {
	count := defaultTrainingDays
	if trainingDays != nil {
		count = *trainingDays
	}
	count = max(0, min(count, len(templateWorkoutDays)))

	days := make([]WorkoutDay, 0, count)
	for _, day := range templateWorkoutDays[:count] {
		days = append(days, NewWorkoutDay(day, templateExercises()))
	}
	return days
}

func templateBreakfast() Recipe {
	return NewRecipe(
		[]string{"Oats with milk", "Banana", "Honey"},
		"Energising breakfast with complex carbohydrates and fruit",
		10, 1, DifficultyEasy,
		[]Ingredient{
			{Name: "Oats", Quantity: "50", Unit: "g"},
			{Name: "Milk", Quantity: "200", Unit: "ml"},
			{Name: "Banana", Quantity: "1", Unit: "unit"},
			{Name: "Honey", Quantity: "1", Unit: "tablespoon", Optional: true},
		},
		[]string{
			"Warm the milk in a saucepan over medium heat",
			"Add the oats and cook for 5 minutes, stirring",
			"Slice the banana",
			"Serve the oats topped with the banana",
			"Add honey to taste",
		},
	)
}

func templateMidMorning() Recipe {
	return NewRecipe(
		[]string{"Caesar salad", "Grilled chicken", "Wholegrain bread"},
		"Light meal with protein and vegetables",
		20, 1, DifficultyEasy,
		[]Ingredient{
			{Name: "Romaine lettuce", Quantity: "100", Unit: "g"},
			{Name: "Chicken breast", Quantity: "150", Unit: "g"},
			{Name: "Wholegrain bread", Quantity: "2", Unit: "slices"},
			{Name: "Parmesan", Quantity: "30", Unit: "g", Optional: true},
		},
		[]string{
			"Wash and chop the lettuce",
			"Grill the chicken with salt and pepper",
			"Cut the chicken into strips",
			"Toss the lettuce with the chicken",
			"Serve with the wholegrain bread",
		},
	)
}

func templateLunch() Recipe {
	return NewRecipe(
		[]string{"Brown rice", "Sautéed vegetables", "Chicken breast"},
		"Balanced meal with protein, carbohydrates and fibre",
		30, 1, DifficultyMedium,
		[]Ingredient{
			{Name: "Brown rice", Quantity: "80", Unit: "g"},
			{Name: "Chicken breast", Quantity: "150", Unit: "g"},
			{Name: "Broccoli", Quantity: "100", Unit: "g"},
			{Name: "Carrot", Quantity: "1", Unit: "unit"},
			{Name: "Olive oil", Quantity: "1", Unit: "tablespoon"},
		},
		[]string{
			"Cook the brown rice following the package instructions",
			"Cut the vegetables into small pieces",
			"Sauté the vegetables in olive oil",
			"Grill the chicken",
			"Serve the rice with the vegetables and the chicken",
		},
	)
}

func templateSnack() Recipe {
	return NewRecipe(
		[]string{"Plain yogurt", "Nuts"},
		"Healthy snack with protein and good fats",
		5, 1, DifficultyEasy,
		[]Ingredient{
			{Name: "Plain yogurt", Quantity: "150", Unit: "g"},
			{Name: "Almonds", Quantity: "20", Unit: "g"},
			{Name: "Walnuts", Quantity: "15", Unit: "g", Optional: true},
		},
		[]string{
			"Spoon the yogurt into a bowl",
			"Scatter the nuts on top",
			"Mix and enjoy",
		},
	)
}

func templateDinner() Recipe {
	return NewRecipe(
		[]string{"Baked salmon", "Green salad"},
		"Light dinner rich in omega-3 and vitamins",
		25, 1, DifficultyMedium,
		[]Ingredient{
			{Name: "Fresh salmon", Quantity: "180", Unit: "g"},
			{Name: "Lemon", Quantity: "1", Unit: "unit"},
			{Name: "Mixed lettuce", Quantity: "80", Unit: "g"},
			{Name: "Cherry tomatoes", Quantity: "50", Unit: "g", Optional: true},
			{Name: "Olive oil", Quantity: "1", Unit: "tablespoon"},
		},
		[]string{
			"Preheat the oven to 180 degrees",
			"Season the salmon with lemon, salt and pepper",
			"Bake the salmon for 15-20 minutes",
			"Prepare the salad with the lettuce and tomatoes",
			"Dress with olive oil",
			"Serve the salmon with the salad",
		},
	)
}

// TemplateMealDays is the seven day plan used when no usable plan can be generated.
func TemplateMealDays() []MealDay {
	days := make([]MealDay, 0, len(Week))
	for _, day := range Week {
		days = append(days, MealDay{
			Day:        day,
			Breakfast:  templateBreakfast(),
			MidMorning: templateMidMorning(),
			Lunch:      templateLunch(),
			Snack:      templateSnack(),
			Dinner:     templateDinner(),
		})
	}
	return days
}
