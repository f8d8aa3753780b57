package nutrition

import (
	"time"

	"github.com/2beens/fitprogress/internal/progress/logs"
	"github.com/2beens/fitprogress/pkg"
)

type DailySummary struct {
	Date     string                `json:"date"`
	Meals    int                   `json:"meals"`
	Calories float64               `json:"calories"`
	Protein  float64               `json:"protein"`
	Carbs    float64               `json:"carbs"`
	Fat      float64               `json:"fat"`
	Fiber    float64               `json:"fiber"`
	WaterMl  float64               `json:"waterMl"`
	Entries  []logs.NutritionEntry `json:"entries"`
}

// Daily totals the entries logged on the given date. Entries from other days are ignored.
func Daily(date time.Time, entries []logs.NutritionEntry) DailySummary {
	day := pkg.Day(date)
	onDay := make([]logs.NutritionEntry, 0, len(entries))
	for _, e := range entries {
		if pkg.Day(e.Date).Equal(day) {
			onDay = append(onDay, e)
		}
	}

	totals := sumMacros(onDay)
	return DailySummary{
		Date:     day.Format(pkg.DateLayout),
		Meals:    len(onDay),
		Calories: pkg.Round(totals.calories, 0),
		Protein:  pkg.Round(totals.protein, 1),
		Carbs:    pkg.Round(totals.carbs, 1),
		Fat:      pkg.Round(totals.fat, 1),
		Fiber:    pkg.Round(totals.fiber, 1),
		WaterMl:  pkg.Round(totals.water, 0),
		Entries:  onDay,
	}
}
