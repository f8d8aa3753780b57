package logs

import "sort"

func sortBySlot(entries []NutritionEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Slot.Order() < entries[j].Slot.Order()
	})
}
