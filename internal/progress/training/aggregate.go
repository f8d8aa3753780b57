package training

import (
	"sort"
	"time"

	"github.com/2beens/fitprogress/internal/progress/logs"
	"github.com/2beens/fitprogress/internal/progress/trend"
	"github.com/2beens/fitprogress/pkg"
)

const (
	WindowDays   = 7
	topExercises = 5
)

type Window struct {
	From time.Time
	To   time.Time
}

// Contains is inclusive on both ends.
func (w Window) Contains(t time.Time) bool {
	d := pkg.Day(t)
	return !d.Before(w.From) && !d.After(w.To)
}

// Windows returns [today-7, today] and [today-14, today-7]. The boundary day belongs to both.
func Windows(today time.Time) (current, previous Window) {
	today = pkg.Day(today)
	current = Window{From: today.AddDate(0, 0, -WindowDays), To: today}
	previous = Window{From: today.AddDate(0, 0, -2*WindowDays), To: today.AddDate(0, 0, -WindowDays)}
	return current, previous
}

type Summary struct {
	TotalVolume    float64            `json:"totalVolume"`
	PreviousVolume float64            `json:"previousVolume"`
	PeakLoad       float64            `json:"peakLoad"`
	ImprovementPct float64            `json:"improvementPct"`
	Completed      int                `json:"completedWorkouts"`
	Planned        int                `json:"plannedWorkouts"`
	ConsistencyPct float64            `json:"consistencyPct"`
	TopExercises   []ExerciseProgress `json:"topExercises"`
}

type ExerciseProgress struct {
	ExerciseID      int         `json:"exerciseId"`
	ExerciseName    string      `json:"exerciseName"`
	MuscleGroup     string      `json:"muscleGroup"`
	ImprovementPct  float64     `json:"improvementPct"`
	CurrentVolume   float64     `json:"currentVolume"`
	PreviousVolume  float64     `json:"previousVolume"`
	CurrentPeak     float64     `json:"currentPeakLoad"`
	PreviousPeak    float64     `json:"previousPeakLoad"`
	EntriesThisWeek int         `json:"entriesThisWeek"`
	Trend           trend.Trend `json:"trend"`
}

// Aggregate summarises the current window against the previous one.
// plannedDays is the user's weekly training target, nil when unknown.
func Aggregate(current, previous []logs.TrainingEntry, plannedDays *int) Summary {
	curVolume, curPeak := volumeAndPeak(current)
	prevVolume, _ := volumeAndPeak(previous)

	completed := distinctDays(current)
	planned := completed
	if plannedDays != nil {
		planned = *plannedDays
	}

	var consistency float64
	if planned > 0 {
		consistency = min(100, float64(completed)/float64(planned)*100)
	}

	return Summary{
		TotalVolume:    pkg.Round(curVolume, 2),
		PreviousVolume: pkg.Round(prevVolume, 2),
		PeakLoad:       pkg.Round(curPeak, 2),
		ImprovementPct: pkg.Round(improvement(curVolume, prevVolume), 2),
		Completed:      completed,
		Planned:        planned,
		ConsistencyPct: pkg.Round(consistency, 2),
		TopExercises:   topProgress(current, previous),
	}
}

// ExerciseProgressFor computes the progress of one exercise; false when it was not trained in the current window.
func ExerciseProgressFor(exerciseID int, current, previous []logs.TrainingEntry) (ExerciseProgress, bool) {
	cur := filterExercise(exerciseID, current)
	if len(cur) == 0 {
		return ExerciseProgress{}, false
	}
	return progressOf(cur, filterExercise(exerciseID, previous)), true
}

func topProgress(current, previous []logs.TrainingEntry) []ExerciseProgress {
	curByExercise := groupByExercise(current)
	prevByExercise := groupByExercise(previous)

	progress := make([]ExerciseProgress, 0, len(curByExercise))
	for id, entries := range curByExercise {
		progress = append(progress, progressOf(entries, prevByExercise[id]))
	}

	sort.SliceStable(progress, func(i, j int) bool {
		if progress[i].ImprovementPct != progress[j].ImprovementPct {
			return progress[i].ImprovementPct > progress[j].ImprovementPct
		}
		return progress[i].ExerciseID < progress[j].ExerciseID
	})
	if len(progress) > topExercises {
		progress = progress[:topExercises]
	}
	return progress
}

func progressOf(current, previous []logs.TrainingEntry) ExerciseProgress {
	curVolume, curPeak := volumeAndPeak(current)
	prevVolume, prevPeak := volumeAndPeak(previous)
	improvementPct := pkg.Round(improvement(curPeak, prevPeak), 2)

	first := current[0]
	return ExerciseProgress{
		ExerciseID:      first.ExerciseID,
		ExerciseName:    first.ExerciseName,
		MuscleGroup:     first.MuscleGroup,
		ImprovementPct:  improvementPct,
		CurrentVolume:   pkg.Round(curVolume, 2),
		PreviousVolume:  pkg.Round(prevVolume, 2),
		CurrentPeak:     pkg.Round(curPeak, 2),
		PreviousPeak:    pkg.Round(prevPeak, 2),
		EntriesThisWeek: len(current),
		Trend:           trend.FromImprovement(improvementPct),
	}
}

func improvement(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

func volumeAndPeak(entries []logs.TrainingEntry) (volume, peak float64) {
	for _, e := range entries {
		volume += e.Volume()
		peak = max(peak, e.Load)
	}
	return volume, peak
}

func distinctDays(entries []logs.TrainingEntry) int {
	days := make(map[time.Time]struct{}, len(entries))
	for _, e := range entries {
		days[pkg.Day(e.Date)] = struct{}{}
	}
	return len(days)
}

func groupByExercise(entries []logs.TrainingEntry) map[int][]logs.TrainingEntry {
	grouped := make(map[int][]logs.TrainingEntry)
	for _, e := range entries {
		grouped[e.ExerciseID] = append(grouped[e.ExerciseID], e)
	}
	return grouped
}

func filterExercise(exerciseID int, entries []logs.TrainingEntry) []logs.TrainingEntry {
	var filtered []logs.TrainingEntry
	for _, e := range entries {
		if e.ExerciseID == exerciseID {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
