package evaluation

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/2beens/fitprogress/internal/progress/nutrition"
	"github.com/2beens/fitprogress/internal/progress/training"
	"github.com/2beens/fitprogress/internal/progress/trend"
	"github.com/2beens/fitprogress/pkg"
)

const (
	RecommendationFollowFeedback = "Follow the guidance in your personalised feedback"
	AchievementProgress          = "Progress detected this week"

	maxMergedItems = 5
)

type snapshotSaver interface {
	Save(ctx context.Context, snapshot *Snapshot) error
}

// Recorder builds snapshots and appends them to storage.
type Recorder struct {
	saver   snapshotSaver
	nowFunc func() time.Time
}

func NewRecorder(saver snapshotSaver) *Recorder {
	return &Recorder{
		saver:   saver,
		nowFunc: time.Now,
	}
}

func (r *Recorder) RecordTraining(
	ctx context.Context,
	userID int,
	summary training.Summary,
	t trend.Trend,
	feedback string,
) (*Snapshot, error) {
	result := &TrainingResult{
		Summary: summary,
		Trend:   t,
		Plateau: t == trend.Plateau,
	}
	if result.Plateau {
		result.PlateauMessage = trend.PlateauMessage
	}

	snapshot := r.newSnapshot(userID, KindTraining, feedback)
	snapshot.Training = result
	if err := r.saver.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save training evaluation: %w", err)
	}
	return snapshot, nil
}

func (r *Recorder) RecordNutrition(
	ctx context.Context,
	userID int,
	summary nutrition.Summary,
	t trend.Trend,
	feedback string,
) (*Snapshot, error) {
	snapshot := r.newSnapshot(userID, KindNutrition, feedback)
	snapshot.Nutrition = &NutritionResult{
		Summary: summary,
		Trend:   t,
	}
	if err := r.saver.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save nutrition evaluation: %w", err)
	}
	return snapshot, nil
}

func (r *Recorder) newSnapshot(userID int, kind Kind, feedback string) *Snapshot {
	return &Snapshot{
		UserID:          userID,
		EvaluatedOn:     pkg.Day(r.nowFunc()),
		Kind:            kind,
		Feedback:        feedback,
		Recommendations: extractRecommendations(feedback),
		Achievements:    extractAchievements(feedback),
	}
}

// Combine merges a training and a nutrition snapshot into a COMBINED view.
// The result is not stored, its parts already are.
func Combine(trainingSnap, nutritionSnap *Snapshot) *Snapshot {
	return &Snapshot{
		UserID:          trainingSnap.UserID,
		EvaluatedOn:     trainingSnap.EvaluatedOn,
		Kind:            KindCombined,
		Training:        trainingSnap.Training,
		Nutrition:       nutritionSnap.Nutrition,
		Feedback:        trainingSnap.Feedback + "\n\n" + nutritionSnap.Feedback,
		Recommendations: mergeDistinct(trainingSnap.Recommendations, nutritionSnap.Recommendations),
		Achievements:    mergeDistinct(trainingSnap.Achievements, nutritionSnap.Achievements),
		CreatedAt:       nutritionSnap.CreatedAt,
	}
}

// The signals below are coarse keyword checks on the feedback text.
func extractRecommendations(feedback string) []string {
	if strings.Contains(strings.ToLower(feedback), "recommend") {
		return []string{RecommendationFollowFeedback}
	}
	return []string{}
}

func extractAchievements(feedback string) []string {
	lower := strings.ToLower(feedback)
	if strings.Contains(lower, "improv") || strings.Contains(lower, "achievement") {
		return []string{AchievementProgress}
	}
	return []string{}
}

func mergeDistinct(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	for _, item := range slices.Concat(a, b) {
		if len(merged) == maxMergedItems {
			break
		}
		if !slices.Contains(merged, item) {
			merged = append(merged, item)
		}
	}
	return merged
}
