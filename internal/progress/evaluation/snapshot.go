package evaluation

import (
	"time"

	"github.com/2beens/fitprogress/internal/progress/nutrition"
	"github.com/2beens/fitprogress/internal/progress/training"
	"github.com/2beens/fitprogress/internal/progress/trend"
)

type Kind string

const (
	KindTraining  Kind = "TRAINING"
	KindNutrition Kind = "NUTRITION"
	KindCombined  Kind = "COMBINED"
)

type TrainingResult struct {
	Summary        training.Summary `json:"summary"`
	Trend          trend.Trend      `json:"trend"`
	Plateau        bool             `json:"plateau"`
	PlateauMessage string           `json:"plateauMessage,omitempty"`
}

type NutritionResult struct {
	Summary nutrition.Summary `json:"summary"`
	Trend   trend.Trend       `json:"trend"`
}

// Snapshot is one evaluation run. Snapshots are only ever inserted; a newer
// snapshot supersedes older ones.
type Snapshot struct {
	ID              int              `json:"id"`
	UserID          int              `json:"userId"`
	EvaluatedOn     time.Time        `json:"evaluatedOn"`
	Kind            Kind             `json:"kind"`
	Training        *TrainingResult  `json:"training,omitempty"`
	Nutrition       *NutritionResult `json:"nutrition,omitempty"`
	Feedback        string           `json:"feedback"`
	Recommendations []string         `json:"recommendations"`
	Achievements    []string         `json:"achievements"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Prior is what the plateau check reads back from a training snapshot.
func (s *Snapshot) Prior() (trend.Prior, bool) {
	if s.Training == nil {
		return trend.Prior{}, false
	}
	pct := s.Training.Summary.ImprovementPct
	return trend.Prior{Trend: s.Training.Trend, ImprovementPct: &pct}, true
}
