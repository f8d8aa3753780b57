package trend

type Trend string

const (
	Improving Trend = "IMPROVING"
	Stable    Trend = "STABLE"
	Declining Trend = "DECLINING"
	Plateau   Trend = "PLATEAU"
)

const (
	improvementThresholdPct = 1.0
	PlateauWindow           = 3
	PlateauMessage          = "No significant improvement detected in the last 3 weeks"

	nutritionCalorieGood = 85.0
	nutritionProteinGood = 80.0
	nutritionAcceptable  = 70.0
)

func (t Trend) IsValid() bool {
	switch t {
	case Improving, Stable, Declining, Plateau:
		return true
	}
	return false
}

// FromImprovement classifies a week-over-week change in percent.
func FromImprovement(pct float64) Trend {
	switch {
	case pct > improvementThresholdPct:
		return Improving
	case pct < -improvementThresholdPct:
		return Declining
	default:
		return Stable
	}
}

// Training is FromImprovement unless a plateau was detected.
func Training(improvementPct float64, plateau bool) Trend {
	if plateau {
		return Plateau
	}
	return FromImprovement(improvementPct)
}

func Nutrition(calorieAdherence, proteinAdherence float64) Trend {
	switch {
	case calorieAdherence >= nutritionCalorieGood && proteinAdherence >= nutritionProteinGood:
		return Improving
	case calorieAdherence >= nutritionAcceptable || proteinAdherence >= nutritionAcceptable:
		return Stable
	default:
		return Declining
	}
}

// Prior is the part of a past training evaluation the plateau check needs.
type Prior struct {
	Trend          Trend
	ImprovementPct *float64
}

// DetectPlateau expects prior evaluations newest first.
// Fewer than PlateauWindow evaluations is never a plateau.
func DetectPlateau(prior []Prior) bool {
	if len(prior) < PlateauWindow {
		return false
	}
	for _, p := range prior[:PlateauWindow] {
		stalled := p.Trend == Stable ||
			(p.ImprovementPct != nil && *p.ImprovementPct < improvementThresholdPct)
		if !stalled {
			return false
		}
	}
	return true
}
