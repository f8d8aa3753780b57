package inference

// Budget bounds a single completion.
type Budget struct {
	Name        string
	MaxTokens   int
	Temperature float64
}

var (
	FeedbackBudget = Budget{Name: "feedback", MaxTokens: 500, Temperature: 0.7}
	PlanBudget     = Budget{Name: "plan", MaxTokens: 4000, Temperature: 0.7}
)

type Request struct {
	Prompt string
	Budget Budget
}
