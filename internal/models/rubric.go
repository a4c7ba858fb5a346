package models

import (
	"time"
)

// Solution is the model-generated answer for one exercise.
type Solution struct {
	ExerciseNumber int      `json:"exercise_number"`
	ExpectedAnswer string   `json:"expected_answer"`
	SolutionSteps  []string `json:"solution_steps"`
	Explanation    string   `json:"explanation"`
}

type RubricLevel struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

type RubricCriterion struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Weight      float64       `json:"weight"`
	Levels      []RubricLevel `json:"levels"`
}

type Rubric struct {
	Criteria    []RubricCriterion `json:"criteria"`
	TotalPoints int               `json:"total_points"`
}

// AssignmentAnalysis bundles the generated solutions and rubric for an
// uploaded assignment, ready for teacher review and editing.
type AssignmentAnalysis struct {
	Solutions []Solution `json:"solutions"`
	Rubric    Rubric     `json:"rubric"`
	Metadata  AIMetadata `json:"ai_metadata"`
}

type AIMetadata struct {
	ModelUsed  string    `json:"model_used"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Fallback   bool      `json:"fallback,omitempty"`
}
