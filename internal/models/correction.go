package models

const (
	MinGrade = 0.0
	MaxGrade = 10.0
)

// ErrorComments is the canonical comment text used whenever grading
// degrades into the error result.
const ErrorComments = "automatic evaluation error"

// GradingCriteria maps a criterion name to what should be evaluated
// under it. Grading can run without explicit criteria.
type GradingCriteria map[string]string

// CorrectionResult is the typed outcome of grading one submission.
// The grade is always clamped into [MinGrade, MaxGrade] on construction.
type CorrectionResult struct {
	Grade              float64  `json:"grade"`
	Comments           string   `json:"comments"`
	Strengths          []string `json:"strengths"`
	AreasOfImprovement []string `json:"areas_of_improvement"`

	// Optional checks, populated only when requested by the caller.
	MissingExercises      []string `json:"missing_exercises,omitempty"`
	AIGeneratedPercentage *float64 `json:"ai_generated_percentage,omitempty"`
}

func NewCorrectionResult(grade float64, comments string, strengths, improvements []string) CorrectionResult {
	if grade < MinGrade {
		grade = MinGrade
	}
	if grade > MaxGrade {
		grade = MaxGrade
	}
	if strengths == nil {
		strengths = []string{}
	}
	if improvements == nil {
		improvements = []string{}
	}

	return CorrectionResult{
		Grade:              grade,
		Comments:           comments,
		Strengths:          strengths,
		AreasOfImprovement: improvements,
	}
}

// ErrorResult is the canonical result for every failure path: grade 0
// and an explanatory comment instead of a distinguished error channel.
func ErrorResult(message string) CorrectionResult {
	if message == "" {
		message = ErrorComments
	}
	return NewCorrectionResult(MinGrade, message, nil, nil)
}

// SimilarityPair reports textual closeness between two submissions,
// symmetric and computed once per unordered pair.
type SimilarityPair struct {
	File1                string  `json:"file1"`
	File2                string  `json:"file2"`
	SimilarityPercentage float64 `json:"similarity_percentage"`
}
