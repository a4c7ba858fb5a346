package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
)

// DefaultLanguage is used when the caller does not request one.
const DefaultLanguage = "es"

// BuildCorrectionPrompt renders the grading prompt for one submission.
// It is a pure function: no validation or retries happen here, only
// text. Two branches exist, with and without explicit criteria.
func BuildCorrectionPrompt(criteria models.GradingCriteria, submission, language string) string {
	if language == "" {
		language = DefaultLanguage
	}

	var sb strings.Builder

	if len(criteria) > 0 {
		serialized, err := json.Marshal(criteria)
		if err != nil {
			serialized = []byte("{}")
		}
		fmt.Fprintf(&sb, "Evaluate the following student submission based on these criteria:\nCriteria: %s\n\n", serialized)
	} else {
		sb.WriteString("Evaluate the following student submission on overall quality, correctness and clarity.\n\n")
	}

	fmt.Fprintf(&sb, "Student submission:\n%s\n\n", submission)

	sb.WriteString("Evaluation instructions:\n")
	sb.WriteString("1. Grade the submission from 0 to 10\n")
	sb.WriteString("2. Provide detailed comments justifying every point of the grade\n")
	sb.WriteString("3. List the strengths of the submission\n")
	sb.WriteString("4. List the areas of improvement\n")
	sb.WriteString("5. Be specific and constructive\n\n")

	fmt.Fprintf(&sb, "Write all text fields in this language: %s\n\n", language)

	sb.WriteString("Respond with strict JSON only, no text outside the JSON object:\n")
	sb.WriteString(`{
    "grade": float (0-10),
    "comments": "detailed comments",
    "strengths": ["strength 1", "..."],
    "areas_of_improvement": ["area of improvement 1", "..."]
}`)

	return sb.String()
}

// BuildAnalysisPrompt renders the prompt that asks the model to
// generate solutions and a grading rubric for an extracted assignment.
func BuildAnalysisPrompt(doc *models.ExtractedDocument, language string) string {
	if language == "" {
		language = DefaultLanguage
	}

	var sb strings.Builder

	sb.WriteString("You are an expert in education and academic assessment. ")
	sb.WriteString("Analyze the following assignment and generate detailed solutions for every exercise ")
	sb.WriteString("and a fair, specific and measurable grading rubric.\n\n")

	title := doc.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&sb, "TITLE: %s\n\n", title)

	instructions := doc.Instructions
	if instructions == "" {
		instructions = "No specific instructions"
	}
	fmt.Fprintf(&sb, "INSTRUCTIONS: %s\n\n", instructions)

	sb.WriteString("EXERCISES:\n")
	for _, ex := range doc.Exercises {
		fmt.Fprintf(&sb, "Exercise %d: %s\nPoints: %d\n", ex.Number, ex.Statement, ex.Points)
	}
	fmt.Fprintf(&sb, "\nTOTAL POINTS: %d\n\n", doc.TotalPoints)

	fmt.Fprintf(&sb, "Write all text fields in this language: %s\n\n", language)

	sb.WriteString("Respond with strict JSON only, no text outside the JSON object:\n")
	sb.WriteString(`{
  "solutions": [
    {
      "exercise_number": 1,
      "expected_answer": "expected answer",
      "solution_steps": ["step 1", "step 2"],
      "explanation": "detailed explanation"
    }
  ],
  "rubric": {
    "criteria": [
      {
        "name": "Criterion 1",
        "description": "criterion description",
        "weight": 0.3,
        "levels": [
          {"name": "Excellent", "description": "level description", "points": 10}
        ]
      }
    ],
    "total_points": 100
  }
}`)

	return sb.String()
}
