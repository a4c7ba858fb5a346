package llm

import (
	"strings"
	"testing"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
)

func TestBuildCorrectionPromptWithCriteria(t *testing.T) {
	criteria := models.GradingCriteria{"clarity": "how clear the explanation is"}

	prompt := BuildCorrectionPrompt(criteria, "student text here", "en")

	if !strings.Contains(prompt, "clarity") {
		t.Error("prompt should serialize the criteria")
	}
	if !strings.Contains(prompt, "student text here") {
		t.Error("prompt should embed the submission")
	}
	if !strings.Contains(prompt, "this language: en") {
		t.Error("prompt should name the target language")
	}
	if !strings.Contains(prompt, `"areas_of_improvement"`) {
		t.Error("prompt should describe the expected JSON shape")
	}
}

func TestBuildCorrectionPromptWithoutCriteria(t *testing.T) {
	prompt := BuildCorrectionPrompt(nil, "some answer", "")

	if !strings.Contains(prompt, "overall quality") {
		t.Error("prompt without criteria should use the general instruction")
	}
	if !strings.Contains(prompt, "this language: es") {
		t.Error("empty language should default to es")
	}
}

func TestBuildCorrectionPromptIsPure(t *testing.T) {
	criteria := models.GradingCriteria{"a": "b"}

	first := BuildCorrectionPrompt(criteria, "same input", "es")
	second := BuildCorrectionPrompt(criteria, "same input", "es")

	if first != second {
		t.Error("identical inputs must produce identical prompts")
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	doc := &models.ExtractedDocument{
		Title:        "Algebra Basics",
		Instructions: "Answer everything",
		Exercises: []models.Exercise{
			{Number: 1, Statement: "Solve x+1=2", Type: models.ExerciseCalculation, Points: 5},
		},
		TotalPoints: 5,
	}

	prompt := BuildAnalysisPrompt(doc, "en")

	if !strings.Contains(prompt, "Algebra Basics") {
		t.Error("prompt should contain the title")
	}
	if !strings.Contains(prompt, "Solve x+1=2") {
		t.Error("prompt should contain the exercise statement")
	}
	if !strings.Contains(prompt, "TOTAL POINTS: 5") {
		t.Error("prompt should contain the total points")
	}
	if !strings.Contains(prompt, `"rubric"`) {
		t.Error("prompt should describe the rubric JSON shape")
	}
}

func TestBuildAnalysisPromptEmptyDocument(t *testing.T) {
	prompt := BuildAnalysisPrompt(&models.ExtractedDocument{}, "")

	if !strings.Contains(prompt, "Untitled") {
		t.Error("empty title should render as Untitled")
	}
	if !strings.Contains(prompt, "No specific instructions") {
		t.Error("empty instructions should render the placeholder")
	}
}
