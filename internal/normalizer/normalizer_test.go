package normalizer

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
)

func newTestNormalizer() *Normalizer {
	return New(zerolog.Nop())
}

func TestNormalizeStrictJSON(t *testing.T) {
	n := newTestNormalizer()

	raw := `{"grade": 8.5, "comments": "solid work", "strengths": ["clear"], "areas_of_improvement": ["depth"]}`
	result := n.Normalize(raw)

	if result.Grade != 8.5 {
		t.Errorf("grade = %v, want 8.5", result.Grade)
	}
	if result.Comments != "solid work" {
		t.Errorf("comments = %q, want %q", result.Comments, "solid work")
	}
	if !reflect.DeepEqual(result.Strengths, []string{"clear"}) {
		t.Errorf("strengths = %v, want [clear]", result.Strengths)
	}
	if !reflect.DeepEqual(result.AreasOfImprovement, []string{"depth"}) {
		t.Errorf("areas_of_improvement = %v, want [depth]", result.AreasOfImprovement)
	}
}

func TestNormalizeClampsGrade(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw  string
		want float64
	}{
		{`{"grade": 15, "comments": "too generous"}`, 10},
		{`{"grade": -3, "comments": "too harsh"}`, 0},
		{`{"grade": 7, "comments": "in range"}`, 7},
	}

	for _, tt := range tests {
		result := n.Normalize(tt.raw)
		if result.Grade != tt.want {
			t.Errorf("Normalize(%q).Grade = %v, want %v", tt.raw, result.Grade, tt.want)
		}
	}
}

func TestNormalizeStripsCodeFences(t *testing.T) {
	n := newTestNormalizer()

	raw := "```json\n{\"grade\": 6, \"comments\": \"fenced\"}\n```"
	result := n.Normalize(raw)

	if result.Grade != 6 {
		t.Errorf("grade = %v, want 6", result.Grade)
	}
	if result.Comments != "fenced" {
		t.Errorf("comments = %q, want %q", result.Comments, "fenced")
	}
}

func TestNormalizeMissingFieldsUseDefaults(t *testing.T) {
	n := newTestNormalizer()

	result := n.Normalize(`{"grade": 5}`)

	if result.Comments != "no comments provided" {
		t.Errorf("comments = %q, want default", result.Comments)
	}
	if result.Strengths == nil || len(result.Strengths) != 0 {
		t.Errorf("strengths = %v, want empty non-nil slice", result.Strengths)
	}
	if result.AreasOfImprovement == nil || len(result.AreasOfImprovement) != 0 {
		t.Errorf("areas_of_improvement = %v, want empty non-nil slice", result.AreasOfImprovement)
	}
}

func TestNormalizeRegexFallback(t *testing.T) {
	n := newTestNormalizer()

	// Prose around the JSON breaks strict decoding; the field
	// extractors should still pull the values out.
	raw := `Here is my evaluation: {"grade": 7.5, "comments": "good reasoning", "strengths": ["structure"], "areas_of_improvement": ["examples"]} hope this helps`
	result := n.Normalize(raw)

	if result.Grade != 7.5 {
		t.Errorf("grade = %v, want 7.5", result.Grade)
	}
	if result.Comments != "good reasoning" {
		t.Errorf("comments = %q, want %q", result.Comments, "good reasoning")
	}
	if !reflect.DeepEqual(result.Strengths, []string{"structure"}) {
		t.Errorf("strengths = %v, want [structure]", result.Strengths)
	}
}

func TestNormalizeMalformedListDegradesToErrorResult(t *testing.T) {
	n := newTestNormalizer()

	raw := `"grade": 4, "comments": "broken", "strengths": [unquoted, items], "areas_of_improvement": []`
	result := n.Normalize(raw)

	if result.Comments != models.ErrorComments {
		t.Errorf("comments = %q, want canonical error %q", result.Comments, models.ErrorComments)
	}
	if result.Grade != models.MinGrade {
		t.Errorf("grade = %v, want %v", result.Grade, models.MinGrade)
	}
}

func TestNormalizeGarbageNeverPanics(t *testing.T) {
	n := newTestNormalizer()

	for _, raw := range []string{"", "complete nonsense", "{{{{", "null"} {
		result := n.Normalize(raw)
		if result.Grade < models.MinGrade || result.Grade > models.MaxGrade {
			t.Errorf("Normalize(%q) grade out of range: %v", raw, result.Grade)
		}
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"{}", "{}"},
		{"no fences here", "no fences here"},
	}

	for _, tt := range tests {
		if got := StripCodeFences(tt.in); got != tt.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
