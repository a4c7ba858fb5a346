package analysis

import (
	"reflect"
	"strings"
	"testing"
)

func TestDetectMissingExercises(t *testing.T) {
	content := "Ejercicio 1: done here\nsome answer\nEJERCICIO 3: also done"
	required := []string{"Ejercicio 1", "Ejercicio 2", "Ejercicio 3"}

	missing := DetectMissingExercises(required, content)

	if !reflect.DeepEqual(missing, []string{"Ejercicio 2"}) {
		t.Errorf("missing = %v, want [Ejercicio 2]", missing)
	}
}

func TestDetectMissingExercisesNoneMissing(t *testing.T) {
	missing := DetectMissingExercises([]string{"exercise 1"}, "EXERCISE 1 answered")

	if missing == nil {
		t.Fatal("expected empty non-nil slice")
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v, want empty", missing)
	}
}

func TestEstimateAIGeneratedShortText(t *testing.T) {
	if got := EstimateAIGenerated("too few words here"); got != 0.0 {
		t.Errorf("short text score = %v, want 0", got)
	}
}

func TestEstimateAIGeneratedRange(t *testing.T) {
	uniform := strings.Repeat("the system processes the input data correctly every time. ", 12)
	varied := "Short one. " +
		"This sentence is a fair bit longer than the previous one was. " +
		"Tiny again. " +
		"Now an extremely long meandering sentence that keeps adding clauses about unrelated topics such as weather, lunch and homework deadlines. " +
		"Medium length sentence to finish things off properly here."

	for _, content := range []string{uniform, varied} {
		got := EstimateAIGenerated(content)
		if got < 0 || got > 100 {
			t.Errorf("score out of range: %v", got)
		}
	}

	if EstimateAIGenerated(uniform) <= EstimateAIGenerated(varied) {
		t.Error("uniform repetitive text should score higher than varied text")
	}
}
