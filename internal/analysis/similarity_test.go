package analysis

import (
	"testing"
)

func TestDetectSimilarityIdentical(t *testing.T) {
	if got := DetectSimilarity("the quick brown fox", "the quick brown fox"); got != 100.0 {
		t.Errorf("identical texts similarity = %v, want 100", got)
	}
}

func TestDetectSimilarityEmpty(t *testing.T) {
	if got := DetectSimilarity("", ""); got != 100.0 {
		t.Errorf("both empty similarity = %v, want 100", got)
	}
	if got := DetectSimilarity("something", ""); got != 0.0 {
		t.Errorf("one empty similarity = %v, want 0", got)
	}
	if got := DetectSimilarity("", "something"); got != 0.0 {
		t.Errorf("one empty similarity = %v, want 0", got)
	}
}

func TestDetectSimilaritySymmetric(t *testing.T) {
	a := "students should explain the water cycle"
	b := "the water cycle must be explained by students"

	ab := DetectSimilarity(a, b)
	ba := DetectSimilarity(b, a)

	if ab != ba {
		t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
	}
	if ab < 0 || ab > 100 {
		t.Errorf("similarity out of range: %v", ab)
	}
}

func TestDetectSimilarityDisjoint(t *testing.T) {
	got := DetectSimilarity("aaaa", "zzzz")
	if got > 10 {
		t.Errorf("disjoint texts similarity = %v, want near 0", got)
	}
}

func TestPairwiseSimilarity(t *testing.T) {
	names := []string{"alice.txt", "bob.txt", "carol.txt"}
	contents := []string{"first answer", "second answer", "first answer"}

	pairs := PairwiseSimilarity(names, contents)

	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs for 3 submissions, got %d", len(pairs))
	}

	// alice vs carol are byte-identical.
	found := false
	for _, pair := range pairs {
		if pair.File1 == "alice.txt" && pair.File2 == "carol.txt" {
			found = true
			if pair.SimilarityPercentage != 100.0 {
				t.Errorf("identical pair similarity = %v, want 100", pair.SimilarityPercentage)
			}
		}
	}
	if !found {
		t.Error("alice/carol pair missing")
	}
}

func TestPairwiseSimilarityNameFallback(t *testing.T) {
	pairs := PairwiseSimilarity(nil, []string{"one answer", "two answer"})

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].File1 != "submission_1" || pairs[0].File2 != "submission_2" {
		t.Errorf("fallback names = %q, %q", pairs[0].File1, pairs[0].File2)
	}
}
