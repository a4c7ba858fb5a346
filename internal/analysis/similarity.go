package analysis

import (
	"fmt"
	"strings"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/pmezard/go-difflib/difflib"
)

// DetectSimilarity computes the textual closeness of two submissions
// as a percentage in [0,100] using a longest-matching-blocks ratio.
// The result is symmetric.
func DetectSimilarity(content1, content2 string) float64 {
	if content1 == "" && content2 == "" {
		return 100.0
	}
	if content1 == "" || content2 == "" {
		return 0.0
	}

	matcher := difflib.NewMatcher(splitChars(content1), splitChars(content2))
	return matcher.Ratio() * 100
}

// PairwiseSimilarity computes one SimilarityPair per unordered pair of
// submissions. Quadratic over the batch size, which is acceptable at
// classroom scale.
func PairwiseSimilarity(names, contents []string) []models.SimilarityPair {
	var pairs []models.SimilarityPair

	for i := 0; i < len(contents); i++ {
		for j := i + 1; j < len(contents); j++ {
			pairs = append(pairs, models.SimilarityPair{
				File1:                nameAt(names, i),
				File2:                nameAt(names, j),
				SimilarityPercentage: DetectSimilarity(contents[i], contents[j]),
			})
		}
	}

	return pairs
}

func splitChars(s string) []string {
	return strings.Split(s, "")
}

func nameAt(names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("submission_%d", i+1)
}
