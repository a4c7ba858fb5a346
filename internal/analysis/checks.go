package analysis

import (
	"math"
	"regexp"
	"strings"
)

// DetectMissingExercises reports the required exercise identifiers
// that do not appear in the submission text. Matching is a
// case-insensitive substring check.
func DetectMissingExercises(required []string, content string) []string {
	missing := []string{}
	lower := strings.ToLower(content)

	for _, exercise := range required {
		if !strings.Contains(lower, strings.ToLower(exercise)) {
			missing = append(missing, exercise)
		}
	}

	return missing
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// EstimateAIGenerated returns a rough [0,100] score of how likely the
// text is machine-written. It combines two weak signals: low
// vocabulary diversity and unusually uniform sentence lengths. This is
// a heuristic for flagging, not a verdict.
func EstimateAIGenerated(content string) float64 {
	words := strings.Fields(strings.ToLower(content))
	if len(words) < 30 {
		return 0.0
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	diversity := float64(len(unique)) / float64(len(words))

	var lengths []float64
	for _, sentence := range sentenceSplit.Split(content, -1) {
		n := len(strings.Fields(sentence))
		if n > 2 {
			lengths = append(lengths, float64(n))
		}
	}
	if len(lengths) < 3 {
		return 0.0
	}

	mean := 0.0
	for _, l := range lengths {
		mean += l
	}
	mean /= float64(len(lengths))

	variance := 0.0
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	// Coefficient of variation below ~0.3 means suspiciously even
	// sentence lengths; diversity below ~0.5 means a repetitive
	// vocabulary for a text of this size.
	cv := math.Sqrt(variance) / mean

	uniformity := clamp01((0.5 - cv) / 0.5)
	repetition := clamp01((0.55 - diversity) / 0.55)

	return math.Round((uniformity*0.6+repetition*0.4)*1000) / 10
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
