package normalizer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/rs/zerolog"
)

const defaultComments = "no comments provided"

var (
	codeFence = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

	gradeRe        = regexp.MustCompile(`"grade"\s*:\s*(-?\d+(?:\.\d+)?)`)
	commentsRe     = regexp.MustCompile(`(?s)"comments"\s*:\s*"(.*?)"`)
	strengthsRe    = regexp.MustCompile(`(?s)"strengths"\s*:\s*\[(.*?)\]`)
	improvementsRe = regexp.MustCompile(`(?s)"areas_of_improvement"\s*:\s*\[(.*?)\]`)
)

// Normalizer turns raw model output into a typed CorrectionResult. It
// never fails: a strict JSON decode is attempted first, then four
// independent regex extractions tolerant of surrounding prose, and as
// a last resort the canonical error result.
type Normalizer struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

func (n *Normalizer) Normalize(raw string) models.CorrectionResult {
	raw = StripCodeFences(strings.TrimSpace(raw))

	if result, ok := n.parseStrict(raw); ok {
		return result
	}

	n.logger.Warn().Msg("Strict JSON parse failed, falling back to regex extraction")
	return n.parseWithRegex(raw)
}

type rawResult struct {
	Grade              *float64 `json:"grade"`
	Comments           *string  `json:"comments"`
	Strengths          []string `json:"strengths"`
	AreasOfImprovement []string `json:"areas_of_improvement"`
}

func (n *Normalizer) parseStrict(raw string) (models.CorrectionResult, bool) {
	var decoded rawResult
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return models.CorrectionResult{}, false
	}

	grade := 0.0
	if decoded.Grade != nil {
		grade = *decoded.Grade
	}

	comments := defaultComments
	if decoded.Comments != nil && *decoded.Comments != "" {
		comments = *decoded.Comments
	}

	return models.NewCorrectionResult(grade, comments, decoded.Strengths, decoded.AreasOfImprovement), true
}

func (n *Normalizer) parseWithRegex(raw string) models.CorrectionResult {
	grade := 0.0
	if m := gradeRe.FindStringSubmatch(raw); m != nil {
		if parsed, err := strconv.ParseFloat(m[1], 64); err == nil {
			grade = parsed
		}
	}

	comments := defaultComments
	if m := commentsRe.FindStringSubmatch(raw); m != nil && m[1] != "" {
		comments = m[1]
	}

	strengths, ok := extractStringList(strengthsRe, raw)
	if !ok {
		return models.ErrorResult(models.ErrorComments)
	}

	improvements, ok := extractStringList(improvementsRe, raw)
	if !ok {
		return models.ErrorResult(models.ErrorComments)
	}

	return models.NewCorrectionResult(grade, comments, strengths, improvements)
}

// extractStringList re-decodes the bracketed slice body as JSON. A
// matched but undecodable body (malformed nested list text) reports
// failure so the caller degrades to the canonical error result; an
// absent field is simply the empty default.
func extractStringList(re *regexp.Regexp, raw string) ([]string, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return []string{}, true
	}

	body := strings.TrimSpace(m[1])
	if body == "" {
		return []string{}, true
	}

	var items []string
	if err := json.Unmarshal([]byte("["+body+"]"), &items); err != nil {
		return nil, false
	}
	return items, true
}

// StripCodeFences removes a single surrounding markdown code fence,
// which chat models like to wrap JSON in despite instructions.
func StripCodeFences(s string) string {
	if m := codeFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}
