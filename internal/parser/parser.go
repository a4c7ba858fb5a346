package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
)

const (
	maxTitleLen       = 100
	minTitleLen       = 5
	maxInstructionLen = 500
	maxStatementLen   = 1000
	minStatementLen   = 10
)

var (
	disallowedChars = regexp.MustCompile(`[^\w\s.,;:!?()\[\]\-+=<>/]`)
	spaceRuns       = regexp.MustCompile(`[ \t]+`)

	titleKeywords = []string{
		"exercise", "activity", "assignment", "practice", "exam",
		"ejercicio", "actividad", "tarea", "práctica", "practica", "examen",
	}

	instructionHeader = regexp.MustCompile(`(?is)(?:instructions?|instrucciones?|consignas?|indicaciones?|guidelines?)[:\s]+`)

	// Markers for the three exercise patterns. Statements are sliced
	// between consecutive markers of the same pattern, which stands in
	// for the lookahead the reference expressions rely on.
	numberedMarker = regexp.MustCompile(`(\d+)\.\s+`)
	exerciseMarker = regexp.MustCompile(`(?i)(?:exercise|ejercicio)\s*(\d+)[:.\s]+`)
	questionMarker = regexp.MustCompile(`(?i)(?:question|pregunta)\s*(\d+)[:.\s]+`)

	pointPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:points?|puntos?)`),
		regexp.MustCompile(`(?i)(?:points?|puntos?)[:\s]*(\d+)`),
		regexp.MustCompile(`(?i)\((\d+)\s*p\)`),
		regexp.MustCompile(`(?i)\[(\d+)\s*p\]`),
	}

	fallbackLine = regexp.MustCompile(`^(\d+)\.?\s+(.*)`)

	typeKeywords = []struct {
		exerciseType models.ExerciseType
		words        []string
	}{
		{models.ExerciseCalculation, []string{"calculate", "solve", "compute", "calcular", "resolver", "hallar", "encontrar"}},
		{models.ExerciseOpenQuestion, []string{"explain", "describe", "analyze", "discuss", "explicar", "describir", "analizar", "comentar"}},
		{models.ExerciseTrueFalse, []string{"true", "false", "verdadero", "falso", "v/f"}},
		{models.ExerciseMultipleChoice, []string{"select", "choose", "mark", "seleccionar", "elegir", "marcar"}},
		{models.ExerciseFillBlank, []string{"complete", "fill in", "completar", "llenar", "rellenar"}},
	}
)

// Parser infers the structure of an assignment document from its raw
// text: title, general instructions and the numbered exercises with
// their point values. Everything is best-effort; a document where
// nothing matches still yields a complete, empty result.
type Parser struct {
	defaultPoints int
}

func New(defaultPoints int) *Parser {
	if defaultPoints <= 0 {
		defaultPoints = 10
	}
	return &Parser{defaultPoints: defaultPoints}
}

func (p *Parser) Parse(text string) *models.ExtractedDocument {
	text = cleanContent(text)

	exercises := p.extractExercises(text)

	totalPoints := 0
	for _, ex := range exercises {
		totalPoints += ex.Points
	}

	return &models.ExtractedDocument{
		Title:        extractTitle(text),
		Instructions: extractInstructions(text),
		Exercises:    exercises,
		TotalPoints:  totalPoints,
	}
}

// cleanContent collapses horizontal whitespace runs and strips
// characters outside the alphanumeric/punctuation whitelist. Newlines
// survive so that line-oriented heuristics still have lines to work
// with.
func cleanContent(text string) string {
	text = disallowedChars.ReplaceAllString(text, "")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractTitle(text string) string {
	lines := strings.Split(text, "\n")

	limit := 10
	if len(lines) < limit {
		limit = len(lines)
	}

	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if len(line) <= minTitleLen || len(line) >= maxTitleLen {
			continue
		}

		if line == strings.ToUpper(line) && line != strings.ToLower(line) {
			return line
		}

		lower := strings.ToLower(line)
		for _, keyword := range titleKeywords {
			if strings.Contains(lower, keyword) {
				return line
			}
		}
	}

	if len(lines) == 0 {
		return "Untitled assignment"
	}

	first := strings.TrimSpace(lines[0])
	if first == "" {
		return "Untitled assignment"
	}
	if len(first) > 50 {
		return first[:50] + "..."
	}
	return first
}

func extractInstructions(text string) string {
	loc := instructionHeader.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	rest := text[loc[1]:]

	// Instructions run up to the first exercise marker.
	end := len(rest)
	for _, marker := range []*regexp.Regexp{numberedMarker, exerciseMarker, questionMarker} {
		if m := marker.FindStringIndex(rest); m != nil && m[0] < end {
			end = m[0]
		}
	}

	instructions := strings.TrimSpace(rest[:end])
	if len(instructions) <= minStatementLen {
		return ""
	}
	if len(instructions) > maxInstructionLen {
		instructions = instructions[:maxInstructionLen]
	}
	return instructions
}

func (p *Parser) extractExercises(text string) []models.Exercise {
	exercises := []models.Exercise{}

	for _, marker := range []*regexp.Regexp{numberedMarker, exerciseMarker, questionMarker} {
		exercises = append(exercises, p.matchPattern(marker, text)...)
	}

	if len(exercises) == 0 {
		exercises = p.extractExercisesFallback(text)
	}

	return exercises
}

// matchPattern locates every marker of one pattern and takes the text
// between a marker and the next one (or end of document) as that
// exercise's statement.
func (p *Parser) matchPattern(marker *regexp.Regexp, text string) []models.Exercise {
	matches := marker.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return nil
	}

	var exercises []models.Exercise
	for i, m := range matches {
		number, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || number <= 0 {
			continue
		}

		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		statement := strings.TrimSpace(text[m[1]:end])
		if len(statement) <= minStatementLen {
			continue
		}
		if len(statement) > maxStatementLen {
			statement = statement[:maxStatementLen]
		}

		exercises = append(exercises, models.Exercise{
			Number:    number,
			Statement: statement,
			Type:      classifyExercise(statement),
			Points:    p.extractPoints(statement),
		})
	}

	return exercises
}

func (p *Parser) extractPoints(statement string) int {
	for _, pattern := range pointPatterns {
		if m := pattern.FindStringSubmatch(statement); m != nil {
			points, err := strconv.Atoi(m[1])
			if err == nil && points > 0 {
				return points
			}
		}
	}
	return p.defaultPoints
}

func classifyExercise(statement string) models.ExerciseType {
	lower := strings.ToLower(statement)

	for _, group := range typeKeywords {
		for _, word := range group.words {
			if strings.Contains(lower, word) {
				return group.exerciseType
			}
		}
	}

	return models.ExerciseMixed
}

// extractExercisesFallback is the line-oriented scanner used when no
// pattern matched: a line starting with "<int>." opens a new exercise
// and following lines accumulate into it.
func (p *Parser) extractExercisesFallback(text string) []models.Exercise {
	exercises := []models.Exercise{}

	currentNumber := 0
	var statement strings.Builder

	flush := func() {
		if currentNumber <= 0 {
			return
		}
		s := strings.TrimSpace(statement.String())
		if len(s) <= minStatementLen {
			return
		}
		if len(s) > maxStatementLen {
			s = s[:maxStatementLen]
		}
		exercises = append(exercises, models.Exercise{
			Number:    currentNumber,
			Statement: s,
			Type:      models.ExerciseMixed,
			Points:    p.defaultPoints,
		})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if m := fallbackLine.FindStringSubmatch(line); m != nil {
			flush()
			currentNumber, _ = strconv.Atoi(m[1])
			statement.Reset()
			statement.WriteString(m[2])
			continue
		}

		if currentNumber > 0 && line != "" {
			statement.WriteString(" ")
			statement.WriteString(line)
		}
	}
	flush()

	return exercises
}
