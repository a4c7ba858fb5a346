package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/llm"
	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/edugrade/auto-grader/grading-service/internal/normalizer"
	"github.com/edugrade/auto-grader/grading-service/internal/repository"
)

type AnalyzerService interface {
	AnalyzeAssignment(ctx context.Context, req *models.AnalyzeAssignmentRequest) (*models.AssignmentAnalysis, error)
	AnalyzeDocument(ctx context.Context, doc *models.ExtractedDocument, language, backendKey string) (*models.AssignmentAnalysis, error)
}

type analyzerService struct {
	documentRepo    repository.DocumentRepository
	factory         *llm.Factory
	logger          zerolog.Logger
	defaultLanguage string
	defaultBackend  string
}

func NewAnalyzerService(
	documentRepo repository.DocumentRepository,
	factory *llm.Factory,
	logger zerolog.Logger,
	defaultLanguage, defaultBackend string,
) AnalyzerService {
	return &analyzerService{
		documentRepo:    documentRepo,
		factory:         factory,
		logger:          logger,
		defaultLanguage: defaultLanguage,
		defaultBackend:  defaultBackend,
	}
}

func (s *analyzerService) AnalyzeAssignment(ctx context.Context, req *models.AnalyzeAssignmentRequest) (*models.AssignmentAnalysis, error) {
	doc, err := s.loadDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.AnalyzeDocument(ctx, doc, req.Language, req.ModelBackend)
}

// AnalyzeDocument asks the model for per-exercise solutions and a
// grading rubric. Model failures degrade to a generic rubric marked
// as a fallback so teachers always get something editable.
func (s *analyzerService) AnalyzeDocument(ctx context.Context, doc *models.ExtractedDocument, language, backendKey string) (*models.AssignmentAnalysis, error) {
	if language == "" {
		language = s.defaultLanguage
	}
	if backendKey == "" {
		backendKey = s.defaultBackend
	}

	backend, err := llm.ParseBackend(backendKey)
	if err != nil {
		return nil, err
	}

	strategy, err := s.factory.Build(backend)
	if err != nil {
		return nil, err
	}

	prompt := llm.BuildAnalysisPrompt(doc, language)

	raw, err := strategy.Evaluate(ctx, prompt)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("backend", strategy.Name()).
			Msg("Assignment analysis failed, using fallback rubric")
		return s.fallbackAnalysis(doc, strategy.Name()), nil
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("Failed to parse analysis response, using fallback rubric")
		return s.fallbackAnalysis(doc, strategy.Name()), nil
	}

	analysis.Metadata = models.AIMetadata{
		ModelUsed:  strategy.Name(),
		AnalyzedAt: time.Now().UTC(),
	}

	return analysis, nil
}

func (s *analyzerService) loadDocument(ctx context.Context, req *models.AnalyzeAssignmentRequest) (*models.ExtractedDocument, error) {
	if req.DocumentID != "" {
		stored, err := s.documentRepo.GetByID(ctx, req.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load document: %w", err)
		}
		if stored == nil {
			return nil, fmt.Errorf("document %s not found", req.DocumentID)
		}
		return &stored.Document, nil
	}

	docs, err := s.documentRepo.GetByAssignmentID(ctx, req.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found for assignment %s", req.AssignmentID)
	}

	return &docs[0].Document, nil
}

func parseAnalysis(raw string) (*models.AssignmentAnalysis, error) {
	raw = normalizer.StripCodeFences(strings.TrimSpace(raw))

	var analysis models.AssignmentAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}

	if len(analysis.Rubric.Criteria) == 0 {
		return nil, fmt.Errorf("analysis response has no rubric criteria")
	}

	return &analysis, nil
}

// fallbackAnalysis builds the generic rubric used when the model is
// unreachable or answers garbage.
func (s *analyzerService) fallbackAnalysis(doc *models.ExtractedDocument, modelName string) *models.AssignmentAnalysis {
	totalPoints := doc.TotalPoints
	if totalPoints <= 0 {
		totalPoints = 100
	}

	levels := []models.RubricLevel{
		{Name: "Excellent", Description: "Fully correct and well explained", Points: 10},
		{Name: "Good", Description: "Mostly correct with minor gaps", Points: 7},
		{Name: "Sufficient", Description: "Partially correct", Points: 5},
		{Name: "Insufficient", Description: "Incorrect or missing", Points: 2},
	}

	rubric := models.Rubric{
		Criteria: []models.RubricCriterion{
			{Name: "Correctness", Description: "Accuracy of the answers", Weight: 0.5, Levels: levels},
			{Name: "Reasoning", Description: "Quality of the justification and procedure", Weight: 0.3, Levels: levels},
			{Name: "Presentation", Description: "Clarity and organization", Weight: 0.2, Levels: levels},
		},
		TotalPoints: totalPoints,
	}

	solutions := make([]models.Solution, 0, len(doc.Exercises))
	for _, ex := range doc.Exercises {
		solutions = append(solutions, models.Solution{
			ExerciseNumber: ex.Number,
			ExpectedAnswer: "",
			SolutionSteps:  []string{},
			Explanation:    "Solution pending teacher review",
		})
	}

	return &models.AssignmentAnalysis{
		Solutions: solutions,
		Rubric:    rubric,
		Metadata: models.AIMetadata{
			ModelUsed:  modelName,
			AnalyzedAt: time.Now().UTC(),
			Fallback:   true,
		},
	}
}
