package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/analysis"
	"github.com/edugrade/auto-grader/grading-service/internal/batch"
	"github.com/edugrade/auto-grader/grading-service/internal/extractor"
	"github.com/edugrade/auto-grader/grading-service/internal/llm"
	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/edugrade/auto-grader/grading-service/internal/repository"
	"github.com/edugrade/auto-grader/grading-service/internal/storage"
	"github.com/edugrade/auto-grader/grading-service/internal/worker/queue"
)

type CorrectionService interface {
	CorrectSubmission(ctx context.Context, req *models.CorrectSubmissionRequest) (*models.CorrectionReport, error)
	BatchCorrect(ctx context.Context, req *models.BatchCorrectionRequest) (*models.BatchCorrectionResponse, error)
	ProcessSubmissionEvent(ctx context.Context, event models.SubmissionReceivedEvent) error
	GetServiceStatus(ctx context.Context) (map[string]interface{}, error)
}

type correctionService struct {
	reportRepo repository.ReportRepository
	storage    storage.Storage
	extractor  *extractor.Extractor
	factory    *llm.Factory
	runner     *batch.Runner
	publisher  queue.RabbitMQPublisher
	logger     zerolog.Logger
	config     CorrectionConfig
}

type CorrectionConfig struct {
	DefaultLanguage string
	DefaultBackend  string
	Exchange        string
}

func NewCorrectionService(
	reportRepo repository.ReportRepository,
	store storage.Storage,
	extr *extractor.Extractor,
	factory *llm.Factory,
	runner *batch.Runner,
	publisher queue.RabbitMQPublisher,
	logger zerolog.Logger,
	config CorrectionConfig,
) CorrectionService {
	return &correctionService{
		reportRepo: reportRepo,
		storage:    store,
		extractor:  extr,
		factory:    factory,
		runner:     runner,
		publisher:  publisher,
		logger:     logger,
		config:     config,
	}
}

func (s *correctionService) CorrectSubmission(ctx context.Context, req *models.CorrectSubmissionRequest) (*models.CorrectionReport, error) {
	startTime := time.Now()

	strategy, err := s.resolveStrategy(req.ModelBackend)
	if err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = s.config.DefaultLanguage
	}

	content := req.Content
	if content == "" && req.FileID != "" {
		content, err = s.extractFromStorage(ctx, req.FileID)
		if err != nil {
			return nil, err
		}
	}

	report := &models.CorrectionReport{
		ID:           uuid.New().String(),
		SubmissionID: req.SubmissionID,
		FileID:       req.FileID,
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
		Status:       models.ReportStatusProcessing.String(),
		ModelBackend: strategy.Name(),
		Language:     language,
		StartedAt:    &startTime,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	result := s.runner.Correct(ctx, strategy, req.Criteria, content, language)

	if len(req.RequiredExercises) > 0 {
		result.MissingExercises = analysis.DetectMissingExercises(req.RequiredExercises, content)
	}
	if req.CheckAIGenerated {
		aiScore := analysis.EstimateAIGenerated(content)
		result.AIGeneratedPercentage = &aiScore
	}

	s.completeReport(ctx, report, result, startTime, nil)

	return report, nil
}

func (s *correctionService) BatchCorrect(ctx context.Context, req *models.BatchCorrectionRequest) (*models.BatchCorrectionResponse, error) {
	if len(req.Submissions) == 0 {
		return nil, fmt.Errorf("batch contains no submissions")
	}

	strategy, err := s.resolveStrategy(req.ModelBackend)
	if err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = s.config.DefaultLanguage
	}

	names := make([]string, len(req.Submissions))
	contents := make([]string, len(req.Submissions))
	for i, sub := range req.Submissions {
		names[i] = sub.Name
		contents[i] = sub.Content
	}

	results := s.runner.Run(ctx, strategy, req.Criteria, contents, language)

	response := &models.BatchCorrectionResponse{
		Total:       len(results),
		Results:     results,
		CompletedAt: time.Now().UTC(),
	}

	if req.CheckSimilarity {
		response.SimilarityPairs = analysis.PairwiseSimilarity(names, contents)
	}

	return response, nil
}

// ProcessSubmissionEvent is the queue-driven path: stage the file from
// object storage, extract its text, grade it and persist the report,
// then publish the outcome event.
func (s *correctionService) ProcessSubmissionEvent(ctx context.Context, event models.SubmissionReceivedEvent) error {
	startTime := time.Now()

	strategy, err := s.resolveStrategy("")
	if err != nil {
		return err
	}

	language := event.Language
	if language == "" {
		language = s.config.DefaultLanguage
	}

	report := &models.CorrectionReport{
		ID:           uuid.New().String(),
		SubmissionID: event.SubmissionID,
		FileID:       event.FileID,
		AssignmentID: event.AssignmentID,
		StudentID:    event.StudentID,
		Status:       models.ReportStatusProcessing.String(),
		ModelBackend: strategy.Name(),
		Language:     language,
		StartedAt:    &startTime,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	content, err := s.extractFromStorage(ctx, event.FileID)
	if err != nil {
		s.failReport(ctx, report, err)
		return err
	}

	result := s.runner.Correct(ctx, strategy, nil, content, language)

	s.completeReport(ctx, report, result, startTime, nil)
	s.publishCompleted(ctx, report)

	return nil
}

func (s *correctionService) GetServiceStatus(ctx context.Context) (map[string]interface{}, error) {
	status := map[string]interface{}{
		"service":   "grading-service",
		"timestamp": time.Now().UTC(),
	}

	if err := s.reportRepo.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		return status, err
	}
	status["database"] = "ok"

	return status, nil
}

func (s *correctionService) resolveStrategy(backendKey string) (llm.Strategy, error) {
	if backendKey == "" {
		backendKey = s.config.DefaultBackend
	}

	backend, err := llm.ParseBackend(backendKey)
	if err != nil {
		return nil, err
	}

	return s.factory.Build(backend)
}

func (s *correctionService) extractFromStorage(ctx context.Context, fileID string) (string, error) {
	path, err := s.storage.DownloadToTemp(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("failed to stage file %s: %w", fileID, err)
	}
	defer func() {
		if removeErr := os.Remove(path); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("path", path).Msg("Failed to remove temp file")
		}
	}()

	return s.extractor.Extract(ctx, path, ""), nil
}

func (s *correctionService) completeReport(ctx context.Context, report *models.CorrectionReport, result models.CorrectionResult, startTime time.Time, pairs []models.SimilarityPair) {
	completedAt := time.Now()
	processingTime := int(completedAt.Sub(startTime).Milliseconds())

	details, err := json.Marshal(models.ReportDetails{
		Result:          result,
		SimilarityPairs: pairs,
		AnalysisMetadata: models.AnalysisMetadata{
			ModelBackend:   report.ModelBackend,
			PromptLanguage: report.Language,
			StartedAt:      startTime,
			CompletedAt:    completedAt,
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal report details")
	}

	status := models.ReportStatusCompleted
	if result.Comments == models.ErrorComments {
		status = models.ReportStatusFailed
	}

	report.Status = status.String()
	report.Grade = result.Grade
	report.Comments = result.Comments
	report.Strengths = result.Strengths
	report.Improvements = result.AreasOfImprovement
	report.MissingExercises = result.MissingExercises
	report.Details = details
	report.ProcessingTimeMs = &processingTime
	report.CompletedAt = &completedAt
	report.UpdatedAt = completedAt

	if err := s.reportRepo.Update(ctx, report); err != nil {
		s.logger.Error().Err(err).Str("report_id", report.ID).Msg("Failed to update report")
	}
}

func (s *correctionService) failReport(ctx context.Context, report *models.CorrectionReport, cause error) {
	report.Status = models.ReportStatusFailed.String()
	report.Comments = models.ErrorComments

	if err := s.reportRepo.UpdateStatus(ctx, report.ID, report.Status); err != nil {
		s.logger.Error().Err(err).Str("report_id", report.ID).Msg("Failed to mark report as failed")
	}

	s.publishFailed(ctx, report.SubmissionID, cause)
}

func (s *correctionService) publishCompleted(ctx context.Context, report *models.CorrectionReport) {
	if s.publisher == nil {
		return
	}

	processingTime := 0
	if report.ProcessingTimeMs != nil {
		processingTime = *report.ProcessingTimeMs
	}

	event := models.CorrectionCompletedEvent{
		SubmissionID:   report.SubmissionID,
		ReportID:       report.ID,
		Status:         report.Status,
		Grade:          report.Grade,
		ProcessingTime: processingTime,
		CompletedAt:    time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal completion event")
		return
	}

	if err := s.publisher.Publish(ctx, s.config.Exchange, "correction.completed", body); err != nil {
		s.logger.Error().Err(err).Str("submission_id", report.SubmissionID).Msg("Failed to publish completion event")
	}
}

func (s *correctionService) publishFailed(ctx context.Context, submissionID string, cause error) {
	if s.publisher == nil {
		return
	}

	event := models.CorrectionFailedEvent{
		SubmissionID: submissionID,
		Error:        cause.Error(),
		FailedAt:     time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal failure event")
		return
	}

	if err := s.publisher.Publish(ctx, s.config.Exchange, "correction.failed", body); err != nil {
		s.logger.Error().Err(err).Str("submission_id", submissionID).Msg("Failed to publish failure event")
	}
}
