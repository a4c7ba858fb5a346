package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/edugrade/auto-grader/grading-service/internal/repository"
)

type ReportService interface {
	GetReport(ctx context.Context, id string) (*models.GetReportResponse, error)
	GetReportBySubmission(ctx context.Context, submissionID string) (*models.GetReportResponse, error)
	SearchReports(ctx context.Context, req *models.SearchReportsRequest) (*models.SearchReportsResponse, error)
	GetStats(ctx context.Context) (*models.GradingStats, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	logger     zerolog.Logger
}

func NewReportService(reportRepo repository.ReportRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

func (s *reportService) GetReport(ctx context.Context, id string) (*models.GetReportResponse, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, nil
	}

	return convertReport(report), nil
}

func (s *reportService) GetReportBySubmission(ctx context.Context, submissionID string) (*models.GetReportResponse, error) {
	report, err := s.reportRepo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, nil
	}

	return convertReport(report), nil
}

func (s *reportService) SearchReports(ctx context.Context, req *models.SearchReportsRequest) (*models.SearchReportsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	filters := make(map[string]interface{})
	if req.SubmissionID != nil {
		filters["submission_id"] = *req.SubmissionID
	}
	if req.AssignmentID != nil {
		filters["assignment_id"] = *req.AssignmentID
	}
	if req.StudentID != nil {
		filters["student_id"] = *req.StudentID
	}
	if req.Status != nil {
		filters["status"] = *req.Status
	}

	offset := (req.Page - 1) * req.Limit

	reports, total, err := s.reportRepo.Search(ctx, filters, req.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search reports: %w", err)
	}

	responses := make([]models.GetReportResponse, 0, len(reports))
	for i := range reports {
		responses = append(responses, *convertReport(&reports[i]))
	}

	totalPages := (total + req.Limit - 1) / req.Limit

	return &models.SearchReportsResponse{
		Reports:    responses,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *reportService) GetStats(ctx context.Context) (*models.GradingStats, error) {
	return s.reportRepo.GetStats(ctx)
}

func convertReport(report *models.CorrectionReport) *models.GetReportResponse {
	response := &models.GetReportResponse{
		ReportID:         report.ID,
		SubmissionID:     report.SubmissionID,
		FileID:           report.FileID,
		AssignmentID:     report.AssignmentID,
		StudentID:        report.StudentID,
		Status:           report.Status,
		Grade:            report.Grade,
		Comments:         report.Comments,
		Strengths:        report.Strengths,
		Improvements:     report.Improvements,
		MissingExercises: report.MissingExercises,
		ModelBackend:     report.ModelBackend,
		Language:         report.Language,
		ProcessingTimeMs: report.ProcessingTimeMs,
		CreatedAt:        report.CreatedAt,
		CompletedAt:      report.CompletedAt,
	}

	if len(report.Details) > 0 {
		var details map[string]interface{}
		if err := json.Unmarshal(report.Details, &details); err == nil {
			response.Details = details
		}
	}

	return response
}
