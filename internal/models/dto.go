package models

import "time"

// Data Transfer Objects

type CorrectSubmissionRequest struct {
	SubmissionID      string          `json:"submission_id"`
	FileID            string          `json:"file_id,omitempty"`
	Content           string          `json:"content,omitempty"`
	AssignmentID      string          `json:"assignment_id"`
	StudentID         string          `json:"student_id"`
	Criteria          GradingCriteria `json:"criteria,omitempty"`
	Language          string          `json:"language,omitempty"`
	ModelBackend      string          `json:"model_backend,omitempty"`
	RequiredExercises []string        `json:"required_exercises,omitempty"`
	CheckAIGenerated  bool            `json:"check_ai_generated,omitempty"`
}

type BatchCorrectionRequest struct {
	AssignmentID    string            `json:"assignment_id"`
	Criteria        GradingCriteria   `json:"criteria,omitempty"`
	Language        string            `json:"language,omitempty"`
	ModelBackend    string            `json:"model_backend,omitempty"`
	Submissions     []BatchSubmission `json:"submissions"`
	CheckSimilarity bool              `json:"check_similarity,omitempty"`
}

type BatchSubmission struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type BatchCorrectionResponse struct {
	Total           int                `json:"total"`
	Results         []CorrectionResult `json:"results"`
	SimilarityPairs []SimilarityPair   `json:"similarity_pairs,omitempty"`
	CompletedAt     time.Time          `json:"completed_at"`
}

type AnalyzeAssignmentRequest struct {
	AssignmentID string `json:"assignment_id"`
	DocumentID   string `json:"document_id,omitempty"`
	Language     string `json:"language,omitempty"`
	ModelBackend string `json:"model_backend,omitempty"`
}

type GetReportResponse struct {
	ReportID         string                 `json:"report_id"`
	SubmissionID     string                 `json:"submission_id"`
	FileID           string                 `json:"file_id"`
	AssignmentID     string                 `json:"assignment_id"`
	StudentID        string                 `json:"student_id"`
	Status           string                 `json:"status"`
	Grade            float64                `json:"grade"`
	Comments         string                 `json:"comments"`
	Strengths        []string               `json:"strengths,omitempty"`
	Improvements     []string               `json:"improvements,omitempty"`
	MissingExercises []string               `json:"missing_exercises,omitempty"`
	Details          map[string]interface{} `json:"details,omitempty"`
	ModelBackend     string                 `json:"model_backend"`
	Language         string                 `json:"language"`
	ProcessingTimeMs *int                   `json:"processing_time_ms,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	CompletedAt      *time.Time             `json:"completed_at,omitempty"`
}

type SearchReportsRequest struct {
	SubmissionID *string `json:"submission_id,omitempty"`
	AssignmentID *string `json:"assignment_id,omitempty"`
	StudentID    *string `json:"student_id,omitempty"`
	Status       *string `json:"status,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

type SearchReportsResponse struct {
	Reports    []GetReportResponse `json:"reports"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

type UploadDocumentResponse struct {
	DocumentID string            `json:"document_id"`
	FileName   string            `json:"file_name"`
	Document   ExtractedDocument `json:"document"`
}
