package models

import (
	"encoding/json"
	"time"
)

type CorrectionReport struct {
	ID               string          `json:"id" db:"id"`
	SubmissionID     string          `json:"submission_id" db:"submission_id"`
	FileID           string          `json:"file_id" db:"file_id"`
	AssignmentID     string          `json:"assignment_id" db:"assignment_id"`
	StudentID        string          `json:"student_id" db:"student_id"`
	Status           string          `json:"status" db:"status"`
	Grade            float64         `json:"grade" db:"grade"`
	Comments         string          `json:"comments" db:"comments"`
	Strengths        []string        `json:"strengths,omitempty" db:"strengths"`
	Improvements     []string        `json:"improvements,omitempty" db:"improvements"`
	MissingExercises []string        `json:"missing_exercises,omitempty" db:"missing_exercises"`
	Details          json.RawMessage `json:"details,omitempty" db:"details"`
	ModelBackend     string          `json:"model_backend" db:"model_backend"`
	Language         string          `json:"language" db:"language"`
	ProcessingTimeMs *int            `json:"processing_time_ms,omitempty" db:"processing_time_ms"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	StartedAt        *time.Time      `json:"started_at,omitempty" db:"started_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

func (rs ReportStatus) String() string {
	return string(rs)
}

// ReportDetails is the free-form payload stored next to a report.
type ReportDetails struct {
	Result           CorrectionResult `json:"result"`
	SimilarityPairs  []SimilarityPair `json:"similarity_pairs,omitempty"`
	AnalysisMetadata AnalysisMetadata `json:"analysis_metadata,omitempty"`
}

type AnalysisMetadata struct {
	ModelBackend   string    `json:"model_backend"`
	PromptLanguage string    `json:"prompt_language"`
	CacheHit       bool      `json:"cache_hit,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

type GradingStats struct {
	TotalReports     int64              `json:"total_reports"`
	CompletedReports int64              `json:"completed_reports"`
	PendingReports   int64              `json:"pending_reports"`
	FailedReports    int64              `json:"failed_reports"`
	AvgGrade         float64            `json:"avg_grade"`
	RecentActivity   []CorrectionReport `json:"recent_activity"`
}
