package models

import (
	"time"
)

type SubmissionReceivedEvent struct {
	SubmissionID string `json:"submission_id"`
	FileID       string `json:"file_id"`
	FileName     string `json:"file_name"`
	StudentID    string `json:"student_id"`
	AssignmentID string `json:"assignment_id"`
	Language     string `json:"language,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

type CorrectionCompletedEvent struct {
	SubmissionID   string    `json:"submission_id"`
	ReportID       string    `json:"report_id"`
	Status         string    `json:"status"`
	Grade          float64   `json:"grade"`
	ProcessingTime int       `json:"processing_time_ms"`
	CompletedAt    time.Time `json:"completed_at"`
}

type CorrectionFailedEvent struct {
	SubmissionID string    `json:"submission_id"`
	Error        string    `json:"error"`
	FailedAt     time.Time `json:"failed_at"`
}
