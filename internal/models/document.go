package models

import (
	"time"
)

type ExerciseType string

const (
	ExerciseCalculation    ExerciseType = "calculation"
	ExerciseOpenQuestion   ExerciseType = "open_question"
	ExerciseTrueFalse      ExerciseType = "true_false"
	ExerciseMultipleChoice ExerciseType = "multiple_choice"
	ExerciseFillBlank      ExerciseType = "fill_blank"
	ExerciseMixed          ExerciseType = "mixed"
)

func (t ExerciseType) String() string {
	return string(t)
}

// Exercise is one numbered sub-task found in an assignment document.
// Numbers come from a best-effort regex parse and are not guaranteed
// unique or contiguous.
type Exercise struct {
	Number    int          `json:"number"`
	Statement string       `json:"statement"`
	Type      ExerciseType `json:"type"`
	Points    int          `json:"points"`
}

// ExtractedDocument is the structured view of an uploaded assignment.
// It is built once at upload time and never mutated afterwards.
type ExtractedDocument struct {
	Title        string     `json:"title"`
	Instructions string     `json:"instructions"`
	Exercises    []Exercise `json:"exercises"`
	TotalPoints  int        `json:"total_points"`
}

// StoredDocument is the persisted form of an extracted document.
type StoredDocument struct {
	ID            string            `json:"id" db:"id"`
	AssignmentID  string            `json:"assignment_id" db:"assignment_id"`
	FileName      string            `json:"file_name" db:"file_name"`
	FileID        string            `json:"file_id,omitempty" db:"file_id"`
	Document      ExtractedDocument `json:"document"`
	ContentLength int               `json:"content_length" db:"content_length"`
	ExtractedAt   time.Time         `json:"extracted_at" db:"extracted_at"`
}
