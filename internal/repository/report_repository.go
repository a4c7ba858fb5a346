package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/lib/pq"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.CorrectionReport) error
	GetByID(ctx context.Context, id string) (*models.CorrectionReport, error)
	GetBySubmissionID(ctx context.Context, submissionID string) (*models.CorrectionReport, error)
	Update(ctx context.Context, report *models.CorrectionReport) error
	UpdateStatus(ctx context.Context, id, status string) error
	Search(ctx context.Context, filters map[string]interface{}, limit, offset int) ([]models.CorrectionReport, int, error)
	GetStats(ctx context.Context) (*models.GradingStats, error)
	GetRecentReports(ctx context.Context, limit int) ([]models.CorrectionReport, error)
	Exists(ctx context.Context, submissionID string) (bool, error)
	Ping(ctx context.Context) error
}

type reportRepository struct {
	*PostgresRepository
}

func NewReportRepository(db *sql.DB, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const reportColumns = `
	id, submission_id, file_id, assignment_id, student_id, status,
	grade, comments, strengths, improvements, missing_exercises,
	details, model_backend, language, processing_time_ms,
	created_at, started_at, completed_at, updated_at
`

func (r *reportRepository) Create(ctx context.Context, report *models.CorrectionReport) error {
	query := `
		INSERT INTO correction_reports (
			id, submission_id, file_id, assignment_id, student_id, status,
			grade, comments, strengths, improvements, missing_exercises,
			details, model_backend, language, processing_time_ms,
			created_at, started_at, completed_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.SubmissionID,
		report.FileID,
		report.AssignmentID,
		report.StudentID,
		report.Status,
		report.Grade,
		report.Comments,
		pq.Array(report.Strengths),
		pq.Array(report.Improvements),
		pq.Array(report.MissingExercises),
		nullableJSON(report.Details),
		report.ModelBackend,
		report.Language,
		report.ProcessingTimeMs,
		report.CreatedAt,
		report.StartedAt,
		report.CompletedAt,
		report.UpdatedAt,
	)

	return err
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.CorrectionReport, error) {
	query := `SELECT ` + reportColumns + ` FROM correction_reports WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	return scanReport(row)
}

func (r *reportRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*models.CorrectionReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM correction_reports
		WHERE submission_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query, submissionID)
	return scanReport(row)
}

func (r *reportRepository) Update(ctx context.Context, report *models.CorrectionReport) error {
	query := `
		UPDATE correction_reports
		SET status = $2,
			grade = $3,
			comments = $4,
			strengths = $5,
			improvements = $6,
			missing_exercises = $7,
			details = $8,
			model_backend = $9,
			language = $10,
			processing_time_ms = $11,
			started_at = $12,
			completed_at = $13,
			updated_at = $14
		WHERE id = $1
	`

	report.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.Status,
		report.Grade,
		report.Comments,
		pq.Array(report.Strengths),
		pq.Array(report.Improvements),
		pq.Array(report.MissingExercises),
		nullableJSON(report.Details),
		report.ModelBackend,
		report.Language,
		report.ProcessingTimeMs,
		report.StartedAt,
		report.CompletedAt,
		report.UpdatedAt,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("report %s not found", report.ID)
	}

	return nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE correction_reports
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	return err
}

func (r *reportRepository) Search(ctx context.Context, filters map[string]interface{}, limit, offset int) ([]models.CorrectionReport, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	for _, key := range []string{"submission_id", "assignment_id", "student_id", "status"} {
		if value, ok := filters[key]; ok {
			conditions = append(conditions, fmt.Sprintf("%s = $%d", key, argPos))
			args = append(args, value)
			argPos++
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM correction_reports %s", whereClause)

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM correction_reports
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, reportColumns, whereClause, argPos, argPos+1)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reports []models.CorrectionReport
	for rows.Next() {
		report, err := scanReportRows(rows)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) GetStats(ctx context.Context) (*models.GradingStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status IN ('pending', 'processing')),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COALESCE(AVG(grade) FILTER (WHERE status = 'completed'), 0)
		FROM correction_reports
	`

	stats := &models.GradingStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalReports,
		&stats.CompletedReports,
		&stats.PendingReports,
		&stats.FailedReports,
		&stats.AvgGrade,
	)
	if err != nil {
		return nil, err
	}

	recent, err := r.GetRecentReports(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.RecentActivity = recent

	return stats, nil
}

func (r *reportRepository) GetRecentReports(ctx context.Context, limit int) ([]models.CorrectionReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM correction_reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.CorrectionReport
	for rows.Next() {
		report, err := scanReportRows(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	return reports, rows.Err()
}

func (r *reportRepository) Exists(ctx context.Context, submissionID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM correction_reports WHERE submission_id = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, submissionID).Scan(&exists)
	return exists, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row *sql.Row) (*models.CorrectionReport, error) {
	report, err := scanInto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

func scanReportRows(rows *sql.Rows) (*models.CorrectionReport, error) {
	return scanInto(rows)
}

func scanInto(s rowScanner) (*models.CorrectionReport, error) {
	report := &models.CorrectionReport{}
	var details sql.NullString
	var processingTimeMs sql.NullInt64
	var startedAt, completedAt sql.NullTime

	err := s.Scan(
		&report.ID,
		&report.SubmissionID,
		&report.FileID,
		&report.AssignmentID,
		&report.StudentID,
		&report.Status,
		&report.Grade,
		&report.Comments,
		pq.Array(&report.Strengths),
		pq.Array(&report.Improvements),
		pq.Array(&report.MissingExercises),
		&details,
		&report.ModelBackend,
		&report.Language,
		&processingTimeMs,
		&report.CreatedAt,
		&startedAt,
		&completedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if details.Valid {
		report.Details = []byte(details.String)
	}
	if processingTimeMs.Valid {
		timeMs := int(processingTimeMs.Int64)
		report.ProcessingTimeMs = &timeMs
	}
	if startedAt.Valid {
		report.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		report.CompletedAt = &completedAt.Time
	}

	return report, nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
