package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.StoredDocument) error
	GetByID(ctx context.Context, id string) (*models.StoredDocument, error)
	GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.StoredDocument, error)
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	*PostgresRepository
}

func NewDocumentRepository(db *sql.DB, logger zerolog.Logger) DocumentRepository {
	return &documentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.StoredDocument) error {
	document, err := json.Marshal(doc.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `
		INSERT INTO extracted_documents (
			id, assignment_id, file_name, file_id, document, content_length, extracted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		doc.ID,
		doc.AssignmentID,
		doc.FileName,
		doc.FileID,
		document,
		doc.ContentLength,
		doc.ExtractedAt,
	)

	return err
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.StoredDocument, error) {
	query := `
		SELECT id, assignment_id, file_name, file_id, document, content_length, extracted_at
		FROM extracted_documents
		WHERE id = $1
	`

	doc := &models.StoredDocument{}
	var document []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.AssignmentID,
		&doc.FileName,
		&doc.FileID,
		&document,
		&doc.ContentLength,
		&doc.ExtractedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(document, &doc.Document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	return doc, nil
}

func (r *documentRepository) GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.StoredDocument, error) {
	query := `
		SELECT id, assignment_id, file_name, file_id, document, content_length, extracted_at
		FROM extracted_documents
		WHERE assignment_id = $1
		ORDER BY extracted_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.StoredDocument
	for rows.Next() {
		doc := models.StoredDocument{}
		var document []byte

		err := rows.Scan(
			&doc.ID,
			&doc.AssignmentID,
			&doc.FileName,
			&doc.FileID,
			&document,
			&doc.ContentLength,
			&doc.ExtractedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(document, &doc.Document); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}

		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM extracted_documents WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
