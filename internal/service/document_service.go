package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/extractor"
	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/edugrade/auto-grader/grading-service/internal/parser"
	"github.com/edugrade/auto-grader/grading-service/internal/repository"
	"github.com/edugrade/auto-grader/grading-service/internal/storage"
	"github.com/edugrade/auto-grader/grading-service/pkg/utils"
)

type DocumentService interface {
	ProcessUpload(ctx context.Context, assignmentID, fileName string, content []byte) (*models.UploadDocumentResponse, error)
	GetDocument(ctx context.Context, id string) (*models.StoredDocument, error)
	GetDocumentsByAssignment(ctx context.Context, assignmentID string) ([]models.StoredDocument, error)
	DeleteDocument(ctx context.Context, id string) error
}

type documentService struct {
	documentRepo repository.DocumentRepository
	storage      storage.Storage
	extractor    *extractor.Extractor
	parser       *parser.Parser
	logger       zerolog.Logger
}

func NewDocumentService(
	documentRepo repository.DocumentRepository,
	store storage.Storage,
	extr *extractor.Extractor,
	prs *parser.Parser,
	logger zerolog.Logger,
) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		storage:      store,
		extractor:    extr,
		parser:       prs,
		logger:       logger,
	}
}

// ProcessUpload runs the full ingestion pipeline for an assignment
// document: stage to disk, extract text, parse structure, keep the raw
// file in object storage and the parsed form in the database.
func (s *documentService) ProcessUpload(ctx context.Context, assignmentID, fileName string, content []byte) (*models.UploadDocumentResponse, error) {
	tmp, err := os.CreateTemp("", "assignment-*"+filepath.Ext(fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if removeErr := os.Remove(tmp.Name()); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("path", tmp.Name()).Msg("Failed to remove temp file")
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	text := s.extractor.Extract(ctx, tmp.Name(), filepath.Ext(fileName))
	parsed := s.parser.Parse(text)

	fileID := fmt.Sprintf("assignments/%s/%s_%d%s",
		assignmentID,
		utils.GenerateUUID(),
		time.Now().Unix(),
		filepath.Ext(fileName),
	)

	if err := s.storage.Upload(ctx, fileID, bytes.NewReader(content), int64(len(content))); err != nil {
		s.logger.Error().Err(err).Str("file_id", fileID).Msg("Failed to upload original file, keeping parsed document only")
		fileID = ""
	}

	stored := &models.StoredDocument{
		ID:            utils.GenerateUUID(),
		AssignmentID:  assignmentID,
		FileName:      fileName,
		FileID:        fileID,
		Document:      *parsed,
		ContentLength: len(text),
		ExtractedAt:   time.Now().UTC(),
	}

	if err := s.documentRepo.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	s.logger.Info().
		Str("document_id", stored.ID).
		Str("assignment_id", assignmentID).
		Int("exercises", len(parsed.Exercises)).
		Int("total_points", parsed.TotalPoints).
		Msg("Assignment document processed")

	return &models.UploadDocumentResponse{
		DocumentID: stored.ID,
		FileName:   fileName,
		Document:   *parsed,
	}, nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*models.StoredDocument, error) {
	return s.documentRepo.GetByID(ctx, id)
}

func (s *documentService) GetDocumentsByAssignment(ctx context.Context, assignmentID string) ([]models.StoredDocument, error) {
	return s.documentRepo.GetByAssignmentID(ctx, assignmentID)
}

func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", id)
	}

	if doc.FileID != "" {
		if err := s.storage.Delete(ctx, doc.FileID); err != nil {
			s.logger.Warn().Err(err).Str("file_id", doc.FileID).Msg("Failed to delete stored file")
		}
	}

	return s.documentRepo.Delete(ctx, id)
}
