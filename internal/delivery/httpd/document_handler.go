package httpd

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20 // 32 MiB

func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	assignmentID := r.FormValue("assignment_id")
	if assignmentID == "" {
		writeError(w, http.StatusBadRequest, "assignment_id is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read uploaded file")
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	response, err := h.documentService.ProcessUpload(ctx, assignmentID, header.Filename, content)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("assignment_id", assignmentID).
			Str("file_name", header.Filename).
			Msg("Failed to process document upload")
		writeError(w, http.StatusInternalServerError, "Failed to process document")
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	documentID := chi.URLParam(r, "document_id")

	doc, err := h.documentService.GetDocument(ctx, documentID)
	if err != nil {
		h.logger.Error().Err(err).Str("document_id", documentID).Msg("Failed to get document")
		writeError(w, http.StatusInternalServerError, "Failed to get document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	writeSuccess(w, doc)
}

func (h *Handler) GetAssignmentDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assignmentID := chi.URLParam(r, "assignment_id")

	docs, err := h.documentService.GetDocumentsByAssignment(ctx, assignmentID)
	if err != nil {
		h.logger.Error().Err(err).Str("assignment_id", assignmentID).Msg("Failed to list documents")
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	writeSuccess(w, docs)
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	documentID := chi.URLParam(r, "document_id")

	if err := h.documentService.DeleteDocument(ctx, documentID); err != nil {
		h.logger.Error().Err(err).Str("document_id", documentID).Msg("Failed to delete document")
		writeError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
