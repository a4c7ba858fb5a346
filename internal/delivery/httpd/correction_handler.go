package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
)

func (h *Handler) CorrectSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CorrectSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SubmissionID == "" {
		writeError(w, http.StatusBadRequest, "submission_id is required")
		return
	}
	if req.Content == "" && req.FileID == "" {
		writeError(w, http.StatusBadRequest, "either content or file_id is required")
		return
	}

	report, err := h.correctionService.CorrectSubmission(ctx, &req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("submission_id", req.SubmissionID).
			Msg("Failed to correct submission")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func (h *Handler) BatchCorrect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.BatchCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Submissions) == 0 {
		writeError(w, http.StatusBadRequest, "submissions must not be empty")
		return
	}

	response, err := h.correctionService.BatchCorrect(ctx, &req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("assignment_id", req.AssignmentID).
			Int("submissions", len(req.Submissions)).
			Msg("Failed to run batch correction")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) AnalyzeAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.AnalyzeAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.AssignmentID == "" && req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "assignment_id or document_id is required")
		return
	}

	analysis, err := h.analyzerService.AnalyzeAssignment(ctx, &req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("assignment_id", req.AssignmentID).
			Msg("Failed to analyze assignment")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeSuccess(w, analysis)
}
