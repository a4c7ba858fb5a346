package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/edugrade/auto-grader/grading-service/pkg/utils"
)

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID := chi.URLParam(r, "report_id")
	if !utils.ValidateUUID(reportID) {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	report, err := h.reportService.GetReport(ctx, reportID)
	if err != nil {
		h.logger.Error().Err(err).Str("report_id", reportID).Msg("Failed to get report")
		writeError(w, http.StatusInternalServerError, "Failed to get report")
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}

	writeSuccess(w, report)
}

func (h *Handler) GetReportBySubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	submissionID := chi.URLParam(r, "submission_id")

	report, err := h.reportService.GetReportBySubmission(ctx, submissionID)
	if err != nil {
		h.logger.Error().Err(err).Str("submission_id", submissionID).Msg("Failed to get report")
		writeError(w, http.StatusInternalServerError, "Failed to get report")
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}

	writeSuccess(w, report)
}

func (h *Handler) SearchReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := &models.SearchReportsRequest{
		SubmissionID: getStringQueryParam(r, "submission_id"),
		AssignmentID: getStringQueryParam(r, "assignment_id"),
		StudentID:    getStringQueryParam(r, "student_id"),
		Status:       getStringQueryParam(r, "status"),
		Page:         getIntQueryParam(r, "page", 1),
		Limit:        getIntQueryParam(r, "limit", 20),
	}

	response, err := h.reportService.SearchReports(ctx, req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to search reports")
		writeError(w, http.StatusInternalServerError, "Failed to search reports")
		return
	}

	writeSuccess(w, response)
}
