package httpd

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/service"
)

type Handler struct {
	correctionService service.CorrectionService
	documentService   service.DocumentService
	analyzerService   service.AnalyzerService
	reportService     service.ReportService
	logger            zerolog.Logger
}

func NewHandler(
	correctionService service.CorrectionService,
	documentService service.DocumentService,
	analyzerService service.AnalyzerService,
	reportService service.ReportService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		correctionService: correctionService,
		documentService:   documentService,
		analyzerService:   analyzerService,
		reportService:     reportService,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	// Health check
	router.Get("/health", h.HealthCheck)
	router.Get("/status", h.GetServiceStatus)
	router.Get("/stats", h.GetStats)

	// Versioned API
	router.Route("/api/v1", func(api chi.Router) {
		// Document endpoints
		api.Route("/documents", func(r chi.Router) {
			r.Post("/", h.UploadDocument)
			r.Get("/{document_id}", h.GetDocument)
			r.Get("/assignment/{assignment_id}", h.GetAssignmentDocuments)
			r.Delete("/{document_id}", h.DeleteDocument)
		})

		// Correction endpoints
		api.Route("/corrections", func(r chi.Router) {
			r.Post("/", h.CorrectSubmission)
			r.Post("/batch", h.BatchCorrect)
		})

		// Assignment analysis endpoints
		api.Route("/analysis", func(r chi.Router) {
			r.Post("/", h.AnalyzeAssignment)
		})

		// Report endpoints
		api.Route("/reports", func(r chi.Router) {
			r.Get("/", h.SearchReports)
			r.Get("/{report_id}", h.GetReport)
			r.Get("/submission/{submission_id}", h.GetReportBySubmission)
		})
	})
}

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getStringQueryParam(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}
