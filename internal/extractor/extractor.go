package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// Extractor pulls best-effort plain text out of uploaded documents.
// Extraction never fails hard: any error is logged and the document
// degrades to an empty string, which callers must treat as a
// non-fatal result.
type Extractor struct {
	ocr      OCRClient
	language string
	logger   zerolog.Logger
}

func New(ocr OCRClient, language string, logger zerolog.Logger) *Extractor {
	return &Extractor{
		ocr:      ocr,
		language: language,
		logger:   logger,
	}
}

// Extract reads the file at path and returns its plain text. The
// declared extension wins over the path's own suffix when provided.
func (e *Extractor) Extract(ctx context.Context, path, ext string) string {
	if ext == "" {
		ext = filepath.Ext(path)
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	var (
		text string
		err  error
	)

	switch ext {
	case "pdf":
		text, err = e.extractPDF(ctx, path)
	case "docx", "doc":
		text, err = e.extractDOCX(path)
	default:
		text, err = e.extractPlainText(path)
	}

	if err != nil {
		e.logger.Error().
			Err(err).
			Str("path", path).
			Str("ext", ext).
			Msg("Text extraction failed, returning empty content")
		return ""
	}

	return text
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	totalPages := reader.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn().
				Err(err).
				Str("path", path).
				Int("page", pageNum).
				Msg("Failed to extract page text")
			pageText = ""
		}

		// A page without any text layer is most likely a scanned
		// image; hand the page over to OCR when available.
		if strings.TrimSpace(pageText) == "" && e.ocr != nil {
			ocrText, ocrErr := e.ocrPage(ctx, path, pageNum)
			if ocrErr != nil {
				e.logger.Warn().
					Err(ocrErr).
					Str("path", path).
					Int("page", pageNum).
					Msg("OCR fallback failed for page")
			} else {
				pageText = ocrText
			}
		}

		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (e *Extractor) ocrPage(ctx context.Context, path string, pageNum int) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf for ocr: %w", err)
	}

	return e.ocr.RecognizePage(ctx, content, pageNum, e.language)
}

func (e *Extractor) extractDOCX(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			sb.WriteString(fmt.Sprint(item))
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

func (e *Extractor) extractPlainText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(content), nil
}
