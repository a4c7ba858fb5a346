package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// OCRClient recognizes text on a single page of a scanned document.
type OCRClient interface {
	RecognizePage(ctx context.Context, document []byte, page int, language string) (string, error)
}

// HTTPOCRClient talks to an external OCR service (tesseract-server
// style API): the whole document is posted along with the page number
// and language, the service rasterizes and recognizes that page.
type HTTPOCRClient struct {
	baseURL    string
	httpClient *http.Client
	retryCount int
	retryDelay time.Duration
	logger     zerolog.Logger
}

func NewHTTPOCRClient(baseURL string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) *HTTPOCRClient {
	return &HTTPOCRClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retryCount: retryCount,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

func (c *HTTPOCRClient) RecognizePage(ctx context.Context, document []byte, page int, language string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelay):
			}

			c.logger.Debug().
				Int("attempt", attempt).
				Int("page", page).
				Msg("Retrying OCR request")
		}

		text, err := c.recognize(ctx, document, page, language)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("ocr failed after %d attempts: %w", c.retryCount+1, lastErr)
}

func (c *HTTPOCRClient) recognize(ctx context.Context, document []byte, page int, language string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "document.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(document); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}

	if err := writer.WriteField("page", strconv.Itoa(page)); err != nil {
		return "", fmt.Errorf("failed to write page field: %w", err)
	}
	if err := writer.WriteField("lang", language); err != nil {
		return "", fmt.Errorf("failed to write lang field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", body)
	if err != nil {
		return "", fmt.Errorf("failed to create ocr request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ocr service returned %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode ocr response: %w", err)
	}

	return result.Text, nil
}
