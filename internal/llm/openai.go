package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// OpenAIStrategy calls a hosted chat-completion API with temperature 0
// for deterministic grading. The API key is required at construction
// time; a missing key fails fast instead of at the first request.
type OpenAIStrategy struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewOpenAIStrategy(baseURL, apiKey, model string, timeout time.Duration, logger zerolog.Logger) (*OpenAIStrategy, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is not set")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIStrategy{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func (s *OpenAIStrategy) Name() string { return string(BackendOpenAI) }

func (s *OpenAIStrategy) Evaluate(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model": s.model,
		"messages": []any{
			map[string]any{"role": "user", "content": prompt},
		},
		"temperature":     0,
		"response_format": map[string]any{"type": "json_object"},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode openai response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai returned empty response")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)

	s.logger.Debug().
		Str("model", s.model).
		Int("response_length", len(content)).
		Msg("OpenAI evaluation completed")

	return content, nil
}
