package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edugrade/auto-grader/grading-service/internal/config"
	"github.com/rs/zerolog"
)

// Strategy is the capability shared by every model backend: send a
// prompt, get the raw completion text back. Transport failures come
// back as errors and are translated into the canonical error result
// by the normalizer downstream.
type Strategy interface {
	Evaluate(ctx context.Context, prompt string) (string, error)
	Name() string
}

type Backend string

const (
	BackendOllama Backend = "ollama"
	BackendOpenAI Backend = "openai"
)

// ParseBackend validates a caller-supplied backend key. Unknown keys
// are rejected instead of silently falling back to a default, so a
// typo surfaces at the boundary rather than as a silently different
// model.
func ParseBackend(key string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(key))) {
	case BackendOllama:
		return BackendOllama, nil
	case BackendOpenAI:
		return BackendOpenAI, nil
	case "":
		return "", fmt.Errorf("model backend is empty")
	default:
		return "", fmt.Errorf("unknown model backend %q (expected %q or %q)", key, BackendOllama, BackendOpenAI)
	}
}

// Factory constructs strategies from configuration. One strategy is
// built per batch/request so credentials are checked up front.
type Factory struct {
	cfg    config.LLMConfig
	logger zerolog.Logger
}

func NewFactory(cfg config.LLMConfig, logger zerolog.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

func (f *Factory) Build(backend Backend) (Strategy, error) {
	timeout := f.cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	switch backend {
	case BackendOllama:
		return NewOllamaStrategy(f.cfg.OllamaURL, f.cfg.OllamaModel, timeout, f.logger), nil
	case BackendOpenAI:
		return NewOpenAIStrategy(f.cfg.OpenAIBaseURL, f.cfg.OpenAIAPIKey, f.cfg.OpenAIModel, timeout, f.logger)
	default:
		return nil, fmt.Errorf("unknown model backend %q", backend)
	}
}

// BuildDefault resolves the configured backend key.
func (f *Factory) BuildDefault() (Strategy, error) {
	backend, err := ParseBackend(f.cfg.Backend)
	if err != nil {
		return nil, err
	}
	return f.Build(backend)
}
