package llm

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/config"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		key     string
		want    Backend
		wantErr bool
	}{
		{"ollama", BackendOllama, false},
		{"openai", BackendOpenAI, false},
		{"  OLLAMA  ", BackendOllama, false},
		{"OpenAI", BackendOpenAI, false},
		{"", "", true},
		{"gpt", "", true},
		{"claude", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBackend(tt.key)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBackend(%q) expected error, got %q", tt.key, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBackend(%q) unexpected error: %v", tt.key, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBackend(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestNewOpenAIStrategyRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIStrategy("https://api.openai.com/v1", "", "gpt-4o-mini", time.Minute, zerolog.Nop())
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestFactoryBuildRejectsUnknownBackend(t *testing.T) {
	factory := NewFactory(config.LLMConfig{}, zerolog.Nop())

	if _, err := factory.Build(Backend("mystery")); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestFactoryBuildDefaultRejectsBadConfig(t *testing.T) {
	factory := NewFactory(config.LLMConfig{Backend: "something-else"}, zerolog.Nop())

	if _, err := factory.BuildDefault(); err == nil {
		t.Error("expected error for unknown configured backend")
	}
}

func TestFactoryBuildOllama(t *testing.T) {
	factory := NewFactory(config.LLMConfig{
		Backend:     "ollama",
		OllamaURL:   "http://localhost:11434",
		OllamaModel: "llama3.2",
	}, zerolog.Nop())

	strategy, err := factory.BuildDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strategy.Name() != "ollama" {
		t.Errorf("strategy name = %q, want ollama", strategy.Name())
	}
}
