package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestOllamaStrategyEvaluate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "llama3.2" {
			t.Errorf("model = %q, want llama3.2", req.Model)
		}
		if req.Stream {
			t.Error("stream must be disabled")
		}
		if req.Format != "json" {
			t.Errorf("format = %q, want json", req.Format)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v, want single user message", req.Messages)
		}

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: `{"grade": 8}`},
		})
	}))
	defer server.Close()

	s := NewOllamaStrategy(server.URL, "llama3.2", time.Minute, zerolog.Nop())

	got, err := s.Evaluate(context.Background(), "grade this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"grade": 8}` {
		t.Errorf("Evaluate() = %q", got)
	}
}

func TestOllamaStrategyEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaChatResponse{})
	}))
	defer server.Close()

	s := NewOllamaStrategy(server.URL, "llama3.2", time.Minute, zerolog.Nop())

	if _, err := s.Evaluate(context.Background(), "grade this"); err == nil {
		t.Error("expected error for empty model response")
	}
}

func TestOllamaStrategyHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewOllamaStrategy(server.URL, "llama3.2", time.Minute, zerolog.Nop())

	if _, err := s.Evaluate(context.Background(), "grade this"); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestOpenAIStrategyEvaluate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if temp, ok := req["temperature"].(float64); !ok || temp != 0 {
			t.Errorf("temperature = %v, want 0", req["temperature"])
		}

		w.Write([]byte(`{"choices": [{"message": {"content": "{\"grade\": 9}"}}]}`))
	}))
	defer server.Close()

	s, err := NewOpenAIStrategy(server.URL, "test-key", "gpt-4o-mini", time.Minute, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Evaluate(context.Background(), "grade this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"grade": 9}` {
		t.Errorf("Evaluate() = %q", got)
	}
}

func TestOpenAIStrategyNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	s, err := NewOpenAIStrategy(server.URL, "test-key", "gpt-4o-mini", time.Minute, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Evaluate(context.Background(), "grade this"); err == nil {
		t.Error("expected error for empty choices")
	}
}
