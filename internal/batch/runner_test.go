package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/edugrade/auto-grader/grading-service/internal/normalizer"
	"github.com/edugrade/auto-grader/grading-service/internal/worker"
)

type stubStrategy struct {
	mu       sync.Mutex
	calls    int
	evaluate func(prompt string) (string, error)
}

func (s *stubStrategy) Evaluate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.evaluate(prompt)
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestRunner(t *testing.T, cacheSize int) (*Runner, *worker.Pool) {
	t.Helper()

	pool := worker.NewPool(2, zerolog.Nop())
	pool.Start()
	t.Cleanup(pool.Stop)

	runner, err := NewRunner(pool, normalizer.New(zerolog.Nop()), cacheSize, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}

	return runner, pool
}

func TestRunPreservesInputOrder(t *testing.T) {
	runner, _ := newTestRunner(t, 16)

	// The stub echoes back a grade derived from a token embedded in
	// each submission, so result order is observable.
	strategy := &stubStrategy{
		evaluate: func(prompt string) (string, error) {
			for i := 1; i <= 3; i++ {
				if strings.Contains(prompt, fmt.Sprintf("token-%d", i)) {
					return fmt.Sprintf(`{"grade": %d, "comments": "ok"}`, i), nil
				}
			}
			return "", errors.New("unknown submission")
		},
	}

	submissions := []string{
		"answer with token-1 inside",
		"answer with token-2 inside",
		"answer with token-3 inside",
	}

	results := runner.Run(context.Background(), strategy, nil, submissions, "en")

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, result := range results {
		want := float64(i + 1)
		if result.Grade != want {
			t.Errorf("results[%d].Grade = %v, want %v", i, result.Grade, want)
		}
	}
}

func TestRunFailingSubmissionDoesNotAbortBatch(t *testing.T) {
	runner, _ := newTestRunner(t, 16)

	strategy := &stubStrategy{
		evaluate: func(prompt string) (string, error) {
			if strings.Contains(prompt, "poison") {
				return "", errors.New("backend exploded")
			}
			return `{"grade": 9, "comments": "fine"}`, nil
		},
	}

	submissions := []string{"good answer number one", "poison pill text", "good answer number two"}

	results := runner.Run(context.Background(), strategy, nil, submissions, "en")

	if results[0].Grade != 9 || results[2].Grade != 9 {
		t.Errorf("healthy submissions affected: %v, %v", results[0].Grade, results[2].Grade)
	}
	if results[1].Comments != models.ErrorComments {
		t.Errorf("failed slot comments = %q, want canonical error", results[1].Comments)
	}
	if results[1].Grade != models.MinGrade {
		t.Errorf("failed slot grade = %v, want %v", results[1].Grade, models.MinGrade)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	runner, _ := newTestRunner(t, 16)

	strategy := &stubStrategy{
		evaluate: func(prompt string) (string, error) {
			return `{"grade": 5}`, nil
		},
	}

	results := runner.Run(context.Background(), strategy, nil, nil, "en")

	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if strategy.callCount() != 0 {
		t.Errorf("strategy invoked %d times for empty batch", strategy.callCount())
	}
}

func TestCorrectCachesIdenticalContent(t *testing.T) {
	runner, _ := newTestRunner(t, 16)

	strategy := &stubStrategy{
		evaluate: func(prompt string) (string, error) {
			return `{"grade": 8, "comments": "cached"}`, nil
		},
	}

	ctx := context.Background()

	first := runner.Correct(ctx, strategy, nil, "same submission text", "en")
	second := runner.Correct(ctx, strategy, nil, "same   submission \n text", "en")

	if strategy.callCount() != 1 {
		t.Errorf("strategy invoked %d times, want 1 (second call should hit cache)", strategy.callCount())
	}
	if first.Grade != second.Grade || first.Comments != second.Comments {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestCorrectCacheKeyedByLanguage(t *testing.T) {
	runner, _ := newTestRunner(t, 16)

	strategy := &stubStrategy{
		evaluate: func(prompt string) (string, error) {
			return `{"grade": 6, "comments": "ok"}`, nil
		},
	}

	ctx := context.Background()

	runner.Correct(ctx, strategy, nil, "the same text", "en")
	runner.Correct(ctx, strategy, nil, "the same text", "es")

	if strategy.callCount() != 2 {
		t.Errorf("strategy invoked %d times, want 2 (different languages must not share cache entries)", strategy.callCount())
	}
}

func TestCorrectErrorResultsAreNotCached(t *testing.T) {
	runner, _ := newTestRunner(t, 16)

	failing := true
	strategy := &stubStrategy{
		evaluate: func(prompt string) (string, error) {
			if failing {
				return "", errors.New("temporarily down")
			}
			return `{"grade": 7, "comments": "recovered"}`, nil
		},
	}

	ctx := context.Background()

	first := runner.Correct(ctx, strategy, nil, "retryable submission", "en")
	if first.Comments != models.ErrorComments {
		t.Fatalf("first result comments = %q, want canonical error", first.Comments)
	}

	failing = false
	second := runner.Correct(ctx, strategy, nil, "retryable submission", "en")
	if second.Grade != 7 {
		t.Errorf("second result grade = %v, want 7 (error must not be served from cache)", second.Grade)
	}
}
