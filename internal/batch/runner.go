package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/llm"
	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/edugrade/auto-grader/grading-service/internal/normalizer"
	"github.com/edugrade/auto-grader/grading-service/internal/worker"
	"github.com/edugrade/auto-grader/grading-service/pkg/utils"
)

// Runner fans correction calls out over a worker pool and collects
// the results positionally: the output slice always has one entry per
// input submission, in input order, regardless of completion order.
// A failing submission degrades to the canonical error result and
// never aborts its siblings.
type Runner struct {
	pool       *worker.Pool
	normalizer *normalizer.Normalizer
	cache      *lru.Cache[string, models.CorrectionResult]
	logger     zerolog.Logger
}

func NewRunner(pool *worker.Pool, norm *normalizer.Normalizer, cacheSize int, logger zerolog.Logger) (*Runner, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}

	cache, err := lru.New[string, models.CorrectionResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &Runner{
		pool:       pool,
		normalizer: norm,
		cache:      cache,
		logger:     logger,
	}, nil
}

// Run grades every submission through the given strategy and returns
// one CorrectionResult per input, preserving input order.
func (r *Runner) Run(ctx context.Context, strategy llm.Strategy, criteria models.GradingCriteria, submissions []string, language string) []models.CorrectionResult {
	results := make([]models.CorrectionResult, len(submissions))
	if len(submissions) == 0 {
		return results
	}

	startTime := time.Now()

	var wg sync.WaitGroup
	for i, submission := range submissions {
		wg.Add(1)

		idx, content := i, submission
		r.pool.Submit(func() {
			defer wg.Done()
			results[idx] = r.correctOne(ctx, strategy, criteria, content, language)
		})
	}
	wg.Wait()

	r.logger.Info().
		Int("submissions", len(submissions)).
		Str("backend", strategy.Name()).
		Dur("elapsed", time.Since(startTime)).
		Msg("Batch correction completed")

	return results
}

// Correct grades a single submission synchronously, sharing the cache
// with batch runs.
func (r *Runner) Correct(ctx context.Context, strategy llm.Strategy, criteria models.GradingCriteria, submission, language string) models.CorrectionResult {
	return r.correctOne(ctx, strategy, criteria, submission, language)
}

// correctOne grades a single submission. Every failure path, panics
// included, collapses into the canonical error result so the batch
// slot is always filled.
func (r *Runner) correctOne(ctx context.Context, strategy llm.Strategy, criteria models.GradingCriteria, submission, language string) (result models.CorrectionResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Interface("panic", rec).
				Msg("Correction task panicked")
			result = models.ErrorResult(models.ErrorComments)
		}
	}()

	key := r.cacheKey(criteria, submission, language)
	if cached, ok := r.cache.Get(key); ok {
		r.logger.Debug().Str("key", key[:12]).Msg("Correction cache hit")
		return cached
	}

	prompt := llm.BuildCorrectionPrompt(criteria, submission, language)

	raw, err := strategy.Evaluate(ctx, prompt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("backend", strategy.Name()).
			Msg("Model evaluation failed")
		return models.ErrorResult(models.ErrorComments)
	}

	result = r.normalizer.Normalize(raw)
	r.cache.Add(key, result)

	return result
}

// cacheKey hashes criteria, whitespace-normalized submission text and
// language, so resubmissions of identical content short-circuit to
// the memoized result.
func (r *Runner) cacheKey(criteria models.GradingCriteria, submission, language string) string {
	serialized, err := json.Marshal(criteria)
	if err != nil {
		serialized = []byte("{}")
	}

	return utils.ContentHash(string(serialized), utils.NormalizeWhitespace(submission), language)
}
