package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/edugrade/auto-grader/grading-service/internal/worker/queue"
)

// CorrectionService mirrors service.CorrectionService so the worker
// package does not import internal/service, which would close an
// import cycle through internal/batch.
type CorrectionService interface {
	CorrectSubmission(ctx context.Context, req *models.CorrectSubmissionRequest) (*models.CorrectionReport, error)
	BatchCorrect(ctx context.Context, req *models.BatchCorrectionRequest) (*models.BatchCorrectionResponse, error)
	ProcessSubmissionEvent(ctx context.Context, event models.SubmissionReceivedEvent) error
	GetServiceStatus(ctx context.Context) (map[string]interface{}, error)
}

// CorrectionWorker consumes submission events from the queue and runs
// the grading pipeline for each one on the shared pool. Malformed
// events are acked away as permanent failures; transient failures are
// nacked back for redelivery.
type CorrectionWorker interface {
	Start(ctx context.Context) error
	Stop() error
	GetStats() WorkerStats
}

type WorkerStats struct {
	ActiveWorkers  int `json:"active_workers"`
	TotalProcessed int `json:"total_processed"`
	FailedJobs     int `json:"failed_jobs"`
	QueueLength    int `json:"queue_length"`
}

type correctionWorker struct {
	pool              *Pool
	queueConsumer     queue.RabbitMQConsumer
	correctionService CorrectionService
	logger            zerolog.Logger

	statsMutex sync.RWMutex
	stats      WorkerStats
	startTime  time.Time
}

func NewCorrectionWorker(
	pool *Pool,
	queueConsumer queue.RabbitMQConsumer,
	correctionService CorrectionService,
	logger zerolog.Logger,
) CorrectionWorker {
	return &correctionWorker{
		pool:              pool,
		queueConsumer:     queueConsumer,
		correctionService: correctionService,
		logger:            logger,
		startTime:         time.Now(),
	}
}

func (w *correctionWorker) Start(ctx context.Context) error {
	w.logger.Info().Msg("Starting correction worker...")

	msgs, err := w.queueConsumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	go w.processMessages(ctx, msgs)

	w.logger.Info().Msg("Correction worker started successfully")
	return nil
}

func (w *correctionWorker) Stop() error {
	w.logger.Info().Msg("Stopping correction worker...")

	if err := w.queueConsumer.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to close queue consumer")
	}

	w.statsMutex.RLock()
	processed, failed := w.stats.TotalProcessed, w.stats.FailedJobs
	w.statsMutex.RUnlock()

	w.logger.Info().
		Int("total_processed", processed).
		Int("failed_jobs", failed).
		Dur("uptime", time.Since(w.startTime)).
		Msg("Correction worker stopped")

	return nil
}

func (w *correctionWorker) GetStats() WorkerStats {
	w.statsMutex.RLock()
	stats := w.stats
	w.statsMutex.RUnlock()

	stats.ActiveWorkers = w.pool.ActiveWorkers()
	stats.QueueLength = w.pool.QueueLength()

	return stats
}

func (w *correctionWorker) processMessages(ctx context.Context, msgs <-chan queue.RabbitMQMessage) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Stopping message processing")
			return
		case msg, ok := <-msgs:
			if !ok {
				w.logger.Warn().Msg("Message channel closed")
				return
			}

			w.pool.Submit(func() {
				if err := w.processMessage(ctx, msg); err != nil {
					w.logger.Error().Err(err).Msg("Failed to process message")

					w.statsMutex.Lock()
					w.stats.FailedJobs++
					w.statsMutex.Unlock()

					// A message that can never succeed is dropped so it
					// does not poison the queue.
					if isPermanentError(err) {
						if ackErr := msg.Ack(false); ackErr != nil {
							w.logger.Error().Err(ackErr).Msg("Failed to ack message")
						}
						return
					}

					if nackErr := msg.Nack(false, true); nackErr != nil {
						w.logger.Error().Err(nackErr).Msg("Failed to nack message")
					}
					return
				}

				if err := msg.Ack(false); err != nil {
					w.logger.Error().Err(err).Msg("Failed to ack message")
				}

				w.statsMutex.Lock()
				w.stats.TotalProcessed++
				w.statsMutex.Unlock()
			})
		}
	}
}

func (w *correctionWorker) processMessage(ctx context.Context, msg queue.RabbitMQMessage) error {
	var event models.SubmissionReceivedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return permanent(fmt.Errorf("failed to unmarshal event: %w", err))
	}

	if strings.TrimSpace(event.SubmissionID) == "" {
		return permanent(errors.New("empty submission_id"))
	}
	if strings.TrimSpace(event.FileID) == "" {
		return permanent(errors.New("empty file_id"))
	}

	w.logger.Info().
		Str("submission_id", event.SubmissionID).
		Str("file_id", event.FileID).
		Str("assignment_id", event.AssignmentID).
		Msg("Processing submission correction")

	return w.correctionService.ProcessSubmissionEvent(ctx, event)
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return permanentError{err: err}
}

func isPermanentError(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}
