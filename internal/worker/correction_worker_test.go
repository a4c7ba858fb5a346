package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/models"
	"github.com/edugrade/auto-grader/grading-service/internal/worker/queue"
)

type stubConsumer struct {
	messages chan queue.RabbitMQMessage
}

func (c *stubConsumer) Consume(ctx context.Context) (<-chan queue.RabbitMQMessage, error) {
	return c.messages, nil
}

func (c *stubConsumer) GetQueueLength() (int, error) { return len(c.messages), nil }

func (c *stubConsumer) Close() error { return nil }

type stubCorrectionService struct {
	processed chan models.SubmissionReceivedEvent
	err       error
}

func (s *stubCorrectionService) CorrectSubmission(ctx context.Context, req *models.CorrectSubmissionRequest) (*models.CorrectionReport, error) {
	return nil, errors.New("not used")
}

func (s *stubCorrectionService) BatchCorrect(ctx context.Context, req *models.BatchCorrectionRequest) (*models.BatchCorrectionResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubCorrectionService) ProcessSubmissionEvent(ctx context.Context, event models.SubmissionReceivedEvent) error {
	if s.err != nil {
		return s.err
	}
	s.processed <- event
	return nil
}

func (s *stubCorrectionService) GetServiceStatus(ctx context.Context) (map[string]interface{}, error) {
	return nil, nil
}

func newWorkerFixture(t *testing.T, svc *stubCorrectionService) (*stubConsumer, CorrectionWorker) {
	t.Helper()

	pool := NewPool(1, zerolog.Nop())
	pool.Start()
	t.Cleanup(pool.Stop)

	consumer := &stubConsumer{messages: make(chan queue.RabbitMQMessage, 4)}
	w := NewCorrectionWorker(pool, consumer, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	return consumer, w
}

func makeMessage(t *testing.T, event models.SubmissionReceivedEvent, acked, nacked chan bool) queue.RabbitMQMessage {
	t.Helper()

	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	return queue.RabbitMQMessage{
		Body:      body,
		Timestamp: time.Now(),
		Ack: func(multiple bool) error {
			acked <- true
			return nil
		},
		Nack: func(multiple, requeue bool) error {
			nacked <- requeue
			return nil
		},
	}
}

func TestWorkerProcessesValidEvent(t *testing.T) {
	svc := &stubCorrectionService{processed: make(chan models.SubmissionReceivedEvent, 1)}
	consumer, _ := newWorkerFixture(t, svc)

	acked := make(chan bool, 1)
	nacked := make(chan bool, 1)

	event := models.SubmissionReceivedEvent{
		SubmissionID: "sub-1",
		FileID:       "file-1",
		AssignmentID: "assign-1",
		StudentID:    "student-1",
	}
	consumer.messages <- makeMessage(t, event, acked, nacked)

	select {
	case got := <-svc.processed:
		if got.SubmissionID != "sub-1" {
			t.Errorf("submission_id = %q, want sub-1", got.SubmissionID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
	}

	select {
	case <-acked:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not acked")
	}
}

func TestWorkerDropsMalformedEvent(t *testing.T) {
	svc := &stubCorrectionService{processed: make(chan models.SubmissionReceivedEvent, 1)}
	consumer, _ := newWorkerFixture(t, svc)

	acked := make(chan bool, 1)
	nacked := make(chan bool, 1)

	consumer.messages <- queue.RabbitMQMessage{
		Body:      []byte("{not json"),
		Timestamp: time.Now(),
		Ack: func(multiple bool) error {
			acked <- true
			return nil
		},
		Nack: func(multiple, requeue bool) error {
			nacked <- requeue
			return nil
		},
	}

	// A message that can never parse must be acked away, not requeued.
	select {
	case <-acked:
	case <-nacked:
		t.Fatal("malformed message was nacked instead of dropped")
	case <-time.After(2 * time.Second):
		t.Fatal("malformed message was not handled")
	}
}

func TestWorkerDropsEventWithMissingFields(t *testing.T) {
	svc := &stubCorrectionService{processed: make(chan models.SubmissionReceivedEvent, 1)}
	consumer, _ := newWorkerFixture(t, svc)

	acked := make(chan bool, 1)
	nacked := make(chan bool, 1)

	consumer.messages <- makeMessage(t, models.SubmissionReceivedEvent{SubmissionID: "sub-1"}, acked, nacked)

	select {
	case <-acked:
	case <-nacked:
		t.Fatal("event without file_id was nacked instead of dropped")
	case <-time.After(2 * time.Second):
		t.Fatal("event was not handled")
	}
}

func TestWorkerRequeuesTransientFailure(t *testing.T) {
	svc := &stubCorrectionService{
		processed: make(chan models.SubmissionReceivedEvent, 1),
		err:       errors.New("database unavailable"),
	}
	consumer, _ := newWorkerFixture(t, svc)

	acked := make(chan bool, 1)
	nacked := make(chan bool, 1)

	event := models.SubmissionReceivedEvent{
		SubmissionID: "sub-1",
		FileID:       "file-1",
	}
	consumer.messages <- makeMessage(t, event, acked, nacked)

	select {
	case requeue := <-nacked:
		if !requeue {
			t.Error("transient failure should requeue the message")
		}
	case <-acked:
		t.Fatal("transient failure was acked instead of requeued")
	case <-time.After(2 * time.Second):
		t.Fatal("message was not handled")
	}
}
