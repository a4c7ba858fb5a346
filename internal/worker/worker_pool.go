package worker

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Task func()

// Pool is a fixed-size worker pool. It is constructed and owned by the
// application, started once and stopped with an explicit Stop. There is
// no package-level shared instance.
type Pool struct {
	tasks      chan Task
	wg         sync.WaitGroup
	maxWorkers int
	logger     zerolog.Logger

	mu      sync.RWMutex
	active  int
	stopped bool
}

func NewPool(maxWorkers int, logger zerolog.Logger) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Pool{
		tasks:      make(chan Task, maxWorkers*10),
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

func (p *Pool) Start() {
	p.logger.Info().Int("max_workers", p.maxWorkers).Msg("Starting worker pool")

	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.tasks)
	p.wg.Wait()

	p.logger.Info().Msg("Worker pool stopped")
}

// Submit queues a task. If the queue is full it blocks briefly before
// giving up and logging, so a stuck backend cannot wedge the producer.
func (p *Pool) Submit(task Task) {
	select {
	case p.tasks <- task:
	default:
		p.logger.Warn().Msg("Worker pool task queue is full")
		select {
		case p.tasks <- task:
		case <-time.After(time.Second):
			p.logger.Error().Msg("Failed to submit task to worker pool (timeout)")
			// Run inline rather than dropping the task.
			p.run(task)
		}
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug().Int("worker_id", id).Msg("Worker started")

	for task := range p.tasks {
		p.mu.Lock()
		p.active++
		p.mu.Unlock()

		p.run(task)

		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	}

	p.logger.Debug().Int("worker_id", id).Msg("Worker stopped")
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Interface("panic", r).
				Msg("Worker recovered from panic")
		}
	}()

	task()
}

func (p *Pool) ActiveWorkers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

func (p *Pool) QueueLength() int {
	return len(p.tasks)
}

func (p *Pool) MaxWorkers() int {
	return p.maxWorkers
}
