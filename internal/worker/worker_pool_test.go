package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewPool(3, zerolog.Nop())
	pool.Start()
	defer pool.Stop()

	var counter int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
	}
	wg.Wait()

	if got := atomic.LoadInt64(&counter); got != 20 {
		t.Errorf("executed %d tasks, want 20", got)
	}
}

func TestPoolSurvivesPanickingTask(t *testing.T) {
	pool := NewPool(1, zerolog.Nop())
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup

	wg.Add(1)
	pool.Submit(func() {
		defer wg.Done()
		panic("task blew up")
	})
	wg.Wait()

	// The single worker must still be alive to run this.
	done := make(chan struct{})
	pool.Submit(func() {
		close(done)
	})
	<-done
}

func TestPoolStopIsIdempotent(t *testing.T) {
	pool := NewPool(2, zerolog.Nop())
	pool.Start()

	pool.Stop()
	pool.Stop()
}

func TestPoolClampsWorkerCount(t *testing.T) {
	pool := NewPool(0, zerolog.Nop())
	if pool.MaxWorkers() != 1 {
		t.Errorf("MaxWorkers() = %d, want 1", pool.MaxWorkers())
	}
}
