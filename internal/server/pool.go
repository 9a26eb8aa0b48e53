package server

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/xener/xener/internal/logger"
)

// Job is a single-invocation unit of work claimed by one pool worker.
type Job func()

// WorkerPool executes jobs on a fixed set of long-lived workers pulling
// from one shared FIFO. The queue is unbounded so Execute never blocks the
// caller; hand-off goes through a single consumer-side lock.
type WorkerPool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   *queue.Queue
	closed bool
	size   int
	wg     sync.WaitGroup
}

// NewWorkerPool starts size workers. Sizes below 1 are coerced to 1.
func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}

	p := &WorkerPool{
		jobs: queue.New(),
		size: size,
	}
	p.cond = sync.NewCond(&p.mu)

	logger.Info("Creating worker pool with %d workers", size)

	for id := 0; id < size; id++ {
		p.wg.Add(1)
		go p.worker(id)
	}

	return p
}

// Execute enqueues a job without blocking the caller and reports whether it
// was accepted. Jobs submitted after Shutdown are dropped and logged; the
// caller must undo any bookkeeping tied to the dropped job.
func (p *WorkerPool) Execute(job Job) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		logger.Error("Worker pool is shut down, dropping job")
		return false
	}
	p.jobs.Add(job)
	p.mu.Unlock()

	p.cond.Signal()
	return true
}

func (p *WorkerPool) Size() int {
	return p.size
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	logger.Debug("Worker %d started", id)

	for {
		p.mu.Lock()
		for p.jobs.Length() == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.jobs.Length() == 0 {
			p.mu.Unlock()
			logger.Debug("Worker %d shutting down", id)
			return
		}
		job := p.jobs.Remove().(Job)
		p.mu.Unlock()

		p.run(id, job)
	}
}

// run executes one job outside the queue lock, so a panicking job can never
// leave the queue unusable for the other workers.
func (p *WorkerPool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Worker %d recovered from panic in job: %v", id, r)
		}
	}()

	job()
}

// Shutdown closes the job source and waits for every worker to finish.
// Queued jobs are drained first; a started job runs to completion. There is
// no deadline and no cancellation.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	alreadyClosed := p.closed
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()

	if !alreadyClosed {
		logger.Info("Shutting down worker pool, waiting for workers to finish")
	}
	p.wg.Wait()
}
