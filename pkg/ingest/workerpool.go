package ingest

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned when a job is submitted after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// Job is a unit of work submitted to the WorkerPool. Errors are reported by
// the job itself through whatever channel the caller wired in.
type Job func(ctx context.Context) error

// WorkerPool runs jobs on a fixed number of goroutines. The ingester uses it
// to bound the number of in-flight store upserts.
type WorkerPool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int

	mu     sync.Mutex
	closed bool
}

// NewWorkerPool creates a pool with the given worker count and queue
// capacity. Non-positive values fall back to sane minimums.
func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &WorkerPool{
		jobs:    make(chan Job, queue),
		workers: workers,
	}
}

// Start launches the worker goroutines. They drain the queue until it is
// closed or ctx is done.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					_ = job(ctx)
				}
			}
		}()
	}
}

// SubmitCtx enqueues a job, returning promptly with ctx.Err() if ctx is
// canceled while the queue is full.
func (p *WorkerPool) SubmitCtx(ctx context.Context, job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for queued work to finish.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
