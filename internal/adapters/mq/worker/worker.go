package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/rapm/internal/adapters/mq/queue"
	"github.com/okian/rapm/pkg/logger"
	"github.com/okian/rapm/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Processor handles one job. It must be safe for concurrent use.
type Processor interface {
	Process(ctx context.Context, j Job) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, j Job) error

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, j Job) error { return f(ctx, j) }

// ErrorHandler receives a failed job and its error.
type ErrorHandler func(ctx context.Context, j Job, err error)

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs using the provided processor.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is drained.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing game jobs.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	name      string
	timeout   time.Duration
	onError   ErrorHandler

	// Shutdown control
	shutdown chan struct{}
	stopOnce atomic.Bool
	done     chan struct{}

	processed atomic.Int64
	failed    atomic.Int64

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, p Processor, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		processor: p,
		name:      "worker", // default name
		onError:   func(context.Context, Job, error) {},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Discard(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.Named(w.name)

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				// Channel closed, worker should stop
				return
			}
			w.processJob(ctx, j)
		}
	}
}

// Shutdown gracefully stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	if w.stopOnce.CompareAndSwap(false, true) {
		close(w.shutdown)
	}

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Processed returns the number of jobs that succeeded.
func (w *InMemoryWorker) Processed() int64 { return w.processed.Load() }

// Failed returns the number of jobs that returned an error.
func (w *InMemoryWorker) Failed() int64 { return w.failed.Load() }

// processJob handles a single job under the configured timeout.
func (w *InMemoryWorker) processJob(ctx context.Context, j Job) {
	jctx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		jctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	err := w.processor.Process(jctx, j)
	if err == nil {
		w.processed.Add(1)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("game %s exceeded %s: %w", j.ID, w.timeout, err)
	}
	w.failed.Add(1)
	metrics.RecordWorkerError()
	w.logger.Warn(ctx, "job failed", logger.String("game_id", j.ID), logger.Error(err))
	w.onError(ctx, j, err)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool. A count below one means one worker per CPU.
// Options are applied to every worker; names are assigned per worker.
func NewPool(workerCount int, q Queue, p Processor, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	// The pool logs through the logger the options carry.
	base := &InMemoryWorker{logger: logger.Discard()}
	for _, opt := range opts {
		opt(base)
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  base.logger.Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		wopts := append(append([]Option(nil), opts...), WithName("worker-"+strconv.Itoa(i)))
		pool.workers[i] = NewInMemoryWorker(q, p, wopts...)
	}

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	metrics.UpdateWorkerActiveCount(len(p.workers))
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Wait blocks until every worker has exited, which happens once the queue is
// closed and drained or the context passed to Start is canceled.
func (p *Pool) Wait() {
	for _, worker := range p.workers {
		<-worker.done
	}
	metrics.UpdateWorkerActiveCount(0)
}

// Processed returns the number of successful jobs across workers.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Processed()
	}
	return n
}

// Failed returns the number of failed jobs across workers.
func (p *Pool) Failed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Failed()
	}
	return n
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var errs []error
	for i, worker := range p.workers {
		if err := worker.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			errs = append(errs, err)
		}
	}
	metrics.UpdateWorkerActiveCount(0)

	return errors.Join(errs...)
}
