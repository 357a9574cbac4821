// Package worker drains the remote sync outbox.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/debut/internal/domain/model"
	"github.com/okian/debut/pkg/logger"
	"github.com/okian/debut/pkg/metrics"
)

const (
	defaultTaskTimeout  = 10 * time.Second
	poolShutdownTimeout = 30 * time.Second
)

// Task abstracts what workers read off the queue.
type Task = model.SyncTask

// Syncer applies one task to the remote service.
type Syncer interface {
	Sync(ctx context.Context, t Task) error
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Task
}

// Worker processes sync tasks.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker without draining the queue.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over a Queue.
type InMemoryWorker struct {
	queue   Queue
	syncer  Syncer
	name    string
	timeout time.Duration
	now     func() time.Time

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(queue Queue, syncer Syncer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		syncer:   syncer,
		name:     "worker",
		timeout:  defaultTaskTimeout,
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	tasks := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case task, ok := <-tasks:
			if !ok {
				return
			}
			w.process(ctx, task)
		}
	}
}

// Shutdown signals the worker and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// process applies one task. Failures are logged and counted, never retried.
func (w *InMemoryWorker) process(ctx context.Context, task Task) { //nolint:gocritic // hugeParam: Task is passed by value for channel semantics
	taskCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	err := w.syncer.Sync(taskCtx, task)

	latency := float64(0)
	if !task.Enqueued.IsZero() {
		latency = float64(w.now().Sub(task.Enqueued).Milliseconds())
	}
	metrics.RecordSyncProcessed(string(task.Op), err != nil, latency)

	if err != nil {
		w.logger.Warn(ctx, "remote sync failed",
			logger.String("taskID", task.ID),
			logger.String("op", string(task.Op)),
			logger.Error(err),
		)
		return
	}
	w.logger.Debug(ctx, "remote sync applied",
		logger.String("taskID", task.ID),
		logger.String("op", string(task.Op)),
	)
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool. A workerCount below one starts a single worker,
// which keeps tasks applied in enqueue order. WithLogger applies to the
// pool and every worker; without it they log nothing.
func NewPool(workerCount int, queue Queue, syncer Syncer, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	base := &InMemoryWorker{logger: logger.Nop()}
	for _, opt := range opts {
		opt(base)
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  base.logger.Named("pool"),
	}
	for i := range p.workers {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(queue, syncer, workerOpts...)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateSyncWorkers(len(p.workers))
}

// Stop stops every worker at once, leaving queued tasks undelivered.
func (p *Pool) Stop(ctx context.Context) error {
	var firstErr error
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	metrics.UpdateSyncWorkers(0)
	return firstErr
}

// Shutdown closes the queue and lets the workers drain it, bounded by ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	drainCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var err error
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-drainCtx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			err = fmt.Errorf("drain timed out: %w", drainCtx.Err())
		}
	}
	if err != nil {
		_ = p.Stop(context.Background())
		return err
	}
	metrics.UpdateSyncWorkers(0)
	return nil
}
