// Package queue is the bounded outbox for remote sync tasks.
//
// Enqueue never blocks: a full or closed queue refuses the task and the
// caller drops it, since remote sync is best-effort.
package queue

import (
	"context"
	"sync"

	"github.com/okian/debut/internal/domain/model"
	"github.com/okian/debut/pkg/metrics"
)

const defaultCapacity = 64

// Task is the payload flowing through the queue.
type Task = model.SyncTask

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a task. It returns false if the task was refused.
	Enqueue(ctx context.Context, t Task) bool

	// Dequeue returns a channel that receives tasks as they become
	// available. It is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Task

	// Len returns the number of queued tasks.
	Len() int

	// Close stops accepting tasks. Queued tasks can still be dequeued.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)
	metrics.UpdateSyncQueue(0, q.capacity)
	return q
}

// Enqueue adds a task without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) bool { //nolint:gocritic // hugeParam: Task is passed by value for channel semantics
	if !t.Valid() {
		metrics.RecordSyncDropped("invalid")
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordSyncDropped("canceled")
		return false
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordSyncDropped("closed")
		return false
	}
	select {
	case q.tasks <- t:
		metrics.RecordSyncEnqueued(string(t.Op))
		metrics.UpdateSyncQueue(len(q.tasks), q.capacity)
		return true
	default:
		metrics.RecordSyncDropped("full")
		return false
	}
}

// Dequeue returns a channel fed from the queue until it is closed and
// drained, or ctx is done.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Task {
	out := make(chan Task)
	go func() {
		defer close(out)
		for t := range q.tasks {
			select {
			case out <- t:
				metrics.UpdateSyncQueue(len(q.tasks), q.capacity)
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of queued tasks.
func (q *InMemoryQueue) Len() int {
	return len(q.tasks)
}

// Capacity returns the maximum number of queued tasks.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close stops accepting tasks. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.tasks)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
