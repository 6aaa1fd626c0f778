// Package queue moves candidate batches from the generator to the workers.
//
// The in-memory implementation is a bounded channel. Enqueue blocks while
// the queue is full so a fast generator cannot outrun the workers.
package queue

import (
	"context"
	"fmt"
	"sync"

	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/pkg/metrics"
)

const defaultQueueCapacity = 64

// Batch is the payload type flowing through the queue.
type Batch = model.Batch

// Queue provides blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a batch, waiting for room. It fails once the queue is
	// closed or ctx is done.
	Enqueue(ctx context.Context, b Batch) error

	// Dequeue returns a channel that receives batches until the queue is
	// closed and drained, or ctx is done.
	Dequeue(ctx context.Context) <-chan Batch

	// Len returns the current number of queued batches.
	Len(ctx context.Context) int

	// Close stops new batches. Queued batches remain available to Dequeue.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	batches  chan Batch
	stop     chan struct{}
	capacity int

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.batches = make(chan Batch, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueDepth(0)
	return q
}

// Enqueue adds a batch to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, b Batch) error {
	// Senders hold the read lock so Close cannot close the channel under them.
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordError("queue", "closed")
		return ErrClosed
	}

	select {
	case q.batches <- b:
		metrics.UpdateQueueDepth(len(q.batches))
		return nil
	case <-q.stop:
		metrics.RecordError("queue", "closed")
		return ErrClosed
	case <-ctx.Done():
		metrics.RecordError("queue", "context_cancelled")
		return fmt.Errorf("enqueue batch at %d: %w", b.Offset, ctx.Err())
	}
}

// Dequeue returns a channel that will receive batches as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Batch {
	out := make(chan Batch)
	go func() {
		defer close(out)
		for b := range q.batches {
			select {
			case out <- b:
				metrics.UpdateQueueDepth(len(q.batches))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued batches.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.batches)
	metrics.UpdateQueueDepth(n)
	return n
}

// Capacity returns the configured bound.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close gracefully shuts down the queue. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.closeOnce.Do(func() {
		// Wake producers blocked on a full queue before taking the write lock.
		close(q.stop)
		q.mu.Lock()
		defer q.mu.Unlock()
		q.closed = true
		close(q.batches)
	})
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
