// Package worker runs candidate batches off the queue through a handler.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/smartscore/internal/adapters/mq/queue"
	"github.com/okian/smartscore/pkg/logger"
	"github.com/okian/smartscore/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Batch abstracts what workers read off the queue.
type Batch = queue.Batch

// Handler evaluates one batch.
type Handler interface {
	Handle(ctx context.Context, b Batch) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, b Batch) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, b Batch) error { return f(ctx, b) }

// Queue defines how workers receive batches.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Batch
}

// Worker processes batches until the queue drains or ctx is canceled.
type Worker interface {
	Run(ctx context.Context) error
}

// InMemoryWorker implements Worker for in-process queues.
type InMemoryWorker struct {
	queue   Queue
	handler Handler
	name    string
	logger  logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, h Handler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:   q,
		handler: h,
		name:    "worker",
		logger:  logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run drains the queue. It stops at the first handler error and returns it.
func (w *InMemoryWorker) Run(ctx context.Context) error {
	metrics.AddWorkersActive(1)
	defer metrics.AddWorkersActive(-1)

	batches := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b, ok := <-batches:
			if !ok {
				return nil
			}
			if err := w.process(ctx, b); err != nil {
				return err
			}
		}
	}
}

func (w *InMemoryWorker) process(ctx context.Context, b Batch) error {
	start := time.Now()
	defer func() {
		metrics.RecordBatchProcessed(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := w.handler.Handle(ctx, b); err != nil {
		metrics.RecordError("worker", "handler_error")
		w.logger.Error(ctx, "batch failed",
			logger.Int("offset", b.Offset),
			logger.Int("size", len(b.Weights)),
			logger.Error(err),
		)
		return fmt.Errorf("%s: batch at %d: %w", w.name, b.Offset, err)
	}
	return nil
}

// Pool runs a fixed set of workers against one queue.
type Pool struct {
	workers []*InMemoryWorker
	group   *errgroup.Group
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses the
// number of CPUs.
func NewPool(workerCount int, q Queue, h Handler, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, h, wopts...)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker. The first failure cancels the others.
func (p *Pool) Start(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range p.workers {
		g.Go(func() error { return w.Run(gctx) })
	}
	p.group = g
	p.logger.Debug(ctx, "pool started", logger.Int("workers", len(p.workers)))
}

// Wait blocks until every worker has returned and reports the first error.
func (p *Pool) Wait() error {
	if p.group == nil {
		return ErrNotStarted
	}
	return p.group.Wait()
}
