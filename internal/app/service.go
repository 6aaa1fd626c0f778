// Package service drives weight-space searches: it prepares a player batch,
// feeds candidate weight vectors through the work queue and worker pool, and
// aggregates the best result.
package service

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/okian/smartscore/internal/adapters/mq/queue"
	"github.com/okian/smartscore/internal/adapters/mq/worker"
	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/internal/domain/normalize"
	"github.com/okian/smartscore/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Default searcher configuration constants.
const (
	defaultChunkSize = 4096
	defaultQueueSize = 64
	defaultTopN      = 10

	// ctxCheckInterval is how many candidates a sequential loop scores
	// between context checks.
	ctxCheckInterval = 1024
)

// Search kinds, used for logs and metrics.
const (
	kindBest      = "best"
	kindGenerator = "generator"
	kindTopN      = "top_n"
)

// Searcher runs weight searches over player batches. It holds no state
// between calls and is safe for concurrent use.
type Searcher struct {
	workerCount int
	chunkSize   int
	queueSize   int
	logger      logger.Logger
}

// Option applies a configuration option to the Searcher.
type Option func(*Searcher)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Searcher) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithChunkSize sets how many candidates travel in one queued batch.
func WithChunkSize(size int) Option {
	return func(s *Searcher) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithQueueSize sets how many batches may wait for a worker.
func WithQueueSize(size int) Option {
	return func(s *Searcher) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the searcher.
func WithLogger(l logger.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Searcher with default configuration.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		workerCount: runtime.NumCPU(),
		chunkSize:   defaultChunkSize,
		queueSize:   defaultQueueSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("search")
	}
	return s
}

// WorkerCount returns the configured worker count.
func (s *Searcher) WorkerCount() int { return s.workerCount }

// ChunkSize returns the configured batch size.
func (s *Searcher) ChunkSize() int { return s.chunkSize }

// prepare validates bounds and returns a normalized copy of players.
func prepare(players []model.PlayerRecord, bounds model.StatBounds) ([]model.PlayerRecord, error) {
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("validate bounds: %w", err)
	}
	norm := model.ClonePlayers(players)
	normalize.Normalize(norm, bounds)
	return norm, nil
}

// newRun returns a run id and a logger tagged with it.
func (s *Searcher) newRun(kind string) (string, logger.Logger) {
	id := uuid.NewString()
	return id, s.logger.With(logger.String("run_id", id), logger.String("kind", kind))
}

// fanOut streams batches from next through a bounded queue into a worker
// pool running h. It returns once every batch is handled, or on the first
// error from the producer, the pool, or ctx.
func (s *Searcher) fanOut(ctx context.Context, next func() (model.Batch, bool), h worker.Handler) error {
	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	pool := worker.NewPool(s.workerCount, q, h, worker.WithLogger(s.logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer q.Close()
		for {
			b, ok := next()
			if !ok {
				return nil
			}
			if err := q.Enqueue(gctx, b); err != nil {
				return err
			}
		}
	})
	g.Go(func() error {
		pool.Start(gctx)
		return pool.Wait()
	})
	return g.Wait()
}
