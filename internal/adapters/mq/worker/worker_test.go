package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/smartscore/internal/adapters/mq/queue"
	worker "github.com/okian/smartscore/internal/adapters/mq/worker"
	model "github.com/okian/smartscore/internal/domain/model"
	logging "github.com/okian/smartscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// mockQueue hands out a fixed channel.
type mockQueue struct {
	batches chan queue.Batch
}

func newMockQueue(n int) *mockQueue {
	return &mockQueue{batches: make(chan queue.Batch, n)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Batch { return mq.batches }

func (mq *mockQueue) add(offset, size int) {
	mq.batches <- queue.Batch{Offset: offset, Weights: make([]model.WeightVector, size)}
}

// recorder remembers every batch offset it handled.
type recorder struct {
	mu      sync.Mutex
	offsets []int
	vectors int
	failAt  int
}

func (r *recorder) Handle(_ context.Context, b queue.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAt >= 0 && b.Offset == r.failAt {
		return errBoom
	}
	r.offsets = append(r.offsets, b.Offset)
	r.vectors += len(b.Weights)
	return nil
}

var errBoom = errors.New("boom")

func TestInMemoryWorker(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a worker over a queue of batches", t, func() {
		q := newMockQueue(10)
		h := &recorder{failAt: -1}
		w := worker.NewInMemoryWorker(q, h, worker.WithName("test-worker"), worker.WithLogger(logging.Get()))

		convey.Convey("When the queue is drained and closed", func() {
			q.add(0, 3)
			q.add(3, 2)
			close(q.batches)
			err := w.Run(context.Background())

			convey.Convey("Then every batch is handled in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(h.offsets, convey.ShouldResemble, []int{0, 3})
				convey.So(h.vectors, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When the handler fails", func() {
			h.failAt = 3
			q.add(0, 1)
			q.add(3, 1)
			q.add(4, 1)
			close(q.batches)
			err := w.Run(context.Background())

			convey.Convey("Then the worker stops and reports the error", func() {
				convey.So(errors.Is(err, errBoom), convey.ShouldBeTrue)
				convey.So(h.offsets, convey.ShouldResemble, []int{0})
			})
		})

		convey.Convey("When the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- w.Run(ctx) }()
			cancel()

			convey.Convey("Then Run returns the context error", func() {
				select {
				case err := <-done:
					convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
				case <-time.After(time.Second):
					t.Fatal("worker did not stop")
				}
			})
		})

		convey.Convey("When wrapped as a HandlerFunc", func() {
			calls := 0
			fw := worker.NewInMemoryWorker(q, worker.HandlerFunc(func(context.Context, queue.Batch) error {
				calls++
				return nil
			}))
			q.add(0, 1)
			close(q.batches)
			convey.So(fw.Run(context.Background()), convey.ShouldBeNil)
			convey.So(calls, convey.ShouldEqual, 1)
		})
	})
}

func TestPool(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a pool over a real queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		h := &recorder{failAt: -1}

		convey.Convey("When Wait is called before Start", func() {
			p := worker.NewPool(2, q, h)
			convey.So(errors.Is(p.Wait(), worker.ErrNotStarted), convey.ShouldBeTrue)
		})

		convey.Convey("When batches are fed and the queue closed", func() {
			p := worker.NewPool(3, q, h)
			convey.So(p.Size(), convey.ShouldEqual, 3)
			p.Start(context.Background())

			for i := 0; i < 20; i++ {
				convey.So(q.Enqueue(context.Background(), queue.Batch{Offset: i * 2, Weights: make([]model.WeightVector, 2)}), convey.ShouldBeNil)
			}
			convey.So(q.Close(), convey.ShouldBeNil)

			convey.Convey("Then every batch is handled exactly once", func() {
				convey.So(p.Wait(), convey.ShouldBeNil)
				convey.So(len(h.offsets), convey.ShouldEqual, 20)
				convey.So(h.vectors, convey.ShouldEqual, 40)
			})
		})

		convey.Convey("When a handler fails", func() {
			h.failAt = 4
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			p := worker.NewPool(2, q, h)
			p.Start(ctx)

			go func() {
				defer q.Close()
				for i := 0; i < 100; i++ {
					if err := q.Enqueue(ctx, queue.Batch{Offset: i}); err != nil {
						return
					}
				}
			}()

			convey.Convey("Then Wait returns the first error", func() {
				err := p.Wait()
				cancel()
				convey.So(errors.Is(err, errBoom), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the worker count is not positive", func() {
			p := worker.NewPool(0, q, h)
			convey.So(p.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
