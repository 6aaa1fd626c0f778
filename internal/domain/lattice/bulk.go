package lattice

import (
	"context"
	"fmt"

	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Enumerate materializes the whole lattice for step.
//
// Each value of the outer digit w0 is produced by its own task and handed to
// the collector as one slice. The channel holds a slot for every w0, so
// producers never block on send. The order of the result is unspecified.
func Enumerate(ctx context.Context, step Step, opts ...Option) ([]model.WeightVector, error) {
	cfg := newBulkConfig(opts...)
	size := step.Size()
	if size > cfg.maxVectors {
		return nil, fmt.Errorf("%w: %s has %d vectors, limit %d", ErrTooLarge, step, size, cfg.maxVectors)
	}

	slices := make(chan []model.WeightVector, step.n+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for w0 := 0; w0 <= step.n; w0++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slices <- step.outerSlice(w0)
			return nil
		})
	}
	err := g.Wait()
	close(slices)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		metrics.RecordError("lattice", "cancelled")
		return nil, fmt.Errorf("enumerate %s: %w", step, err)
	}

	out := make([]model.WeightVector, 0, size)
	for s := range slices {
		out = append(out, s...)
	}
	metrics.RecordVectorsEnumerated(metrics.ModeBulk, len(out))
	return out, nil
}

// outerSlice returns every lattice point with the given w0, innermost digit
// varying fastest. Loops stop as soon as the running sum exceeds N.
func (s Step) outerSlice(w0 int) []model.WeightVector {
	n := s.n
	out := make([]model.WeightVector, 0, compositions(n-w0, model.WeightDims-1))
	var d [model.WeightDims]int
	d[0] = w0
	for d[1] = 0; d[1] <= n-d[0]; d[1]++ {
		r1 := n - d[0] - d[1]
		for d[2] = 0; d[2] <= r1; d[2]++ {
			r2 := r1 - d[2]
			for d[3] = 0; d[3] <= r2; d[3]++ {
				r3 := r2 - d[3]
				for d[4] = 0; d[4] <= r3; d[4]++ {
					r4 := r3 - d[4]
					for d[5] = 0; d[5] <= r4; d[5]++ {
						d[6] = r4 - d[5]
						out = append(out, s.vector(&d))
					}
				}
			}
		}
	}
	return out
}
