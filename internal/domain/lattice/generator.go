package lattice

import (
	"fmt"

	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/pkg/metrics"
)

// outerDigits is the number of free digits; the seventh is the remainder.
const outerDigits = model.WeightDims - 1

// Generator is a resumable cursor over the lattice.
//
// The digits w0..w5 form a mixed-radix odometer whose radix at each position
// depends on the sum of the digits before it. The cursor always rests on the
// next point to emit, or is done. A Generator is not safe for concurrent use;
// partition the outer digit with WithOuterRange and run one cursor per range.
type Generator struct {
	step    Step
	w       [outerDigits]int
	hi      int
	done    bool
	emitted int
	total   int
}

// GeneratorOption configures NewGenerator.
type GeneratorOption func(*generatorConfig)

type generatorConfig struct {
	lo, hi int
	ranged bool
}

// WithOuterRange restricts the outer digit w0 to [lo, hi].
func WithOuterRange(lo, hi int) GeneratorOption {
	return func(c *generatorConfig) {
		c.lo, c.hi, c.ranged = lo, hi, true
	}
}

// NewGenerator returns a cursor positioned on the first lattice point.
func NewGenerator(step Step, opts ...GeneratorOption) (*Generator, error) {
	cfg := generatorConfig{lo: 0, hi: step.n}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ranged && (cfg.lo < 0 || cfg.hi > step.n || cfg.lo > cfg.hi) {
		return nil, fmt.Errorf("%w: [%d, %d] outside [0, %d]", ErrInvalidRange, cfg.lo, cfg.hi, step.n)
	}

	g := &Generator{step: step, hi: cfg.hi}
	g.w[0] = cfg.lo
	for w0 := cfg.lo; w0 <= cfg.hi; w0++ {
		g.total += compositions(step.n-w0, outerDigits)
	}
	return g, nil
}

// limit returns the largest value digit k may take given the digits before it.
func (g *Generator) limit(k int) int {
	if k == 0 {
		return g.hi
	}
	r := g.step.n
	for i := 0; i < k; i++ {
		r -= g.w[i]
	}
	return r
}

// advance moves the odometer one position, carrying outward on overflow.
func (g *Generator) advance() {
	for k := outerDigits - 1; k >= 0; k-- {
		g.w[k]++
		if g.w[k] <= g.limit(k) {
			return
		}
		g.w[k] = 0
	}
	g.done = true
}

// Next emits the current point and advances. It returns false once the
// cursor is exhausted.
func (g *Generator) Next() (model.WeightVector, bool) {
	if g.done {
		return model.WeightVector{}, false
	}
	var d [model.WeightDims]int
	copy(d[:outerDigits], g.w[:])
	d[outerDigits] = g.limit(outerDigits)
	v := g.step.vector(&d)
	g.emitted++
	g.advance()
	return v, true
}

// NextChunk returns up to maxCount vectors, fewer only when the cursor runs out.
func (g *Generator) NextChunk(maxCount int) []model.WeightVector {
	n := g.chunkLen(maxCount)
	if n == 0 {
		return nil
	}
	out := make([]model.WeightVector, 0, n)
	for len(out) < n {
		v, ok := g.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	metrics.RecordVectorsEnumerated(metrics.ModeGenerator, len(out))
	return out
}

// NextChunkFlat is NextChunk laid out as seven values per vector in flat
// buffer order.
func (g *Generator) NextChunkFlat(maxCount int) []float64 {
	n := g.chunkLen(maxCount)
	if n == 0 {
		return nil
	}
	out := make([]float64, 0, n*model.WeightDims)
	for i := 0; i < n; i++ {
		v, ok := g.Next()
		if !ok {
			break
		}
		out = v.AppendFlat(out)
	}
	metrics.RecordVectorsEnumerated(metrics.ModeGenerator, len(out)/model.WeightDims)
	return out
}

func (g *Generator) chunkLen(maxCount int) int {
	if maxCount <= 0 || g.done {
		return 0
	}
	return min(maxCount, g.Remaining())
}

// Done reports whether the cursor is exhausted.
func (g *Generator) Done() bool { return g.done }

// Emitted returns how many vectors have been produced so far. It is also the
// index of the next vector in the cursor's sequence.
func (g *Generator) Emitted() int { return g.emitted }

// Total returns the number of points in the cursor's range.
func (g *Generator) Total() int { return g.total }

// Remaining returns Total minus Emitted.
func (g *Generator) Remaining() int { return g.total - g.emitted }

// Step returns the cursor's resolution.
func (g *Generator) Step() Step { return g.step }
