package lattice_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/smartscore/internal/domain/lattice"
	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSteps = []float64{1, 0.5, 0.25, 0.2}

func multiset(vs []model.WeightVector) map[model.WeightVector]int {
	m := make(map[model.WeightVector]int, len(vs))
	for _, v := range vs {
		m[v]++
	}
	return m
}

func drain(t *testing.T, step lattice.Step, opts ...lattice.GeneratorOption) []model.WeightVector {
	t.Helper()
	g, err := lattice.NewGenerator(step, opts...)
	require.NoError(t, err)
	return g.NextChunk(math.MaxInt)
}

func TestNewStep(t *testing.T) {
	valid := map[float64]int{
		1: 1, 0.5: 2, 0.25: 4, 0.2: 5, 0.1: 10, 0.05: 20, 0.01: 100,
		0.03: 33, 0.3: 3, 0.15: 7, 0.7: 1,
	}
	for v, n := range valid {
		s, err := lattice.NewStep(v)
		require.NoError(t, err, "step %v", v)
		assert.Equal(t, n, s.N())
		assert.Equal(t, v, s.Value())
	}

	for _, v := range []float64{0, -0.1, 1.5, math.NaN(), math.Inf(1)} {
		_, err := lattice.NewStep(v)
		assert.True(t, errors.Is(err, lattice.ErrInvalidStep), "step %v", v)
	}
}

func TestStepFromPercent(t *testing.T) {
	s, err := lattice.StepFromPercent(10)
	require.NoError(t, err)
	assert.Equal(t, 10, s.N())
	assert.InDelta(t, 0.1, s.Value(), 1e-15)

	for p, n := range map[int]int{3: 33, 30: 3, 15: 7, 100: 1} {
		s, err := lattice.StepFromPercent(p)
		require.NoError(t, err, "percent %d", p)
		assert.Equal(t, n, s.N(), "percent %d", p)
	}

	for _, p := range []int{0, -5, 101} {
		_, err := lattice.StepFromPercent(p)
		assert.ErrorIs(t, err, lattice.ErrInvalidStep, "percent %d", p)
	}
}

func TestSize(t *testing.T) {
	cases := map[int]int{-1: 0, 0: 1, 1: 7, 2: 28, 4: 210, 5: 462, 10: 8008, 100: 1_705_904_746}
	for n, want := range cases {
		assert.Equal(t, want, lattice.Size(n), "n=%d", n)
	}
	assert.Equal(t, 8008, lattice.MustStep(0.1).Size())
}

func TestEnumerateMatchesGenerator(t *testing.T) {
	for _, v := range testSteps {
		step := lattice.MustStep(v)

		bulk, err := lattice.Enumerate(context.Background(), step, lattice.WithWorkers(3))
		require.NoError(t, err)
		seq := drain(t, step)

		assert.Len(t, bulk, step.Size(), "bulk size at %s", step)
		assert.Len(t, seq, step.Size(), "generator size at %s", step)

		bm, sm := multiset(bulk), multiset(seq)
		assert.Equal(t, bm, sm, "multisets differ at %s", step)
		for v, c := range sm {
			assert.Equal(t, 1, c, "duplicate %s", v)
		}
	}
}

func TestVectorsSumToOne(t *testing.T) {
	for _, v := range testSteps {
		step := lattice.MustStep(v)
		bulk, err := lattice.Enumerate(context.Background(), step)
		require.NoError(t, err)
		for _, w := range bulk {
			assert.InDelta(t, 1.0, w.Sum(), 1e-9)
			for _, c := range w.Components() {
				assert.GreaterOrEqual(t, c, 0.0)
			}
		}
	}
}

func TestUnevenStep(t *testing.T) {
	step := lattice.MustStep(0.03)
	require.Equal(t, 33, step.N())

	g, err := lattice.NewGenerator(step)
	require.NoError(t, err)
	count := 0
	for !g.Done() {
		for _, w := range g.NextChunk(4096) {
			count++
			if math.Abs(w.Sum()-0.99) > 1e-9 {
				t.Fatalf("vector %d sums to %v", count, w.Sum())
			}
		}
	}
	assert.Equal(t, step.Size(), count)

	for v, sum := range map[float64]float64{0.3: 0.9, 0.15: 1.05, 0.7: 0.7} {
		step := lattice.MustStep(v)
		bulk, err := lattice.Enumerate(context.Background(), step, lattice.WithWorkers(4))
		require.NoError(t, err)
		seq := drain(t, step)

		assert.Len(t, bulk, step.Size(), "step %v", v)
		assert.Equal(t, multiset(bulk), multiset(seq), "step %v", v)
		for _, w := range seq {
			assert.InDelta(t, sum, w.Sum(), 1e-9, "step %v", v)
		}
	}
}

func TestGeneratorOrder(t *testing.T) {
	seq := drain(t, lattice.MustStep(0.25))
	require.Len(t, seq, 210)

	assert.Equal(t, model.WeightVector{IsHome: 1}, seq[0])
	assert.Equal(t, model.WeightVector{HPPGOTSHGA: 0.25, IsHome: 0.75}, seq[1])
	assert.Equal(t, model.WeightVector{HPPGOTSHGA: 1}, seq[4])
	assert.Equal(t, model.WeightVector{OTGA: 0.25, IsHome: 0.75}, seq[5])
	assert.Equal(t, model.WeightVector{GPG: 1}, seq[len(seq)-1])
}

func TestGeneratorResumption(t *testing.T) {
	step := lattice.MustStep(0.2)
	want := drain(t, step)

	for _, chunk := range []int{1, 2, 7, 100} {
		g, err := lattice.NewGenerator(step)
		require.NoError(t, err)

		var got []model.WeightVector
		for !g.Done() {
			batch := g.NextChunk(chunk)
			require.LessOrEqual(t, len(batch), chunk)
			if !g.Done() {
				require.Len(t, batch, chunk, "short chunk before exhaustion")
			}
			got = append(got, batch...)
			assert.Equal(t, len(got), g.Emitted())
			assert.Equal(t, g.Total()-len(got), g.Remaining())
		}
		assert.Equal(t, want, got, "chunk size %d", chunk)
	}
}

func TestGeneratorExhausted(t *testing.T) {
	g, err := lattice.NewGenerator(lattice.MustStep(1))
	require.NoError(t, err)
	assert.Equal(t, 7, g.Total())

	assert.Len(t, g.NextChunk(100), 7)
	assert.True(t, g.Done())
	assert.Equal(t, 0, g.Remaining())
	assert.Nil(t, g.NextChunk(10))
	assert.Nil(t, g.NextChunkFlat(10))

	_, ok := g.Next()
	assert.False(t, ok)
	assert.Nil(t, g.NextChunk(0))
}

func TestNextChunkFlat(t *testing.T) {
	step := lattice.MustStep(0.25)
	a, err := lattice.NewGenerator(step)
	require.NoError(t, err)
	b, err := lattice.NewGenerator(step)
	require.NoError(t, err)

	for !a.Done() {
		flat := a.NextChunkFlat(13)
		vs := b.NextChunk(13)

		var want []float64
		for _, v := range vs {
			want = v.AppendFlat(want)
		}
		require.Equal(t, want, flat)
		require.Len(t, flat, len(vs)*model.WeightDims)
	}
	assert.True(t, b.Done())
}

func TestOuterRangePartition(t *testing.T) {
	step := lattice.MustStep(0.25)
	full := drain(t, step)

	var parts []model.WeightVector
	total := 0
	for _, r := range [][2]int{{0, 0}, {1, 2}, {3, 4}} {
		g, err := lattice.NewGenerator(step, lattice.WithOuterRange(r[0], r[1]))
		require.NoError(t, err)
		total += g.Total()
		parts = append(parts, g.NextChunk(math.MaxInt)...)
	}
	assert.Equal(t, step.Size(), total)
	assert.Equal(t, full, parts)

	for _, r := range [][2]int{{-1, 2}, {3, 2}, {0, 5}} {
		_, err := lattice.NewGenerator(step, lattice.WithOuterRange(r[0], r[1]))
		assert.ErrorIs(t, err, lattice.ErrInvalidRange)
	}
}

func TestEnumerateLimits(t *testing.T) {
	step := lattice.MustStep(0.1)

	_, err := lattice.Enumerate(context.Background(), step, lattice.WithMaxVectors(100))
	assert.ErrorIs(t, err, lattice.ErrTooLarge)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = lattice.Enumerate(ctx, step)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLegacyCombinations(t *testing.T) {
	combos := lattice.LegacyCombinations()
	require.Len(t, combos, 8008)

	for _, w := range combos {
		assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	}
	assert.InDelta(t, 1.0, combos[0].HPPGOTSHGA, 1e-9)
	assert.InDelta(t, 0.1, combos[1].IsHome, 1e-9)
	assert.InDelta(t, 1.0, combos[len(combos)-1].GPG, 1e-9)
	assert.Equal(t, combos, lattice.LegacyCombinations())
}
