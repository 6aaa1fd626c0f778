// Package lattice enumerates the weight vectors whose seven non-negative
// components are integer multiples of a step and sum to N steps, where
// N = round(1/step). The sum is exactly one when the step divides one and
// otherwise off by the step's quantization (0.03 gives 33 units, 0.99).
//
// The same lattice is offered two ways: Enumerate materializes it in
// parallel, and Generator walks it as a resumable cursor.
package lattice

import (
	"fmt"
	"math"

	model "github.com/okian/smartscore/internal/domain/model"
)

// Step is a validated lattice resolution. N is the number of step units that
// make up a whole vector.
type Step struct {
	value float64
	n     int
}

// NewStep validates step, which must lie in (0, 1]. N is round(1/step) and
// never less than 1.
func NewStep(step float64) (Step, error) {
	if math.IsNaN(step) || step <= 0 || step > 1 {
		return Step{}, fmt.Errorf("%w: %v", ErrInvalidStep, step)
	}
	return Step{value: step, n: max(1, int(math.Round(1/step)))}, nil
}

// StepFromPercent builds a step from a whole percentage in 1..100, so 10
// means 0.1.
func StepFromPercent(percent int) (Step, error) {
	if percent < 1 || percent > 100 {
		return Step{}, fmt.Errorf("%w: %d%%", ErrInvalidStep, percent)
	}
	return NewStep(float64(percent) / 100)
}

// MustStep is NewStep for constants known to be valid.
func MustStep(step float64) Step {
	s, err := NewStep(step)
	if err != nil {
		panic(err)
	}
	return s
}

// Value returns the step as a fraction.
func (s Step) Value() float64 { return s.value }

// N returns round(1/step).
func (s Step) N() int { return s.n }

// Size returns the number of lattice points at this step.
func (s Step) Size() int { return Size(s.n) }

func (s Step) String() string { return fmt.Sprintf("step %.4g (N=%d)", s.value, s.n) }

// Size returns C(n+6, 6), the number of ways to split n units over seven
// components. It saturates at math.MaxInt.
func Size(n int) int { return compositions(n, model.WeightDims) }

// compositions counts the ways to split n units over parts non-negative
// digits, C(n+parts-1, parts-1).
func compositions(n, parts int) int {
	if n < 0 || parts < 1 {
		return 0
	}
	size := 1
	for k := 1; k < parts; k++ {
		// size is C(n+k-1, k-1) here, so the division is exact.
		num := n + k
		if size > math.MaxInt/num {
			return math.MaxInt
		}
		size = size * num / k
	}
	return size
}

// vector scales integer digits by the step. Digits are in flat buffer order.
func (s Step) vector(d *[model.WeightDims]int) model.WeightVector {
	var c [model.WeightDims]float64
	for i, v := range d {
		c[i] = float64(v) * s.value
	}
	return model.FromComponents(c)
}
