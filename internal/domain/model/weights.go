package model

import "fmt"

// WeightDims is the number of scoring coefficients in a WeightVector.
const WeightDims = 7

// WeightVector holds one non-negative coefficient per scoring feature.
//
// Field order is the flat buffer order shared with hosts: base rate,
// trailing-window rate, home rate, total-against rate, opponent-against rate,
// interaction term, home indicator.
type WeightVector struct {
	GPG        float64
	FiveGPG    float64
	HGPG       float64
	TGPG       float64
	OTGA       float64
	HPPGOTSHGA float64
	IsHome     float64
}

// FixedWeights returns 1.0 for every component.
// Only meaningful on raw stats, before normalization.
func FixedWeights() WeightVector {
	return WeightVector{GPG: 1, FiveGPG: 1, HGPG: 1, TGPG: 1, OTGA: 1, HPPGOTSHGA: 1, IsHome: 1}
}

// EqualWeights returns 1/7 for every component.
func EqualWeights() WeightVector {
	return FixedWeights().Scale(1.0 / WeightDims)
}

// FromComponents builds a vector from components in flat buffer order.
func FromComponents(c [WeightDims]float64) WeightVector {
	return WeightVector{GPG: c[0], FiveGPG: c[1], HGPG: c[2], TGPG: c[3], OTGA: c[4], HPPGOTSHGA: c[5], IsHome: c[6]}
}

// Components returns the coefficients in flat buffer order.
func (w WeightVector) Components() [WeightDims]float64 {
	return [WeightDims]float64{w.GPG, w.FiveGPG, w.HGPG, w.TGPG, w.OTGA, w.HPPGOTSHGA, w.IsHome}
}

// AppendFlat appends the components to dst in flat buffer order.
func (w WeightVector) AppendFlat(dst []float64) []float64 {
	return append(dst, w.GPG, w.FiveGPG, w.HGPG, w.TGPG, w.OTGA, w.HPPGOTSHGA, w.IsHome)
}

// Sum returns the total of all components.
func (w WeightVector) Sum() float64 {
	return w.GPG + w.FiveGPG + w.HGPG + w.TGPG + w.OTGA + w.HPPGOTSHGA + w.IsHome
}

// Scale multiplies every component by k.
func (w WeightVector) Scale(k float64) WeightVector {
	c := w.Components()
	for i := range c {
		c[i] *= k
	}
	return FromComponents(c)
}

// Normalized divides every component by the sum. A zero or negative sum
// leaves the vector unchanged.
func (w WeightVector) Normalized() WeightVector {
	sum := w.Sum()
	if sum <= 0 {
		return w
	}
	return w.Scale(1 / sum)
}

func (w WeightVector) String() string {
	return fmt.Sprintf("Weights(gpg: %.6f, five_gpg: %.6f, hgpg: %.6f, tgpg: %.6f, otga: %.6f, hppg_otshga: %.6f, is_home: %.6f)",
		w.GPG, w.FiveGPG, w.HGPG, w.TGPG, w.OTGA, w.HPPGOTSHGA, w.IsHome)
}

// VectorsFromFlat splits a flat buffer into vectors. Trailing values that do
// not fill a whole vector are reported as ErrFlatLength.
func VectorsFromFlat(flat []float64) ([]WeightVector, error) {
	if len(flat)%WeightDims != 0 {
		return nil, fmt.Errorf("%w: %d values", ErrFlatLength, len(flat))
	}
	out := make([]WeightVector, 0, len(flat)/WeightDims)
	for i := 0; i < len(flat); i += WeightDims {
		var c [WeightDims]float64
		copy(c[:], flat[i:i+WeightDims])
		out = append(out, FromComponents(c))
	}
	return out, nil
}
