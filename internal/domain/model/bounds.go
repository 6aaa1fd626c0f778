package model

import (
	"fmt"
	"math"
)

// Bound is the observed range of one statistic.
type Bound struct {
	Min float64
	Max float64
}

// Width returns Max - Min.
func (b Bound) Width() float64 { return b.Max - b.Min }

func (b *Bound) observe(v float64) {
	if v < b.Min {
		b.Min = v
	}
	if v > b.Max {
		b.Max = v
	}
}

// StatBounds holds the global min/max of each base statistic.
type StatBounds struct {
	GPG     Bound
	HGPG    Bound
	FiveGPG Bound
	TGPG    Bound
	OTGA    Bound
	HPPG    Bound
	OTSHGA  Bound
}

// EmptyBounds returns bounds that any observation will narrow onto.
func EmptyBounds() StatBounds {
	e := Bound{Min: math.Inf(1), Max: math.Inf(-1)}
	return StatBounds{GPG: e, HGPG: e, FiveGPG: e, TGPG: e, OTGA: e, HPPG: e, OTSHGA: e}
}

// Observe widens the bounds to include the raw stats of p.
func (s *StatBounds) Observe(p *PlayerRecord) {
	s.GPG.observe(p.GPG)
	s.HGPG.observe(p.HGPG)
	s.FiveGPG.observe(p.FiveGPG)
	s.TGPG.observe(p.TGPG)
	s.OTGA.observe(p.OTGA)
	s.HPPG.observe(p.HPPG)
	s.OTSHGA.observe(p.OTSHGA)
}

// ComputeBounds scans raw (not yet normalized) players for their bounds.
func ComputeBounds(players []PlayerRecord) StatBounds {
	b := EmptyBounds()
	for i := range players {
		b.Observe(&players[i])
	}
	return b
}

type namedBound struct {
	name  string
	bound Bound
}

func (s *StatBounds) named() [7]namedBound {
	return [7]namedBound{
		{"gpg", s.GPG}, {"hgpg", s.HGPG}, {"five_gpg", s.FiveGPG}, {"tgpg", s.TGPG},
		{"otga", s.OTGA}, {"hppg", s.HPPG}, {"otshga", s.OTSHGA},
	}
}

// Validate reports bounds that would make normalization non-finite.
func (s StatBounds) Validate() error {
	for _, nb := range s.named() {
		if math.IsNaN(nb.bound.Min) || math.IsNaN(nb.bound.Max) || math.IsInf(nb.bound.Min, 0) || math.IsInf(nb.bound.Max, 0) {
			return fmt.Errorf("%w: %s [%v, %v]", ErrNonFiniteBounds, nb.name, nb.bound.Min, nb.bound.Max)
		}
		if nb.bound.Max <= nb.bound.Min {
			return fmt.Errorf("%w: %s [%v, %v]", ErrZeroWidthBounds, nb.name, nb.bound.Min, nb.bound.Max)
		}
	}
	return nil
}
