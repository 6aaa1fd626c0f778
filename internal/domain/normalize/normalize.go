// Package normalize rescales raw player statistics onto [0, 1] using
// precomputed global bounds.
package normalize

import (
	model "github.com/okian/smartscore/internal/domain/model"
)

// Value maps v onto the unit interval of b. Zero-width bounds yield a
// non-finite result.
func Value(v float64, b model.Bound) float64 {
	return (v - b.Min) / (b.Max - b.Min)
}

// Normalize rewrites the seven base stats of every player in place and then
// recomputes the interaction term from the normalized HPPG and OTSHGA.
//
// Bounds are not validated here; see model.StatBounds.Validate.
func Normalize(players []model.PlayerRecord, bounds model.StatBounds) {
	for i := range players {
		p := &players[i]
		p.GPG = Value(p.GPG, bounds.GPG)
		p.HGPG = Value(p.HGPG, bounds.HGPG)
		p.FiveGPG = Value(p.FiveGPG, bounds.FiveGPG)
		p.TGPG = Value(p.TGPG, bounds.TGPG)
		p.OTGA = Value(p.OTGA, bounds.OTGA)
		p.HPPG = Value(p.HPPG, bounds.HPPG)
		p.OTSHGA = Value(p.OTSHGA, bounds.OTSHGA)
		p.HPPGOTSHGA = p.HPPG * p.OTSHGA
	}
}
