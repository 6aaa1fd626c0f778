// Package scoring combines normalized player features into a single score
// under a weight vector.
package scoring

import (
	"fmt"

	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/internal/domain/normalize"
)

// Value returns the weighted sum of the seven scoring features of p.
func Value(p *model.PlayerRecord, w model.WeightVector) float64 {
	return p.GPG*w.GPG +
		p.FiveGPG*w.FiveGPG +
		p.HGPG*w.HGPG +
		p.TGPG*w.TGPG +
		p.OTGA*w.OTGA +
		p.HPPGOTSHGA*w.HPPGOTSHGA +
		p.IsHome*w.IsHome
}

// Score returns one score per player, in batch order.
func Score(players []model.PlayerRecord, w model.WeightVector) []float64 {
	out := make([]float64, len(players))
	for i := range players {
		out[i] = Value(&players[i], w)
	}
	return out
}

// ScoreInto writes scores into dst, which must be as long as players.
// Search workers call it once per candidate to reuse a single buffer.
func ScoreInto(dst []float64, players []model.PlayerRecord, w model.WeightVector) error {
	if len(dst) != len(players) {
		return fmt.Errorf("%w: %d scores for %d players", ErrLengthMismatch, len(dst), len(players))
	}
	for i := range players {
		dst[i] = Value(&players[i], w)
	}
	return nil
}

// Predict normalizes a copy of the raw batch and scores it. The caller's
// batch is not modified.
func Predict(players []model.PlayerRecord, bounds model.StatBounds, w model.WeightVector) []float64 {
	norm := model.ClonePlayers(players)
	normalize.Normalize(norm, bounds)
	return Score(norm, w)
}

// PredictDefault is Predict with equal weights on every feature.
func PredictDefault(players []model.PlayerRecord, bounds model.StatBounds) []float64 {
	return Predict(players, bounds, model.EqualWeights())
}
