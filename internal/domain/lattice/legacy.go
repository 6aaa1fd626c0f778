package lattice

import (
	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/pkg/metrics"
)

const (
	legacyStep    = 0.1
	legacyUnits   = 10
	legacySumLow  = 0.95
	legacySumHigh = 1.05
)

// LegacyCombinations returns the coarse 0.1 grid used by top-N ranking.
//
// Components are swept in the order gpg, hgpg, five_gpg, tgpg, otga, is_home,
// hppg_otshga with the last varying fastest. A combination is kept when its
// sum lies within 0.05 of one and is then rescaled to sum to exactly one. The
// returned order is deterministic; ranking relies on it for stable ties.
func LegacyCombinations() []model.WeightVector {
	out := make([]model.WeightVector, 0, Size(legacyUnits))
	var d [model.WeightDims]int // gpg, hgpg, five_gpg, tgpg, otga, is_home, hppg_otshga
	var sweep func(k, used int)
	sweep = func(k, used int) {
		if k == len(d) {
			w := model.WeightVector{
				GPG:        float64(d[0]) * legacyStep,
				HGPG:       float64(d[1]) * legacyStep,
				FiveGPG:    float64(d[2]) * legacyStep,
				TGPG:       float64(d[3]) * legacyStep,
				OTGA:       float64(d[4]) * legacyStep,
				IsHome:     float64(d[5]) * legacyStep,
				HPPGOTSHGA: float64(d[6]) * legacyStep,
			}
			if sum := w.Sum(); sum >= legacySumLow && sum <= legacySumHigh && sum > 0 {
				out = append(out, w.Normalized())
			}
			return
		}
		// Partial sums above ten units already miss the tolerance window.
		for d[k] = 0; used+d[k] <= legacyUnits; d[k]++ {
			sweep(k+1, used+d[k])
		}
	}
	sweep(0, 0)
	metrics.RecordVectorsEnumerated(metrics.ModeLegacy, len(out))
	return out
}
