package evaluate

import (
	"fmt"

	model "github.com/okian/smartscore/internal/domain/model"
)

// PositiveThreshold splits scores and outcomes into positive and negative.
const PositiveThreshold = 0.5

// Threshold returns the fraction of players whose predicted outcome
// (score above PositiveThreshold) matches the recorded one. Every record must
// carry an outcome.
func Threshold(players []model.PlayerRecord, scores []float64) (float64, error) {
	if len(players) != len(scores) {
		return 0, fmt.Errorf("%w: %d scores for %d players", ErrLengthMismatch, len(scores), len(players))
	}
	if len(players) == 0 {
		return 0, nil
	}
	correct := 0
	for i := range players {
		scored := players[i].Scored
		if scored == nil {
			return 0, fmt.Errorf("%w: record %d", ErrMissingOutcome, i)
		}
		if (scores[i] > PositiveThreshold) == (*scored > PositiveThreshold) {
			correct++
		}
	}
	return float64(correct) / float64(len(players)), nil
}
