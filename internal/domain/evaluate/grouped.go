// Package evaluate turns a score set into a correctness measure against
// historical outcomes.
package evaluate

import (
	"fmt"

	model "github.com/okian/smartscore/internal/domain/model"
)

// slot holds the current pick for one category within a run.
type slot struct {
	index int
	score float64
	ok    bool
}

// picks is the fixed per-run selection, one slot per category.
type picks [model.Categories]slot

func (p *picks) offer(cat, index int, score float64) {
	s := &p[cat]
	// Strictly greater, so the first of equal scores keeps the slot.
	if !s.ok || score > s.score {
		*s = slot{index: index, score: score, ok: true}
	}
}

func (p *picks) correct(players []model.PlayerRecord) int {
	n := 0
	for _, s := range p {
		if s.ok && players[s.index].ScoredTruthy() {
			n++
		}
	}
	return n
}

// Grouped picks the top-scoring player of each category within every run of
// consecutive records sharing a date, and counts picks that scored.
//
// Every run adds Categories to Total whether or not each category had a
// member. Records without a category in 1..3 stay in the run but are never
// picked. The batch is expected to be sorted by date.
func Grouped(players []model.PlayerRecord, scores []float64) (model.Tally, error) {
	if len(players) != len(scores) {
		return model.Tally{}, fmt.Errorf("%w: %d scores for %d players", ErrLengthMismatch, len(scores), len(players))
	}
	var tally model.Tally
	if len(players) == 0 {
		return tally, nil
	}

	var run picks
	date := players[0].Date
	for i := range players {
		p := &players[i]
		if !model.SameDate(date, p.Date) {
			tally.Correct += run.correct(players)
			tally.Total += model.Categories
			run = picks{}
			date = p.Date
		}
		if cat, ok := p.Category(); ok {
			run.offer(cat, i, scores[i])
		}
	}
	tally.Correct += run.correct(players)
	tally.Total += model.Categories
	return tally, nil
}
