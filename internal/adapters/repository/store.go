// Package repository keeps the best-ranked weight vectors of a search.
package repository

import (
	"context"

	model "github.com/okian/smartscore/internal/domain/model"
)

// Entry represents one ranked candidate.
type Entry struct {
	Rank     int
	Seq      int // position in the candidate sequence
	Weights  model.WeightVector
	Accuracy float64
}

// Store provides write and read access to the ranking.
type Store interface {
	// Insert offers a candidate. It returns false when the candidate did not
	// make the retained set.
	Insert(ctx context.Context, seq int, w model.WeightVector, accuracy float64) bool

	// TopN returns up to n entries ordered by accuracy desc, then seq asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of retained entries.
	Count(ctx context.Context) int
}
