package model

// Batch is a contiguous run of candidate weight vectors moving through the
// work queue. Offset is the position of Weights[0] in the whole candidate
// sequence and is what makes parallel tie-breaking reproducible.
type Batch struct {
	Offset  int
	Weights []WeightVector
}

// Tally counts correct predictions out of the predictions attempted.
type Tally struct {
	Correct int
	Total   int
}

// Ratio returns Correct/Total, or 0 when nothing was predicted.
func (t Tally) Ratio() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

// SearchResult is the best candidate found by a single-best search.
type SearchResult struct {
	RunID     string
	Weights   WeightVector
	Correct   int
	Total     int
	Evaluated int
}

// Ranked is one row of a top-N search.
type Ranked struct {
	Rank     int
	Weights  WeightVector
	Accuracy float64
}
