package service

import (
	"context"
	"time"

	"github.com/okian/smartscore/internal/adapters/mq/worker"
	"github.com/okian/smartscore/internal/adapters/repository"
	"github.com/okian/smartscore/internal/domain/evaluate"
	"github.com/okian/smartscore/internal/domain/lattice"
	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/internal/domain/scoring"
	"github.com/okian/smartscore/pkg/logger"
	"github.com/okian/smartscore/pkg/metrics"
)

const evaluatorThreshold = "threshold"

// TopN ranks the legacy 0.1 grid by threshold accuracy and returns the best
// n vectors, most accurate first. Equal accuracies keep grid order. n <= 0
// means 10. Every player must carry an outcome.
func (s *Searcher) TopN(ctx context.Context, players []model.PlayerRecord, bounds model.StatBounds, n int) ([]model.Ranked, error) {
	if n <= 0 {
		n = defaultTopN
	}
	combos := lattice.LegacyCombinations()
	_, log := s.newRun(kindTopN)
	start := time.Now()
	log.Info(ctx, "search started",
		logger.Int("players", len(players)),
		logger.Int("candidates", len(combos)),
		logger.Int("top_n", n),
	)

	norm, err := prepare(players, bounds)
	if err != nil {
		return nil, s.fail(ctx, log, kindTopN, err)
	}

	store := repository.NewTreapStore(repository.WithCapacity(n))
	handler := func(ctx context.Context, b model.Batch) error {
		scores := make([]float64, len(norm))
		for i, w := range b.Weights {
			if err := scoring.ScoreInto(scores, norm, w); err != nil {
				return err
			}
			acc, err := evaluate.Threshold(norm, scores)
			if err != nil {
				return err
			}
			store.Insert(ctx, b.Offset+i, w, acc)
		}
		metrics.RecordCandidatesEvaluated(evaluatorThreshold, len(b.Weights))
		return nil
	}
	offset := 0
	next := func() (model.Batch, bool) {
		if offset >= len(combos) {
			return model.Batch{}, false
		}
		end := min(offset+s.chunkSize, len(combos))
		b := model.Batch{Offset: offset, Weights: combos[offset:end]}
		offset = end
		return b, true
	}

	if err := s.fanOut(ctx, next, worker.HandlerFunc(handler)); err != nil {
		return nil, s.fail(ctx, log, kindTopN, err)
	}

	entries, err := store.TopN(ctx, n)
	if err != nil {
		return nil, s.fail(ctx, log, kindTopN, err)
	}
	out := make([]model.Ranked, len(entries))
	for i, e := range entries {
		out[i] = model.Ranked{Rank: e.Rank, Weights: e.Weights, Accuracy: e.Accuracy}
	}

	metrics.RecordSearch(kindTopN, "ok")
	log.Info(ctx, "search finished",
		logger.Int("returned", len(out)),
		logger.Duration("took", time.Since(start)),
	)
	return out, nil
}
