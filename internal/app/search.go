package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/smartscore/internal/adapters/mq/worker"
	"github.com/okian/smartscore/internal/domain/evaluate"
	"github.com/okian/smartscore/internal/domain/lattice"
	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/internal/domain/scoring"
	"github.com/okian/smartscore/pkg/logger"
	"github.com/okian/smartscore/pkg/metrics"
)

const evaluatorGrouped = "grouped"

// candidate is a scored weight vector and its position in the candidate
// sequence.
type candidate struct {
	index   int
	weights model.WeightVector
	tally   model.Tally
	ok      bool
}

// beats reports whether c replaces best. More correct picks win; on equal
// counts the later candidate wins, matching a sequential >= scan.
func (c candidate) beats(best candidate) bool {
	if !best.ok {
		return true
	}
	if c.tally.Correct != best.tally.Correct {
		return c.tally.Correct > best.tally.Correct
	}
	return c.index > best.index
}

// scanBest scores ws in order against the normalized batch and returns the
// best one. scores must be as long as players.
func scanBest(ctx context.Context, players []model.PlayerRecord, scores []float64, offset int, ws []model.WeightVector) (candidate, error) {
	var best candidate
	for i, w := range ws {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return candidate{}, err
			}
		}
		if err := scoring.ScoreInto(scores, players, w); err != nil {
			return candidate{}, err
		}
		tally, err := evaluate.Grouped(players, scores)
		if err != nil {
			return candidate{}, err
		}
		if c := (candidate{index: offset + i, weights: w, tally: tally, ok: true}); c.beats(best) {
			best = c
		}
	}
	return best, nil
}

func (c candidate) result(runID string, evaluated int) model.SearchResult {
	return model.SearchResult{
		RunID:     runID,
		Weights:   c.weights,
		Correct:   c.tally.Correct,
		Total:     c.tally.Total,
		Evaluated: evaluated,
	}
}

// Best scores every candidate against the normalized batch and returns the
// one with the most correct grouped picks. Among equal counts the later
// candidate wins. The caller's players are not modified.
func (s *Searcher) Best(ctx context.Context, players []model.PlayerRecord, bounds model.StatBounds, candidates []model.WeightVector) (model.SearchResult, error) {
	if len(candidates) == 0 {
		return model.SearchResult{}, ErrNoCandidates
	}
	runID, log := s.newRun(kindBest)
	start := time.Now()
	log.Info(ctx, "search started", logger.Int("players", len(players)), logger.Int("candidates", len(candidates)))

	norm, err := prepare(players, bounds)
	if err != nil {
		return model.SearchResult{}, s.fail(ctx, log, kindBest, err)
	}
	best, err := scanBest(ctx, norm, make([]float64, len(norm)), 0, candidates)
	if err != nil {
		return model.SearchResult{}, s.fail(ctx, log, kindBest, err)
	}
	metrics.RecordCandidatesEvaluated(evaluatorGrouped, len(candidates))

	res := best.result(runID, len(candidates))
	s.finish(ctx, log, kindBest, res, time.Since(start))
	return res, nil
}

// BestFromGenerator drains gen in chunks through the worker pool and returns
// the same result Best would give over the generator's sequence.
func (s *Searcher) BestFromGenerator(ctx context.Context, players []model.PlayerRecord, bounds model.StatBounds, gen *lattice.Generator) (model.SearchResult, error) {
	if gen == nil || gen.Remaining() == 0 {
		return model.SearchResult{}, ErrNoCandidates
	}
	runID, log := s.newRun(kindGenerator)
	start := time.Now()
	log.Info(ctx, "search started",
		logger.Int("players", len(players)),
		logger.Int("candidates", gen.Remaining()),
		logger.String("step", gen.Step().String()),
		logger.Int("workers", s.workerCount),
		logger.Int("chunk_size", s.chunkSize),
	)

	norm, err := prepare(players, bounds)
	if err != nil {
		return model.SearchResult{}, s.fail(ctx, log, kindGenerator, err)
	}

	var (
		mu        sync.Mutex
		best      candidate
		evaluated int
	)
	handler := func(ctx context.Context, b model.Batch) error {
		local, err := scanBest(ctx, norm, make([]float64, len(norm)), b.Offset, b.Weights)
		if err != nil {
			return err
		}
		metrics.RecordCandidatesEvaluated(evaluatorGrouped, len(b.Weights))
		mu.Lock()
		defer mu.Unlock()
		evaluated += len(b.Weights)
		if local.ok && local.beats(best) {
			best = local
		}
		return nil
	}
	next := func() (model.Batch, bool) {
		if gen.Done() {
			return model.Batch{}, false
		}
		offset := gen.Emitted()
		return model.Batch{Offset: offset, Weights: gen.NextChunk(s.chunkSize)}, true
	}

	if err := s.fanOut(ctx, next, worker.HandlerFunc(handler)); err != nil {
		return model.SearchResult{}, s.fail(ctx, log, kindGenerator, err)
	}

	res := best.result(runID, evaluated)
	s.finish(ctx, log, kindGenerator, res, time.Since(start))
	return res, nil
}

// BestForStep searches the whole lattice at step.
func (s *Searcher) BestForStep(ctx context.Context, players []model.PlayerRecord, bounds model.StatBounds, step float64) (model.SearchResult, error) {
	st, err := lattice.NewStep(step)
	if err != nil {
		return model.SearchResult{}, err
	}
	gen, err := lattice.NewGenerator(st)
	if err != nil {
		return model.SearchResult{}, err
	}
	return s.BestFromGenerator(ctx, players, bounds, gen)
}

func (s *Searcher) fail(ctx context.Context, log logger.Logger, kind string, err error) error {
	metrics.RecordSearch(kind, "error")
	metrics.RecordError("search", kind)
	log.Error(ctx, "search failed", logger.Error(err))
	return fmt.Errorf("%s search: %w", kind, err)
}

func (s *Searcher) finish(ctx context.Context, log logger.Logger, kind string, res model.SearchResult, took time.Duration) {
	metrics.RecordSearch(kind, "ok")
	metrics.UpdateBest(res.Correct, model.Tally{Correct: res.Correct, Total: res.Total}.Ratio())
	log.Info(ctx, "search finished",
		logger.Int("correct", res.Correct),
		logger.Int("total", res.Total),
		logger.Int("evaluated", res.Evaluated),
		logger.String("weights", res.Weights.String()),
		logger.Duration("took", took),
	)
}
