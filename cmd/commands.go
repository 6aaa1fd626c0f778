package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	service "github.com/okian/smartscore/internal/app"
	"github.com/okian/smartscore/internal/config"
	"github.com/okian/smartscore/internal/domain/lattice"
	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/pkg/logger"
	"github.com/spf13/cobra"
)

// censusCmd enumerates the lattice for the configured step and checks that
// every vector is accounted for and sums to N steps.
func (c *cli) censusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "census",
		Short: "Enumerate the weight lattice and verify its size",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			step, err := lattice.StepFromPercent(c.cfg.StepPercent)
			if err != nil {
				return err
			}

			start := time.Now()
			want := float64(step.N()) * step.Value()
			var count int
			var drift float64
			observe := func(vs []model.WeightVector) {
				for _, v := range vs {
					count++
					drift = math.Max(drift, math.Abs(v.Sum()-want))
				}
			}

			switch c.cfg.Mode {
			case config.ModeBulk:
				vs, err := lattice.Enumerate(ctx, step,
					lattice.WithWorkers(c.cfg.WorkerCount),
					lattice.WithMaxVectors(c.cfg.MaxVectors),
				)
				if err != nil {
					return err
				}
				observe(vs)
			default:
				gen, err := lattice.NewGenerator(step)
				if err != nil {
					return err
				}
				for !gen.Done() {
					if err := ctx.Err(); err != nil {
						return err
					}
					observe(gen.NextChunk(c.cfg.ChunkSize))
				}
			}

			c.log.Info(ctx, "census finished",
				logger.String("mode", c.cfg.Mode),
				logger.Int("vectors", count),
				logger.Duration("took", time.Since(start)),
			)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s mode=%s\n", step, c.cfg.Mode)
			fmt.Fprintf(out, "expected=%d enumerated=%d max_sum_drift=%.3g\n", step.Size(), count, drift)
			if count != step.Size() {
				return fmt.Errorf("enumerated %d vectors, expected %d", count, step.Size())
			}
			return nil
		},
	}
}

// compareCmd checks that bulk enumeration and the generator produce the same
// vectors.
func (c *cli) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Check bulk enumeration against the generator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			step, err := lattice.StepFromPercent(c.cfg.StepPercent)
			if err != nil {
				return err
			}

			bulk, err := lattice.Enumerate(ctx, step,
				lattice.WithWorkers(c.cfg.WorkerCount),
				lattice.WithMaxVectors(c.cfg.MaxVectors),
			)
			if err != nil {
				return err
			}
			gen, err := lattice.NewGenerator(step)
			if err != nil {
				return err
			}

			// Bulk order depends on scheduling, so compare as multisets.
			pending := make(map[model.WeightVector]int, len(bulk))
			for _, v := range bulk {
				pending[v]++
			}
			i := 0
			for !gen.Done() {
				for _, v := range gen.NextChunk(c.cfg.ChunkSize) {
					if pending[v] == 0 {
						return fmt.Errorf("generator vector %d %s missing from bulk output", i, v)
					}
					pending[v]--
					i++
				}
			}
			if i != len(bulk) {
				return fmt.Errorf("generator yielded %d vectors, bulk %d", i, len(bulk))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d vectors match\n", step, i)
			return nil
		},
	}
}

// selftestCmd runs the searcher over a seeded synthetic history.
func (c *cli) selftestCmd() *cobra.Command {
	var (
		seed  uint64
		dates int
	)
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Search a synthetic history and print the best and top-ranked vectors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			players := synthHistory(seed, dates)
			bounds := model.ComputeBounds(players)

			svc := service.New(
				service.WithLogger(c.log),
				service.WithWorkerCount(c.cfg.WorkerCount),
				service.WithChunkSize(c.cfg.ChunkSize),
				service.WithQueueSize(c.cfg.QueueSize),
			)

			best, err := svc.BestForStep(ctx, players, bounds, c.cfg.Step())
			if err != nil {
				return err
			}
			top, err := svc.TopN(ctx, players, bounds, c.cfg.TopN)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "players=%d best=%s correct=%d/%d evaluated=%d\n",
				len(players), best.Weights, best.Correct, best.Total, best.Evaluated)
			for _, r := range top {
				fmt.Fprintf(out, "%2d %.4f %s\n", r.Rank, r.Accuracy, r.Weights)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed for the synthetic history")
	cmd.Flags().IntVar(&dates, "dates", 20, "number of match dates to generate")
	return cmd
}

// synthHistory builds a date-sorted history with three players per category
// per date.
func synthHistory(seed uint64, dates int) []model.PlayerRecord {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]model.PlayerRecord, 0, dates*model.Categories*3)
	for d := range dates {
		date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d).Format(time.DateOnly)
		for tims := 1; tims <= model.Categories; tims++ {
			for range 3 {
				gpg := rng.Float64()
				out = append(out, model.PlayerRecord{
					GPG:     gpg,
					HGPG:    gpg * (0.5 + rng.Float64()),
					FiveGPG: rng.Float64() * 2,
					TGPG:    2 + rng.Float64()*2,
					OTGA:    2 + rng.Float64()*2,
					HPPG:    rng.Float64() * 0.3,
					OTSHGA:  25 + rng.Float64()*10,
					IsHome:  float64(rng.IntN(2)),
					Scored:  model.Float(scoredDraw(rng, gpg)),
					Tims:    model.Int(tims),
					Date:    model.String(date),
				})
			}
		}
	}
	return out
}

// scoredDraw makes scoring more likely for higher goals-per-game.
func scoredDraw(rng *rand.Rand, gpg float64) float64 {
	if rng.Float64() < 0.2+0.6*gpg {
		return 1
	}
	return 0
}
