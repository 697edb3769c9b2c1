package montecarlo

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidTrials is returned before anything runs when Config.Trials < 1.
var ErrInvalidTrials = errors.New("montecarlo: trials must be at least 1")

// Generator produces the randomized world of one trial. All randomness must
// come from rng; the driver hands every trial its own seeded generator.
type Generator[W any] func(rng *rand.Rand) W

// Evaluator reduces a world to the tracked quantities. It must return the
// same number of values for every world, the real one included.
type Evaluator[W any] func(world W) []float64

// Config drives one Monte Carlo run.
type Config struct {
	Trials  int
	Seed    int64
	Workers int            // trials evaluated concurrently; <= 1 means serial
	Logger  zerolog.Logger // zero value logs nothing
}

// Result holds the real statistics next to the null distribution summary.
// All vectors share the evaluator's width.
type Result struct {
	Real    []float64
	Mean    []float64   // mean across trials
	Lower   []float64   // 2.5th percentile across trials
	Upper   []float64   // 97.5th percentile across trials
	Samples [][]float64 // Samples[t] is trial t's evaluation
}

// Run evaluates the real world, then Trials randomized worlds, and reduces
// the trial samples to mean and 95% percentile interval per quantity.
//
// Trial t's world is drawn from rand.NewSource(Seed + t), so a fixed seed
// reproduces the run exactly and the worker count never changes the output.
func Run[W any](cfg Config, real W, gen Generator[W], eval Evaluator[W]) (*Result, error) {
	if cfg.Trials < 1 {
		return nil, ErrInvalidTrials
	}

	res := &Result{Real: eval(real)}

	cfg.Logger.Info().
		Int("trials", cfg.Trials).
		Int64("seed", cfg.Seed).
		Int("workers", cfg.Workers).
		Msg("running randomized trials")
	start := time.Now()

	samples := make([][]float64, cfg.Trials)
	if cfg.Workers > 1 {
		g := new(errgroup.Group)
		g.SetLimit(cfg.Workers)
		for t := 0; t < cfg.Trials; t++ {
			t := t
			g.Go(func() error {
				samples[t] = eval(gen(trialRNG(cfg.Seed, t)))
				cfg.Logger.Debug().Int("trial", t).Msg("trial complete")
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for t := 0; t < cfg.Trials; t++ {
			samples[t] = eval(gen(trialRNG(cfg.Seed, t)))
			cfg.Logger.Debug().Int("trial", t).Msg("trial complete")
		}
	}
	res.Samples = samples

	cfg.Logger.Info().
		Dur("elapsed", time.Since(start)).
		Msg("trials complete")

	if err := aggregate(res); err != nil {
		return nil, err
	}
	return res, nil
}

// trialRNG derives the generator for one trial from the master seed and the
// trial index.
func trialRNG(seed int64, trial int) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(trial)))
}

// aggregate fills Mean, Lower and Upper from Samples, column by column.
// Percentiles use the nearest-rank definition, so a single trial yields a
// degenerate interval equal to that trial's value.
func aggregate(res *Result) error {
	width := len(res.Real)
	res.Mean = make([]float64, width)
	res.Lower = make([]float64, width)
	res.Upper = make([]float64, width)

	column := make([]float64, len(res.Samples))
	for i := 0; i < width; i++ {
		for t, s := range res.Samples {
			column[t] = s[i]
		}
		mean, err := stats.Mean(column)
		if err != nil {
			return fmt.Errorf("aggregate mean: %w", err)
		}
		lower, err := stats.PercentileNearestRank(column, 2.5)
		if err != nil {
			return fmt.Errorf("aggregate lower percentile: %w", err)
		}
		upper, err := stats.PercentileNearestRank(column, 97.5)
		if err != nil {
			return fmt.Errorf("aggregate upper percentile: %w", err)
		}
		res.Mean[i], res.Lower[i], res.Upper[i] = mean, lower, upper
	}
	return nil
}
