// SPDX-License-Identifier: MIT

package sobol

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const opBootstrap = "Bootstrap"

// maxDegenerateFraction is the share of resamples that may be dropped as
// degenerate before the interval itself fails.
const maxDegenerateFraction = 0.5

// AggregateFunc evaluates the aggregated first- and total-order indices of a Layout.
type AggregateFunc func(ctx context.Context, l *Layout) (first, total []float64, err error)

// Resampler derives bootstrap intervals for the aggregated indices of l.
// eval recomputes the aggregated indices of one resampled layout; cfg carries
// the confidence level, resample count and seed.
type Resampler interface {
	Intervals(ctx context.Context, l *Layout, cfg IntervalConfig, eval AggregateFunc) (first, total Interval, err error)
}

// PercentileBootstrap redraws the N replicates with replacement BootstrapSize
// times, recomputes the aggregated indices of each resample and returns the
// empirical (1-c)/2 and (1+c)/2 quantiles per input.
//
// Resample b always uses stream b of cfg.Seed, so results do not depend on
// Parallelism or goroutine scheduling.
//
// A resample whose eval fails with ErrDegenerateSample (a block that became
// constant after redrawing) is dropped and the quantiles are read from the
// remaining draws. When more than half of the resamples are dropped the
// interval fails with ErrDegenerateSample.
type PercentileBootstrap struct {
	// Parallelism bounds concurrent resamples; <=0 means unbounded.
	Parallelism int
}

// Intervals implements Resampler.
// Stage 1 (Validate): cfg, l and eval.
// Stage 2 (Resample): errgroup over b ∈ [0, BootstrapSize); each task owns row b of the results.
// Stage 3 (Filter): drop degenerate resamples, fail past maxDegenerateFraction.
// Stage 4 (Quantiles): sort per input and read the empirical quantiles.
//
// Complexity: Time O(B·cost(eval) + B·log B·d), Space O(B·d).
func (pb PercentileBootstrap) Intervals(ctx context.Context, l *Layout, cfg IntervalConfig, eval AggregateFunc) (Interval, Interval, error) {
	if err := cfg.Validate(); err != nil {
		return Interval{}, Interval{}, sobolErrorf(opBootstrap, err)
	}
	if cfg.BootstrapSize < 1 {
		return Interval{}, Interval{}, fmt.Errorf("%s: bootstrap size %d: %w", opBootstrap, cfg.BootstrapSize, ErrInvalidConfiguration)
	}
	if l == nil || eval == nil {
		return Interval{}, Interval{}, sobolErrorf(opBootstrap, ErrNilSample)
	}

	nb := cfg.BootstrapSize
	firsts := make([][]float64, nb)
	totals := make([][]float64, nb)
	var dropped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if pb.Parallelism > 0 {
		g.SetLimit(pb.Parallelism)
	}
	for b := 0; b < nb; b++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			idx := make([]int, l.Size())
			drawReplicates(idx, l.Size(), streamRNG(cfg.Seed, uint64(b)))
			rl, err := l.Resample(idx)
			if err != nil {
				return err
			}
			f, t, err := eval(gctx, rl)
			if errors.Is(err, ErrDegenerateSample) {
				dropped.Add(1)
				return nil
			}
			if err != nil {
				return fmt.Errorf("resample %d: %w", b, err)
			}
			firsts[b], totals[b] = f, t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Interval{}, Interval{}, sobolErrorf(opBootstrap, err)
	}
	if n := dropped.Load(); n > 0 {
		if float64(n) > maxDegenerateFraction*float64(nb) {
			return Interval{}, Interval{}, fmt.Errorf("%s: %d of %d resamples: %w", opBootstrap, n, nb, ErrDegenerateSample)
		}
		firsts = slices.DeleteFunc(firsts, func(f []float64) bool { return f == nil })
		totals = slices.DeleteFunc(totals, func(t []float64) bool { return t == nil })
	}

	alpha := 1 - cfg.ConfidenceLevel
	fo := percentileInterval(firsts, alpha)
	to := percentileInterval(totals, alpha)
	if cfg.ClampIndices {
		fo.clampUnit()
		to.clampUnit()
	}

	return fo, to, nil
}

// percentileInterval reads the empirical alpha/2 and 1-alpha/2 quantiles of
// every column of draws (B rows of length d).
func percentileInterval(draws [][]float64, alpha float64) Interval {
	d := len(draws[0])
	iv := Interval{Lower: make([]float64, d), Upper: make([]float64, d)}
	col := make([]float64, len(draws))
	for p := 0; p < d; p++ {
		for b := range draws {
			col[b] = draws[b][p]
		}
		slices.Sort(col)
		iv.Lower[p] = stat.Quantile(alpha/2, stat.Empirical, col, nil)
		iv.Upper[p] = stat.Quantile(1-alpha/2, stat.Empirical, col, nil)
	}

	return iv
}
