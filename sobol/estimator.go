// SPDX-License-Identifier: MIT

package sobol

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvsobol/sample"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Estimator computes the partial variances of a pick-freeze Layout.
//
// ComputeIndices returns two q×d matrices:
//   - varianceFirst[q][p]: variance of output q explained by input p alone,
//   - vti[q][p]: total variance of output q involving input p.
//
// Dividing by referenceVariance[q] yields the first-order and total-order
// indices. Implementations must be free of shared mutable state so that
// bootstrap resamples can call them concurrently.
type Estimator interface {
	// Name identifies the estimator in logs and metrics.
	Name() string

	// ComputeIndices evaluates the estimator on l. parallelism bounds the
	// number of concurrent per-input tasks (<=0 means unbounded).
	ComputeIndices(ctx context.Context, l *Layout, referenceVariance []float64, parallelism int) (varianceFirst, vti *sample.Sample, err error)
}

// inputTerms holds the q partial variances of one input.
type inputTerms struct {
	first []float64
	total []float64
}

// forEachInput runs fn for every input p in [0, d) as independent errgroup
// tasks and assembles the per-input columns into q×d matrices.
// Each task owns terms[p]; nothing else is written during the parallel phase.
func forEachInput(ctx context.Context, l *Layout, parallelism int, fn func(p int) (inputTerms, error)) (*sample.Sample, *sample.Sample, error) {
	d := l.InputDimension()
	terms := make([]inputTerms, d)

	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for p := 0; p < d; p++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := fn(p)
			if err != nil {
				return fmt.Errorf("input %d: %w", p, err)
			}
			terms[p] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	firstCols := make([][]float64, d)
	totalCols := make([][]float64, d)
	for p := range terms {
		firstCols[p] = terms[p].first
		totalCols[p] = terms[p].total
	}
	first, err := sample.FromColumns(firstCols)
	if err != nil {
		return nil, nil, err
	}
	total, err := sample.FromColumns(totalCols)
	if err != nil {
		return nil, nil, err
	}

	return first, total, nil
}

// standardizedBlock z-scores a block, reporting zero deviations as ErrDegenerateSample.
func standardizedBlock(block *sample.Sample, st sample.ColumnStats, name string) ([][]float64, error) {
	for q, sd := range st.StdDev {
		if sd == 0 {
			return nil, fmt.Errorf("block %s output %d: %w", name, q, ErrDegenerateSample)
		}
	}

	return block.Standardized(st.Mean, st.StdDev)
}

// Martinez is the correlation-based estimator of Martinez (2011):
//
//	S_p  = ρ(y_B, y_E_p)
//	ST_p = 1 - ρ(y_A, y_E_p)
//
// computed from centered (A) and z-scored (B, E_p) blocks:
//
//	varianceFirst[q][p] = (yE_p[q]·yB[q]) / (N-1) · σ_A[q]²
//	VTi[q][p]           = V[q] - (yE_p[q]·yA[q]) / (N-1) · σ_A[q]
//
// The zero value is ready to use.
type Martinez struct{}

// Name implements Estimator.
func (Martinez) Name() string { return "martinez" }

// ComputeIndices implements Estimator.
// Stage 1 (Prepare): center A, z-score B once; both are shared read-only by all tasks.
// Stage 2 (Execute): per input p, z-score E_p and take the two column dot products.
//
// Errors:
//   - ErrDegenerateSample when B or any E_p has a constant output column.
//   - ErrDimensionMismatch when len(referenceVariance) != q.
//
// Complexity: Time O(N·d·q), Space O(N·q) per running task.
func (Martinez) ComputeIndices(ctx context.Context, l *Layout, referenceVariance []float64, parallelism int) (*sample.Sample, *sample.Sample, error) {
	q := l.OutputDimension()
	if len(referenceVariance) != q {
		return nil, nil, ErrDimensionMismatch
	}

	stA := l.StatsA()
	yA, err := l.A().Centered(stA.Mean)
	if err != nil {
		return nil, nil, err
	}
	yB, err := standardizedBlock(l.B(), l.StatsB(), "B")
	if err != nil {
		return nil, nil, err
	}
	denom := float64(l.Size()) - 1.0

	return forEachInput(ctx, l, parallelism, func(p int) (inputTerms, error) {
		yE, err := standardizedBlock(l.E(p), l.StatsE(p), blockName(2+p))
		if err != nil {
			return inputTerms{}, err
		}
		t := inputTerms{first: make([]float64, q), total: make([]float64, q)}
		var dotB, dotA, sigma float64
		for k := 0; k < q; k++ {
			dotB = floats.Dot(yE[k], yB[k])
			dotA = floats.Dot(yE[k], yA[k])
			sigma = stA.StdDev[k]
			t.first[k] = dotB / denom * sigma * sigma
			t.total[k] = referenceVariance[k] - dotA/denom*sigma
		}
		return t, nil
	})
}
