// SPDX-License-Identifier: MIT

package sobol

import (
	"context"

	"github.com/katalvlaran/lvsobol/sample"
	"gonum.org/v1/gonum/floats"
)

// Jansen is the squared-difference estimator of Jansen (1999):
//
//	Vi  = V - Σ (yB - yE_p)² / (2N)
//	VTi = Σ (yA - yE_p)² / (2N)
//
// It needs no centering and is robust for outputs with a large mean.
type Jansen struct{}

// Name implements Estimator.
func (Jansen) Name() string { return "jansen" }

// ComputeIndices implements Estimator.
func (Jansen) ComputeIndices(ctx context.Context, l *Layout, referenceVariance []float64, parallelism int) (*sample.Sample, *sample.Sample, error) {
	q := l.OutputDimension()
	if len(referenceVariance) != q {
		return nil, nil, ErrDimensionMismatch
	}
	yA := l.A().Columns()
	yB := l.B().Columns()
	twoN := 2.0 * float64(l.Size())

	return forEachInput(ctx, l, parallelism, func(p int) (inputTerms, error) {
		yE := l.E(p).Columns()
		t := inputTerms{first: make([]float64, q), total: make([]float64, q)}
		var dB, dA float64
		for k := 0; k < q; k++ {
			dB = floats.Distance(yB[k], yE[k], 2)
			dA = floats.Distance(yA[k], yE[k], 2)
			t.first[k] = referenceVariance[k] - dB*dB/twoN
			t.total[k] = dA * dA / twoN
		}
		return t, nil
	})
}

// Saltelli is the product estimator of Saltelli (2002) with the squared mean
// approximated by μ_A·μ_B:
//
//	Vi  = Σ yB·yE_p / N - μ_A·μ_B
//	VTi = V - (Σ yA·yE_p / N - μ_A²)
type Saltelli struct{}

// Name implements Estimator.
func (Saltelli) Name() string { return "saltelli" }

// ComputeIndices implements Estimator.
func (Saltelli) ComputeIndices(ctx context.Context, l *Layout, referenceVariance []float64, parallelism int) (*sample.Sample, *sample.Sample, error) {
	q := l.OutputDimension()
	if len(referenceVariance) != q {
		return nil, nil, ErrDimensionMismatch
	}
	yA := l.A().Columns()
	yB := l.B().Columns()
	muA, muB := l.StatsA().Mean, l.StatsB().Mean
	n := float64(l.Size())

	return forEachInput(ctx, l, parallelism, func(p int) (inputTerms, error) {
		yE := l.E(p).Columns()
		t := inputTerms{first: make([]float64, q), total: make([]float64, q)}
		for k := 0; k < q; k++ {
			t.first[k] = floats.Dot(yB[k], yE[k])/n - muA[k]*muB[k]
			t.total[k] = referenceVariance[k] - (floats.Dot(yA[k], yE[k])/n - muA[k]*muA[k])
		}
		return t, nil
	})
}
