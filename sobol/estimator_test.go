// SPDX-License-Identifier: MIT

package sobol_test

import (
	"context"
	"math"
	"testing"

	"github.com/katalvlaran/lvsobol/design"
	"github.com/katalvlaran/lvsobol/sobol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMartinez_ReplicatedBlock covers the N=100, d=2, q=1 design in which E0
// repeats B: input 0 then explains all of the variance and input 1 none of it.
func TestMartinez_ReplicatedBlock(t *testing.T) {
	t.Parallel()

	in, out := scenarioDesign(t, 100, "B")
	alg, err := sobol.New(in, out, 100)
	require.NoError(t, err)

	first, err := alg.FirstOrderIndices()
	require.NoError(t, err)
	require.Equal(t, 1, first.Size())
	require.Equal(t, 2, first.Dimension())

	s0, _ := first.At(0, 0)
	s1, _ := first.At(0, 1)
	assert.InDelta(t, 1.0, s0, epsLoose)
	assert.Less(t, math.Abs(s1), 0.35)

	agg, err := alg.AggregatedFirstOrderIndices()
	require.NoError(t, err)
	assert.Equal(t, []float64{s0, s1}, agg, "q=1 aggregation is the identity")
}

// TestMartinez_CopyOfA checks the total-order reading: E0 == A gives ρ(A, E0) = 1
// and therefore a vanishing total index.
func TestMartinez_CopyOfA(t *testing.T) {
	t.Parallel()

	in, out := scenarioDesign(t, 100, "A")
	alg, err := sobol.New(in, out, 100)
	require.NoError(t, err)

	total, err := alg.TotalOrderIndices()
	require.NoError(t, err)
	st0, _ := total.At(0, 0)
	st1, _ := total.At(0, 1)
	assert.InDelta(t, 0.0, st0, epsLoose)
	assert.InDelta(t, 1.0, st1, 0.35)

	first, err := alg.FirstOrderIndices()
	require.NoError(t, err)
	s0, _ := first.At(0, 0)
	assert.Less(t, math.Abs(s0), 0.35, "ρ(B, A) of independent noise")
}

func TestEstimators_Ishigami(t *testing.T) {
	t.Parallel()

	wantFirst, wantTotal := design.IshigamiIndices(7, 0.1)
	cases := []struct {
		name string
		est  sobol.Estimator
		tol  float64
	}{
		{"martinez", sobol.Martinez{}, 0.06},
		{"jansen", sobol.Jansen{}, 0.09},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			alg := ishigami(t, 10000, sobol.WithEstimator(tc.est))
			assert.Equal(t, tc.name, alg.Estimator().Name())

			first, err := alg.AggregatedFirstOrderIndices()
			require.NoError(t, err)
			total, err := alg.AggregatedTotalOrderIndices()
			require.NoError(t, err)
			assert.InDeltaSlice(t, wantFirst, first, tc.tol)
			assert.InDeltaSlice(t, wantTotal, total, tc.tol)
		})
	}
}

func TestSaltelli_LinearAdditive(t *testing.T) {
	t.Parallel()

	coeffs := []float64{1, 2, 3}
	alg, err := sobol.NewFromDistribution(context.Background(),
		design.NormalDistribution(3), 10000, design.LinearAdditive(coeffs),
		sobol.WithEstimator(sobol.Saltelli{}), sobol.WithDesignSeed(3))
	require.NoError(t, err)

	want := design.LinearAdditiveIndices(coeffs)
	first, err := alg.AggregatedFirstOrderIndices()
	require.NoError(t, err)
	total, err := alg.AggregatedTotalOrderIndices()
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, first, 0.1)
	assert.InDeltaSlice(t, want, total, 0.1)
}

func TestEstimator_ParallelismDoesNotChangeResult(t *testing.T) {
	t.Parallel()

	seq := ishigami(t, 500, sobol.WithParallelism(1))
	par := ishigami(t, 500, sobol.WithParallelism(8))

	a, err := seq.FirstOrderIndices()
	require.NoError(t, err)
	b, err := par.FirstOrderIndices()
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestEstimator_DegenerateOutput(t *testing.T) {
	t.Parallel()

	constant := design.NewFuncModel(2, 1, func([]float64) []float64 { return []float64{4} })
	alg, err := sobol.NewFromDistribution(context.Background(),
		design.UniformDistribution(2), 20, constant)
	require.NoError(t, err)

	_, err = alg.FirstOrderIndices()
	assert.ErrorIs(t, err, sobol.ErrDegenerateSample)
	_, err = alg.AggregatedTotalOrderIndices()
	assert.ErrorIs(t, err, sobol.ErrDegenerateSample, "the failure is sticky")
	_, err = alg.TotalOrderIndicesInterval(context.Background())
	assert.ErrorIs(t, err, sobol.ErrDegenerateSample)
}

// TestMartinez_ConstantMixedBlock keeps A and B informative but freezes E0.
func TestMartinez_ConstantMixedBlock(t *testing.T) {
	t.Parallel()

	const n = 10
	rows := make([][]float64, 0, 4*n)
	for k := 0; k < 4; k++ {
		for j := 0; j < n; j++ {
			v := float64(j*j + k)
			if k == 2 {
				v = 1
			}
			rows = append(rows, []float64{v})
		}
	}
	l, err := sobol.NewLayout(mustRows(t, rows), n, 2)
	require.NoError(t, err)

	ref := l.StatsA().Variance
	_, _, err = sobol.Martinez{}.ComputeIndices(context.Background(), l, ref, 2)
	assert.ErrorIs(t, err, sobol.ErrDegenerateSample)

	_, _, err = sobol.Martinez{}.ComputeIndices(context.Background(), l, []float64{1, 2}, 2)
	assert.ErrorIs(t, err, sobol.ErrDimensionMismatch)

	// Jansen only needs differences and tolerates the frozen block.
	vf, vti, err := sobol.Jansen{}.ComputeIndices(context.Background(), l, ref, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, vf.Size())
	assert.Equal(t, 2, vti.Dimension())
}

func TestEstimator_CancelledContext(t *testing.T) {
	t.Parallel()

	alg := ishigami(t, 50)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := sobol.Martinez{}.ComputeIndices(ctx, alg.Layout(), alg.Layout().StatsA().Variance, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
