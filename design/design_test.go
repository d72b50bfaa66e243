// SPDX-License-Identifier: MIT

package design_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/lvsobol/design"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// TestExperiment_PickFreezeStructure checks that every E_i row equals the
// matching A row except for column i, which comes from B.
func TestExperiment_PickFreezeStructure(t *testing.T) {
	const n, d = 16, 3
	in, err := design.Experiment{Size: n, Seed: 3}.Generate(design.UniformDistribution(d))
	require.NoError(t, err)
	require.Equal(t, n*(2+d), in.Size())
	require.Equal(t, d, in.Dimension())

	for i := 0; i < d; i++ {
		for j := 0; j < n; j++ {
			a, _ := in.Row(j)
			b, _ := in.Row(n + j)
			e, _ := in.Row((2+i)*n + j)
			for k := 0; k < d; k++ {
				if k == i {
					assert.Equal(t, b[k], e[k], "E%d[%d][%d] must come from B", i, j, k)
				} else {
					assert.Equal(t, a[k], e[k], "E%d[%d][%d] must come from A", i, j, k)
				}
			}
		}
	}
}

func TestExperiment_SeedDeterminism(t *testing.T) {
	dist := design.NormalDistribution(2)
	x1, err := design.Experiment{Size: 8, Seed: 42}.Generate(dist)
	require.NoError(t, err)
	x2, err := design.Experiment{Size: 8, Seed: 42}.Generate(dist)
	require.NoError(t, err)
	x3, err := design.Experiment{Size: 8, Seed: 43}.Generate(dist)
	require.NoError(t, err)

	assert.Equal(t, x1.String(), x2.String(), "same seed must reproduce the design")
	assert.NotEqual(t, x1.String(), x3.String(), "different seeds should differ")
}

func TestExperiment_UniformSupport(t *testing.T) {
	in, err := design.Experiment{Size: 200, Seed: 1}.Generate(design.IshigamiDistribution())
	require.NoError(t, err)
	for j := 0; j < 3; j++ {
		col, _ := in.Column(j)
		assert.GreaterOrEqual(t, floats.Min(col), -math.Pi)
		assert.LessOrEqual(t, floats.Max(col), math.Pi)
	}
}

func TestExperiment_Errors(t *testing.T) {
	_, err := design.Experiment{Size: 1}.Generate(design.UniformDistribution(2))
	assert.ErrorIs(t, err, design.ErrBadSize)

	_, err = design.Experiment{Size: 4}.Generate(design.Independent())
	assert.ErrorIs(t, err, design.ErrNoMarginals)
}

func TestEvaluate_OrderPreservedAcrossWorkers(t *testing.T) {
	in, err := design.Experiment{Size: 50, Seed: 9}.Generate(design.UniformDistribution(2))
	require.NoError(t, err)
	sum := design.NewFuncModel(2, 2, func(x []float64) []float64 {
		return []float64{x[0] + x[1], x[0] - x[1]}
	})

	seq, err := design.Evaluate(context.Background(), sum, in, 1)
	require.NoError(t, err)
	par, err := design.Evaluate(context.Background(), sum, in, 7)
	require.NoError(t, err)
	require.Equal(t, in.Size(), par.Size())
	assert.Equal(t, seq.String(), par.String())

	x, _ := in.Row(17)
	y, _ := par.Row(17)
	assert.InDelta(t, x[0]+x[1], y[0], 1e-15)
}

func TestEvaluate_Errors(t *testing.T) {
	in, err := design.Experiment{Size: 4, Seed: 1}.Generate(design.UniformDistribution(2))
	require.NoError(t, err)

	_, err = design.Evaluate(context.Background(), design.Ishigami(7, 0.1), in, 0)
	assert.ErrorIs(t, err, design.ErrDimensionMismatch)

	nan := design.NewFuncModel(2, 1, func([]float64) []float64 { return []float64{math.NaN()} })
	_, err = design.Evaluate(context.Background(), nan, in, 2)
	assert.ErrorIs(t, err, design.ErrNonFinite)

	short := design.NewFuncModel(2, 2, func([]float64) []float64 { return []float64{1} })
	_, err = design.Evaluate(context.Background(), short, in, 2)
	assert.ErrorIs(t, err, design.ErrDimensionMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = design.Evaluate(ctx, design.GFunction([]float64{0, 1}), in, 2)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClosedFormIndices(t *testing.T) {
	first, total := design.IshigamiIndices(7, 0.1)
	assert.InDelta(t, 0.3139, first[0], 1e-4)
	assert.InDelta(t, 0.4424, first[1], 1e-4)
	assert.Equal(t, 0.0, first[2])
	assert.InDelta(t, 0.5576, total[0], 1e-4)
	assert.InDelta(t, 0.2437, total[2], 1e-4)

	gf, gt := design.GFunctionIndices([]float64{0, 99})
	assert.Greater(t, gf[0], gf[1])
	for i := range gf {
		assert.LessOrEqual(t, gf[i], gt[i])
	}

	s := design.LinearAdditiveIndices([]float64{1, 2})
	assert.InDeltaSlice(t, []float64{0.2, 0.8}, s, 1e-15)
}

func TestModels_KnownValues(t *testing.T) {
	ctx := context.Background()
	y, err := design.Ishigami(7, 0.1).Evaluate(ctx, []float64{math.Pi / 2, math.Pi / 2, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1+7+0.1, y[0], 1e-12)

	y, err = design.GFunction([]float64{0}).Evaluate(ctx, []float64{0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0, y[0], 1e-15)

	_, err = design.LinearAdditive([]float64{1, 2}).Evaluate(ctx, []float64{1})
	assert.ErrorIs(t, err, design.ErrDimensionMismatch)
}

func TestEvaluate_ModelCannotMutateDesign(t *testing.T) {
	in, err := design.Experiment{Size: 20, Seed: 4}.Generate(design.UniformDistribution(2))
	require.NoError(t, err)
	before := in.Clone()

	scribble := design.NewFuncModel(2, 1, func(x []float64) []float64 {
		y := x[0] + x[1]
		x[0], x[1] = -1, -1
		return []float64{y}
	})
	out, err := design.Evaluate(context.Background(), scribble, in, 3)
	require.NoError(t, err)
	assert.Equal(t, before.Columns(), in.Columns())

	x, _ := in.Row(5)
	y, _ := out.Row(5)
	assert.InDelta(t, x[0]+x[1], y[0], 1e-15)
}
