// SPDX-License-Identifier: MIT

package sample_test

import (
	"testing"

	"github.com/katalvlaran/lvsobol/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

const epsTight = 1e-12

func TestStats_MeanVarianceStd(t *testing.T) {
	t.Parallel()

	s := mustRows(t, [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}})
	st, err := s.Stats()
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2.5, 25}, st.Mean, epsTight)
	// Unbiased variance of {1,2,3,4} is 5/3.
	assert.InDeltaSlice(t, []float64{5.0 / 3, 500.0 / 3}, st.Variance, epsTight)
	assert.InDelta(t, 1.2909944487358056, st.StdDev[0], epsTight)
}

func TestStats_TooFewPoints(t *testing.T) {
	t.Parallel()

	s := mustRows(t, [][]float64{{1, 2}})
	_, err := s.Stats()
	assert.ErrorIs(t, err, sample.ErrTooFewPoints)

	var nilSample *sample.Sample
	_, err = nilSample.Stats()
	assert.ErrorIs(t, err, sample.ErrNilSample)
}

func TestStandardized_ZeroMeanUnitStd(t *testing.T) {
	t.Parallel()

	s := mustRows(t, [][]float64{{1, 5}, {2, 7}, {3, 9}, {10, 0}})
	st, err := s.Stats()
	require.NoError(t, err)

	z, err := s.Standardized(st.Mean, st.StdDev)
	require.NoError(t, err)
	for j, col := range z {
		assert.InDelta(t, 0, floats.Sum(col), 1e-9, "column %d not centered", j)
		// Σ z² = n-1 for unit sample variance.
		assert.InDelta(t, float64(len(col)-1), floats.Dot(col, col), 1e-9, "column %d not unit", j)
	}

	// The source is untouched.
	v, _ := s.At(0, 0)
	assert.Equal(t, 1.0, v)
}

func TestStandardized_RejectsZeroStd(t *testing.T) {
	t.Parallel()

	s := mustRows(t, [][]float64{{1, 2}, {1, 3}})
	st, err := s.Stats()
	require.NoError(t, err)

	_, err = s.Standardized(st.Mean, st.StdDev)
	assert.ErrorIs(t, err, sample.ErrNaNInf)

	_, err = s.Centered([]float64{0})
	assert.ErrorIs(t, err, sample.ErrDimensionMismatch)
}
