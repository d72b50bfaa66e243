// SPDX-License-Identifier: MIT
// Package: sample
//
// Purpose:
//   - Per-column statistics (mean, variance, standard deviation) and the
//     centering / z-scoring transforms used by the pick-freeze estimators.
//
// Notes:
//   - Variance uses the unbiased (n-1) denominator, matching gonum stat.MeanVariance.
//   - Centered and Standardized return column-major copies; s is never mutated.

package sample

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	opColumnStats  = "ColumnStats"
	opCentered     = "Centered"
	opStandardized = "Standardized"
)

// ColumnStats holds per-column moments of a Sample.
type ColumnStats struct {
	Mean     []float64
	Variance []float64
	StdDev   []float64
}

// Stats computes the mean, unbiased variance and standard deviation of every column.
// Stage 1 (Validate): s non-nil with at least two points.
// Stage 2 (Execute): one stat.MeanVariance pass per column.
//
// Complexity: Time O(n*d), Space O(n + d).
func (s *Sample) Stats() (ColumnStats, error) {
	if s == nil {
		return ColumnStats{}, sampleErrorf(opColumnStats, ErrNilSample)
	}
	if s.n < 2 {
		return ColumnStats{}, sampleErrorf(opColumnStats, ErrTooFewPoints)
	}

	st := ColumnStats{
		Mean:     make([]float64, s.d),
		Variance: make([]float64, s.d),
		StdDev:   make([]float64, s.d),
	}
	col := make([]float64, s.n)
	var i, j int
	for j = 0; j < s.d; j++ {
		for i = 0; i < s.n; i++ {
			col[i] = s.data[i*s.d+j]
		}
		st.Mean[j], st.Variance[j] = stat.MeanVariance(col, nil)
		st.StdDev[j] = math.Sqrt(st.Variance[j])
	}

	return st, nil
}

// Centered returns the columns of s with mean[j] subtracted from column j.
// len(mean) must equal Dimension().
// Complexity: O(n*d).
func (s *Sample) Centered(mean []float64) ([][]float64, error) {
	if len(mean) != s.d {
		return nil, sampleErrorf(opCentered, ErrDimensionMismatch)
	}
	cols := s.Columns()
	for j := range cols {
		floats.AddConst(-mean[j], cols[j])
	}

	return cols, nil
}

// Standardized returns the centered columns of s divided by std[j].
// A zero entry in std is rejected with ErrNaNInf, since the z-scores of that
// column would not be finite.
// Complexity: O(n*d).
func (s *Sample) Standardized(mean, std []float64) ([][]float64, error) {
	if len(std) != s.d {
		return nil, sampleErrorf(opStandardized, ErrDimensionMismatch)
	}
	cols, err := s.Centered(mean)
	if err != nil {
		return nil, err
	}
	for j := range cols {
		if std[j] == 0 {
			return nil, sampleErrorf(opStandardized, ErrNaNInf)
		}
		floats.Scale(1/std[j], cols[j])
	}

	return cols, nil
}
