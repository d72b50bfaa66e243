// SPDX-License-Identifier: MIT

package sobol

import (
	"github.com/katalvlaran/lvsobol/sample"
	"gonum.org/v1/gonum/floats"
)

const opAggregate = "Aggregate"

// Aggregate reduces a q×d index matrix to one value per input, weighting each
// output row by its share of the total variance:
//
//	agg[p] = Σ_q indices[q][p] · variance[q] / Σ_q variance[q]
//
// With a single output the weight is 1 and agg equals that output's indices.
//
// Errors:
//   - ErrNilSample for a nil matrix.
//   - ErrDimensionMismatch when len(variance) != indices.Size().
//   - ErrDegenerateSample when the total variance is zero.
//
// Complexity: O(q·d).
func Aggregate(indices *sample.Sample, variance []float64) ([]float64, error) {
	if indices == nil {
		return nil, sobolErrorf(opAggregate, ErrNilSample)
	}
	q, d := indices.Size(), indices.Dimension()
	if len(variance) != q {
		return nil, sobolErrorf(opAggregate, ErrDimensionMismatch)
	}
	total := floats.Sum(variance)
	if total == 0 {
		return nil, sobolErrorf(opAggregate, ErrDegenerateSample)
	}

	agg := make([]float64, d)
	for k := 0; k < q; k++ {
		row, err := indices.Row(k)
		if err != nil {
			return nil, sobolErrorf(opAggregate, err)
		}
		floats.AddScaled(agg, variance[k]/total, row)
	}

	return agg, nil
}

// normalize divides row q of m by variance[q], producing the index matrix.
func normalize(m *sample.Sample, variance []float64) (*sample.Sample, error) {
	out := m.Clone()
	for k := 0; k < out.Size(); k++ {
		row, err := out.Row(k)
		if err != nil {
			return nil, err
		}
		if variance[k] == 0 {
			return nil, ErrDegenerateSample
		}
		floats.Scale(1/variance[k], row)
	}

	return out, nil
}
