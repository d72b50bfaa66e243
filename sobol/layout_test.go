// SPDX-License-Identifier: MIT

package sobol_test

import (
	"testing"

	"github.com/katalvlaran/lvsobol/sample"
	"github.com/katalvlaran/lvsobol/sobol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodedOutput returns n·(2+d) rows whose single value is 1000·block + replicate.
func encodedOutput(t *testing.T, n, d int) *sample.Sample {
	t.Helper()
	rows := make([][]float64, 0, n*(2+d))
	for k := 0; k < 2+d; k++ {
		for j := 0; j < n; j++ {
			rows = append(rows, []float64{float64(1000*k + j)})
		}
	}
	return mustRows(t, rows)
}

func TestNewLayout_Blocks(t *testing.T) {
	t.Parallel()

	const n, d = 5, 3
	l, err := sobol.NewLayout(encodedOutput(t, n, d), n, d)
	require.NoError(t, err)
	assert.Equal(t, n, l.Size())
	assert.Equal(t, d, l.InputDimension())
	assert.Equal(t, 1, l.OutputDimension())

	first := func(s *sample.Sample) float64 {
		v, err := s.At(0, 0)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, 0.0, first(l.A()))
	assert.Equal(t, 1000.0, first(l.B()))
	for i := 0; i < d; i++ {
		assert.Equal(t, float64(1000*(2+i)), first(l.E(i)))
		assert.Equal(t, n, l.E(i).Size())
	}

	// Replicates 0..4 have mean 2 and sample variance 2.5 in every block.
	assert.InDelta(t, 2.0, l.StatsA().Mean[0], epsTight)
	assert.InDelta(t, 1002.0, l.StatsB().Mean[0], epsTight)
	assert.InDelta(t, 2.5, l.StatsE(1).Variance[0], epsTight)
}

func TestNewLayout_Errors(t *testing.T) {
	t.Parallel()

	out := encodedOutput(t, 4, 2)

	_, err := sobol.NewLayout(nil, 4, 2)
	assert.ErrorIs(t, err, sobol.ErrNilSample)

	_, err = sobol.NewLayout(out, 4, 3)
	assert.ErrorIs(t, err, sobol.ErrInvalidConfiguration, "rows != size·(2+d)")

	_, err = sobol.NewLayout(out, 1, 14)
	assert.ErrorIs(t, err, sobol.ErrInvalidConfiguration, "size below 2")

	_, err = sobol.NewLayout(out, 4, 0)
	assert.ErrorIs(t, err, sobol.ErrInvalidConfiguration, "no inputs")
}

func TestLayout_ResampleKeepsPairing(t *testing.T) {
	t.Parallel()

	const n, d = 6, 2
	l, err := sobol.NewLayout(encodedOutput(t, n, d), n, d)
	require.NoError(t, err)

	r, err := l.Resample([]int{2, 2, 5, 0})
	require.NoError(t, err)
	require.Equal(t, 4, r.Size())
	require.Equal(t, d, r.InputDimension())

	blocks := []*sample.Sample{r.A(), r.B(), r.E(0), r.E(1)}
	for k, blk := range blocks {
		col, err := blk.Column(0)
		require.NoError(t, err)
		base := float64(1000 * k)
		assert.Equal(t, []float64{base + 2, base + 2, base + 5, base}, col, "block %d", k)
	}

	_, err = l.Resample([]int{0, n})
	assert.ErrorIs(t, err, sobol.ErrInvalidConfiguration)
}
