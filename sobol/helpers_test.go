// SPDX-License-Identifier: MIT

package sobol_test

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/lvsobol/design"
	"github.com/katalvlaran/lvsobol/sample"
	"github.com/katalvlaran/lvsobol/sobol"
	"github.com/stretchr/testify/require"
)

const (
	epsTight = 1e-12
	epsLoose = 1e-9
)

// mustRows builds a Sample from rows, failing the test on error.
func mustRows(t testing.TB, rows [][]float64) *sample.Sample {
	t.Helper()
	s, err := sample.FromRows(rows)
	require.NoError(t, err)
	return s
}

// noiseBlock returns n rows of one N(0, 1) value each.
func noiseBlock(rng *rand.Rand, n int) [][]float64 {
	rows := make([][]float64, n)
	for j := range rows {
		rows[j] = []float64{rng.NormFloat64()}
	}
	return rows
}

// scenarioDesign builds the N=n, d=2, q=1 pick-freeze design in which A, B and
// E1 are independent noise and E0 replicates the block named by e0 ("A" or "B").
func scenarioDesign(t testing.TB, n int, e0 string) (input, output *sample.Sample) {
	t.Helper()
	rng := rand.New(rand.NewPCG(2024, 11))
	a := noiseBlock(rng, n)
	b := noiseBlock(rng, n)
	e1 := noiseBlock(rng, n)

	var e [][]float64
	switch e0 {
	case "A":
		e = a
	case "B":
		e = b
	default:
		t.Fatalf("unknown block %q", e0)
	}
	rows := make([][]float64, 0, 4*n)
	rows = append(rows, a...)
	rows = append(rows, b...)
	rows = append(rows, e...)
	rows = append(rows, e1...)
	output = mustRows(t, rows)

	input, err := design.Experiment{Size: n, Seed: 5}.Generate(design.UniformDistribution(2))
	require.NoError(t, err)
	return input, output
}

// ishigami runs the Ishigami(7, 0.1) study with n replicates.
func ishigami(t testing.TB, n int, opts ...sobol.Option) *sobol.Algorithm {
	t.Helper()
	opts = append([]sobol.Option{sobol.WithDesignSeed(1)}, opts...)
	alg, err := sobol.NewFromDistribution(context.Background(),
		design.IshigamiDistribution(), n, design.Ishigami(7, 0.1), opts...)
	require.NoError(t, err)
	return alg
}

// tagResampler returns intervals whose bounds encode the config it was called
// with, so tests can tell which configuration produced a cached result.
type tagResampler struct {
	calls atomic.Int32
	gate  chan struct{} // optional; blocks every call until closed
}

func (r *tagResampler) Intervals(ctx context.Context, l *sobol.Layout, cfg sobol.IntervalConfig, _ sobol.AggregateFunc) (sobol.Interval, sobol.Interval, error) {
	r.calls.Add(1)
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return sobol.Interval{}, sobol.Interval{}, ctx.Err()
		}
	}
	d := l.InputDimension()
	tag := float64(cfg.BootstrapSize)
	fo := sobol.Interval{Lower: make([]float64, d), Upper: make([]float64, d)}
	to := sobol.Interval{Lower: make([]float64, d), Upper: make([]float64, d)}
	for p := 0; p < d; p++ {
		fo.Lower[p], fo.Upper[p] = tag, tag+1
		to.Lower[p], to.Upper[p] = -tag, -tag+1
	}
	return fo, to, nil
}

func bootstrapConfig(size int, seed uint64) sobol.IntervalConfig {
	cfg := sobol.DefaultIntervalConfig()
	cfg.Method = sobol.Bootstrap
	cfg.BootstrapSize = size
	cfg.Seed = seed
	return cfg
}
