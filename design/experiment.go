// SPDX-License-Identifier: MIT

package design

import (
	"fmt"
	"math/rand/v2"

	"github.com/katalvlaran/lvsobol/sample"
)

// Experiment generates the stacked pick-freeze input design
//
//	[A; B; E_0; ...; E_{d-1}],  E_i = A with column i from B,
//
// of Size·(2+d) points.
type Experiment struct {
	Size int    // replicate count N
	Seed uint64 // stream seed; the same seed yields the same design
}

// Generate draws the design for dist.
// Stage 1 (Validate): Size >= 2, dist has at least one input.
// Stage 2 (Base): draw A then B from one seeded stream.
// Stage 3 (Mix): build every E_i row from the matching A and B rows.
//
// Complexity: O(N·(2+d)·d).
func (e Experiment) Generate(dist Distribution) (*sample.Sample, error) {
	if e.Size < 2 {
		return nil, fmt.Errorf("size %d: %w", e.Size, ErrBadSize)
	}
	d := dist.Dimension()
	if d < 1 {
		return nil, ErrNoMarginals
	}
	n := e.Size
	out, err := sample.New(n*(2+d), d)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(e.Seed, 0x5eed))
	x := make([]float64, d)
	for j := 0; j < 2*n; j++ {
		dist.Draw(rng, x)
		if err = out.SetRow(j, x); err != nil {
			return nil, fmt.Errorf("point %d: %w", j, err)
		}
	}

	var rowA, rowB []float64
	for i := 0; i < d; i++ {
		for j := 0; j < n; j++ {
			if rowA, err = out.Row(j); err != nil {
				return nil, err
			}
			if rowB, err = out.Row(n + j); err != nil {
				return nil, err
			}
			copy(x, rowA)
			x[i] = rowB[i]
			if err = out.SetRow((2+i)*n+j, x); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}
