// SPDX-License-Identifier: MIT

package design

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution is a joint input law that can fill a point from a random stream.
type Distribution interface {
	// Dimension returns the number of inputs.
	Dimension() int

	// Draw writes one realization into dst (len(dst) == Dimension()).
	Draw(rng *rand.Rand, dst []float64)
}

// IndependentDistribution is the product of one-dimensional marginals.
// Each coordinate is drawn by inverse transform sampling, so the design only
// depends on the seed of the Experiment, not on the marginals' own sources.
type IndependentDistribution struct {
	marginals []distuv.Quantiler
}

// Independent builds the product law of marginals, e.g.
//
//	design.Independent(distuv.Uniform{Min: 0, Max: 1}, distuv.UnitNormal)
func Independent(marginals ...distuv.Quantiler) *IndependentDistribution {
	return &IndependentDistribution{marginals: marginals}
}

// Dimension implements Distribution.
func (d *IndependentDistribution) Dimension() int { return len(d.marginals) }

// Draw implements Distribution.
func (d *IndependentDistribution) Draw(rng *rand.Rand, dst []float64) {
	var u float64
	for j, m := range d.marginals {
		// Quantile(0) is -Inf for unbounded laws.
		for u = rng.Float64(); u == 0; u = rng.Float64() {
		}
		dst[j] = m.Quantile(u)
	}
}
