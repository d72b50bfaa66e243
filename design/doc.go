// SPDX-License-Identifier: MIT

// Package design generates pick-freeze experiments for variance-based
// sensitivity analysis and evaluates models on them.
//
// What is a pick-freeze design?
//
//	Two independent base samples A and B of N points are drawn from the input
//	distribution. For every input i a mixed sample E_i is formed from A with
//	column i taken from B. Stacking A, B, E_0..E_{d-1} gives N·(2+d) points
//	whose model outputs feed the estimators of package sobol.
//
// Building blocks:
//   - Distribution: an independent joint law over gonum distuv marginals.
//   - Experiment: the seeded generator of the stacked design.
//   - Model / Evaluate: parallel, order-preserving model evaluation.
//   - Reference models (Ishigami, GFunction, LinearAdditive) with closed-form
//     indices, used to validate estimators.
//
// Usage:
//
//	dist := design.Independent(distuv.Uniform{Min: -math.Pi, Max: math.Pi}, ...)
//	in, err := design.Experiment{Size: 1000, Seed: 7}.Generate(dist)
//	out, err := design.Evaluate(ctx, design.Ishigami(7, 0.1), in, 0)
package design
