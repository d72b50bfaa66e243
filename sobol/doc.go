// SPDX-License-Identifier: MIT

// Package sobol estimates variance-based global sensitivity indices
// (first-order and total-order Sobol indices) from a pick-freeze design.
//
// Design layout:
//
// For N replicates and d inputs the design holds N·(2+d) points:
//
//	A   = rows [0, N)             base sample
//	B   = rows [N, 2N)            independent base sample
//	E_i = rows [(2+i)N, (3+i)N)   A with column i taken from B
//
// Inputs may be supplied as a ready design (New) or generated from a
// distribution and a model (NewFromDistribution, see package design).
//
// Estimators:
//   - Martinez (default): correlation form, S_i = ρ(y_B, y_E_i), ST_i = 1 - ρ(y_A, y_E_i).
//   - Jansen: squared differences.
//   - Saltelli: plain products with μ_A·μ_B as the squared mean.
//
// Indices are reported per output (q×d matrices) and aggregated over outputs
// with variance weights. They are not clamped to [0, 1]; sampling noise can
// push them slightly outside.
//
// Confidence intervals:
//   - Asymptotic: Fisher z-transform, needs N >= 4.
//   - Bootstrap: percentile intervals of BootstrapSize resamples, deterministic per Seed.
//
// The interval pair is cached for the IntervalConfig that produced it; asking
// for a different configuration recomputes, and concurrent callers of the same
// configuration share one computation.
//
// Concurrency:
//
// An Algorithm is safe for concurrent use. Per-input estimator terms and
// bootstrap resamples run as bounded errgroup tasks (WithParallelism).
//
// Errors:
//
// All returned errors match one of ErrInvalidConfiguration, ErrDegenerateSample,
// ErrCorrelationDomain, ErrDimensionMismatch or ErrNilSample via errors.Is
// (context cancellation surfaces as a wrapped ctx.Err()).
package sobol
