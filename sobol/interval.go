// SPDX-License-Identifier: MIT
// Package: sobol
//
// Purpose:
//   - Confidence intervals for the aggregated first-order and total-order indices.
//   - Two interchangeable strategies selected by IntervalConfig.Method:
//     Asymptotic (Fisher z-transform of the correlation reading of the indices)
//     and Bootstrap (replicate resampling, see bootstrap.go).
//
// Conventions:
//   - ConfidenceLevel c is two-sided: t = Φ⁻¹(1 - (1-c)/2). c→1 widens the
//     asymptotic interval toward [-1, 1]; c→0 collapses it to the point estimate.
//   - No clamping to [0, 1] unless ClampIndices is set.

package sobol

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

const opAsymptotic = "AsymptoticInterval"

// minAsymptoticSize is the smallest replicate count with a finite 1/√(N-3).
const minAsymptoticSize = 4

// fisherEpsilon bounds |ρ| away from 1 under FisherClamp.
const fisherEpsilon = 1e-12

// Method selects the confidence-interval strategy.
type Method int

const (
	// Asymptotic uses the Fisher z-transform normal approximation.
	Asymptotic Method = iota
	// Bootstrap uses empirical quantiles of resampled aggregated indices.
	Bootstrap
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case Asymptotic:
		return "asymptotic"
	case Bootstrap:
		return "bootstrap"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// FisherPolicy decides what happens when |ρ| >= 1 in the asymptotic strategy.
type FisherPolicy int

const (
	// FisherReject fails with ErrCorrelationDomain.
	FisherReject FisherPolicy = iota
	// FisherClamp clips ρ into [-(1-ε), 1-ε] before transforming.
	FisherClamp
)

// IntervalConfig is the complete configuration of an interval computation.
// It is comparable; the result cache is keyed by the value actually used.
type IntervalConfig struct {
	Method          Method
	ConfidenceLevel float64 // two-sided, in [0, 1]
	BootstrapSize   int     // number of resamples (Bootstrap only)
	Seed            uint64  // resampling seed; 0 selects a fixed default
	Fisher          FisherPolicy
	ClampIndices    bool // clip bounds into [0, 1]
}

// DefaultIntervalConfig returns the documented defaults.
func DefaultIntervalConfig() IntervalConfig {
	return IntervalConfig{
		Method:          DefaultMethod,
		ConfidenceLevel: DefaultConfidenceLevel,
		BootstrapSize:   DefaultBootstrapSize,
		Fisher:          FisherReject,
	}
}

// Validate reports ErrInvalidConfiguration for out-of-range fields.
func (c IntervalConfig) Validate() error {
	switch {
	case c.Method != Asymptotic && c.Method != Bootstrap:
		return fmt.Errorf("unknown method %v: %w", c.Method, ErrInvalidConfiguration)
	case math.IsNaN(c.ConfidenceLevel) || c.ConfidenceLevel < 0 || c.ConfidenceLevel > 1:
		return fmt.Errorf("confidence level %g outside [0, 1]: %w", c.ConfidenceLevel, ErrInvalidConfiguration)
	case c.Method == Bootstrap && c.BootstrapSize < 1:
		return fmt.Errorf("bootstrap size %d < 1: %w", c.BootstrapSize, ErrInvalidConfiguration)
	case c.Fisher != FisherReject && c.Fisher != FisherClamp:
		return fmt.Errorf("unknown fisher policy %d: %w", c.Fisher, ErrInvalidConfiguration)
	}

	return nil
}

// key renders c for single-flight grouping.
func (c IntervalConfig) key() string {
	return fmt.Sprintf("%d/%v/%d/%d/%d/%t",
		c.Method, c.ConfidenceLevel, c.BootstrapSize, c.Seed, c.Fisher, c.ClampIndices)
}

// Interval is a per-input closed interval [Lower[p], Upper[p]].
type Interval struct {
	Lower []float64
	Upper []float64
}

// Dimension returns the number of inputs covered.
func (iv Interval) Dimension() int { return len(iv.Lower) }

// Contains reports whether v lies in the interval of input p.
func (iv Interval) Contains(p int, v float64) bool {
	return iv.Lower[p] <= v && v <= iv.Upper[p]
}

// Width returns Upper[p] - Lower[p].
func (iv Interval) Width(p int) float64 { return iv.Upper[p] - iv.Lower[p] }

// clone returns an Interval that shares no memory with iv.
func (iv Interval) clone() Interval {
	return Interval{Lower: slices.Clone(iv.Lower), Upper: slices.Clone(iv.Upper)}
}

// clampUnit clips every bound into [0, 1].
func (iv Interval) clampUnit() {
	for p := range iv.Lower {
		iv.Lower[p] = min(max(iv.Lower[p], 0), 1)
		iv.Upper[p] = min(max(iv.Upper[p], 0), 1)
	}
}

// QuantileFunc returns the p-quantile of the standard normal distribution.
type QuantileFunc func(p float64) float64

// NormalQuantile is the default QuantileFunc, backed by gonum.
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// fisherBounds maps ρ to tanh(atanh(ρ) ∓ h), honoring the domain policy.
func fisherBounds(rho, h float64, policy FisherPolicy) (lo, hi float64, err error) {
	if math.IsNaN(rho) || math.Abs(rho) >= 1 {
		if policy == FisherReject || math.IsNaN(rho) {
			return 0, 0, fmt.Errorf("rho=%g: %w", rho, ErrCorrelationDomain)
		}
		rho = math.Copysign(1-fisherEpsilon, rho)
	}
	z := 0.5 * math.Log((1+rho)/(1-rho))

	return math.Tanh(z - h), math.Tanh(z + h), nil
}

// AsymptoticInterval builds first- and total-order intervals from aggregated
// indices and the replicate count size.
// The quantile is taken at 1 - (1-c)/2, so c is the two-sided coverage; this
// deliberately differs from the older qNormal(1 - c/2) convention.
// Implementation:
//   - Stage 1: size >= 4, equal lengths, valid cfg.
//   - Stage 2: t = quantile(1 - (1-c)/2), h = t/√(size-3).
//   - Stage 3: first order: tanh(atanh(S_p) ± h).
//     Total order: ρ' = 1 - ST_p, bounds [1 - zmax, 1 - zmin].
//
// Errors:
//   - ErrInvalidConfiguration (size < 4, bad cfg).
//   - ErrDimensionMismatch (len(first) != len(total)).
//   - ErrCorrelationDomain under FisherReject.
//
// Complexity: O(d).
func AsymptoticInterval(first, total []float64, size int, cfg IntervalConfig, quantile QuantileFunc) (Interval, Interval, error) {
	if size < minAsymptoticSize {
		return Interval{}, Interval{}, fmt.Errorf(
			"%s: size=%d, sample size should be at least %d: %w",
			opAsymptotic, size, minAsymptoticSize, ErrInvalidConfiguration)
	}
	if len(first) != len(total) {
		return Interval{}, Interval{}, sobolErrorf(opAsymptotic, ErrDimensionMismatch)
	}
	if err := cfg.Validate(); err != nil {
		return Interval{}, Interval{}, sobolErrorf(opAsymptotic, err)
	}
	if quantile == nil {
		quantile = NormalQuantile
	}

	t := quantile(1 - 0.5*(1-cfg.ConfidenceLevel))
	h := t / math.Sqrt(float64(size)-3)

	d := len(first)
	fo := Interval{Lower: make([]float64, d), Upper: make([]float64, d)}
	to := Interval{Lower: make([]float64, d), Upper: make([]float64, d)}

	var zmin, zmax float64
	var err error
	for p := 0; p < d; p++ {
		zmin, zmax, err = fisherBounds(first[p], h, cfg.Fisher)
		if err != nil {
			return Interval{}, Interval{}, fmt.Errorf("%s: first order input %d: %w", opAsymptotic, p, err)
		}
		fo.Lower[p], fo.Upper[p] = zmin, zmax

		zmin, zmax, err = fisherBounds(1-total[p], h, cfg.Fisher)
		if err != nil {
			return Interval{}, Interval{}, fmt.Errorf("%s: total order input %d: %w", opAsymptotic, p, err)
		}
		to.Lower[p], to.Upper[p] = 1-zmax, 1-zmin
	}
	if cfg.ClampIndices {
		fo.clampUnit()
		to.clampUnit()
	}

	return fo, to, nil
}
