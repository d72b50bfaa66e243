// SPDX-License-Identifier: MIT

package design

import "errors"

var (
	// ErrBadSize indicates a replicate count below 2.
	ErrBadSize = errors.New("design: size must be >= 2")

	// ErrDimensionMismatch indicates that a model and a design (or a model and
	// its own declared dimensions) disagree.
	ErrDimensionMismatch = errors.New("design: dimension mismatch")

	// ErrNoMarginals indicates an Independent distribution with no marginals.
	ErrNoMarginals = errors.New("design: distribution needs at least one marginal")

	// ErrNonFinite signals a model output that is NaN or ±Inf.
	ErrNonFinite = errors.New("design: model produced NaN or Inf")
)
