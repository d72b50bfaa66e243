// SPDX-License-Identifier: MIT
// Package sobol: sentinel error set.
// Every failure returned by this package matches one of these sentinels via
// errors.Is. Context is added with sobolErrorf at the operation boundary.
// Panics are reserved for invalid Option values (programmer error).

package sobol

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when the design does not match the
	// pick-freeze layout (rows != size·(2+d)), when size is too small for the
	// requested interval method, or when an IntervalConfig is malformed.
	ErrInvalidConfiguration = errors.New("sobol: invalid configuration")

	// ErrDegenerateSample signals a block column with zero standard deviation
	// (or a zero reference variance), which would otherwise propagate NaN/Inf.
	ErrDegenerateSample = errors.New("sobol: degenerate sample (zero variance)")

	// ErrCorrelationDomain signals an aggregated index whose correlation
	// interpretation lies outside (-1, 1), where the Fisher transform diverges.
	ErrCorrelationDomain = errors.New("sobol: correlation outside (-1, 1)")

	// ErrDimensionMismatch indicates inconsistent input/output sample shapes.
	ErrDimensionMismatch = errors.New("sobol: dimension mismatch")

	// ErrNilSample indicates that a nil sample, distribution or model was passed.
	ErrNilSample = errors.New("sobol: nil sample")
)

// sobolErrorf wraps err with an operation tag; errors.Is still matches the sentinel.
func sobolErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
