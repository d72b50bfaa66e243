// SPDX-License-Identifier: MIT

package sample

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape is invalid (rows<0 or cols<=0).
	ErrBadShape = errors.New("sample: invalid shape")

	// ErrOutOfRange indicates that a row, column or view bound is outside valid range.
	ErrOutOfRange = errors.New("sample: index out of range")

	// ErrDimensionMismatch indicates ragged rows or a point of the wrong dimension.
	ErrDimensionMismatch = errors.New("sample: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf value at ingestion.
	ErrNaNInf = errors.New("sample: NaN or Inf encountered")

	// ErrNilSample indicates that a nil *Sample was used.
	ErrNilSample = errors.New("sample: nil sample")

	// ErrTooFewPoints is returned by statistics that need at least two points.
	ErrTooFewPoints = errors.New("sample: at least two points required")
)

// sampleErrorf wraps err with the operation tag, keeping errors.Is matching intact.
func sampleErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
