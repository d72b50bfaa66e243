// SPDX-License-Identifier: MIT

package design

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/katalvlaran/lvsobol/sample"
	"golang.org/x/sync/errgroup"
)

// Model maps an input point to an output vector.
// Evaluate must be safe for concurrent use. The point x it receives is a
// scratch copy owned by the caller; changing it does not affect the design.
type Model interface {
	InputDimension() int
	OutputDimension() int
	Evaluate(ctx context.Context, x []float64) ([]float64, error)
}

// FuncModel adapts a pure function to Model.
type FuncModel struct {
	in, out int
	fn      func(x []float64) []float64
}

// NewFuncModel wraps fn, which must return out values for in inputs.
func NewFuncModel(in, out int, fn func(x []float64) []float64) *FuncModel {
	return &FuncModel{in: in, out: out, fn: fn}
}

// InputDimension implements Model.
func (m *FuncModel) InputDimension() int { return m.in }

// OutputDimension implements Model.
func (m *FuncModel) OutputDimension() int { return m.out }

// Evaluate implements Model.
func (m *FuncModel) Evaluate(_ context.Context, x []float64) ([]float64, error) {
	if len(x) != m.in {
		return nil, ErrDimensionMismatch
	}
	y := m.fn(x)
	if len(y) != m.out {
		return nil, ErrDimensionMismatch
	}
	return y, nil
}

// Evaluate runs model on every point of input and returns the outputs in the
// same order. Points are split into contiguous chunks evaluated by at most
// parallelism goroutines (<=0 means runtime.GOMAXPROCS(0)); each chunk writes
// only its own output rows. Each chunk hands the model a private copy of the
// point, so input is never modified.
//
// Errors:
//   - ErrDimensionMismatch when model.InputDimension() != input.Dimension().
//   - ErrNonFinite when the model returns NaN or ±Inf.
//   - the first model error or ctx error, wrapped with the point index.
func Evaluate(ctx context.Context, model Model, input *sample.Sample, parallelism int) (*sample.Sample, error) {
	if model.InputDimension() != input.Dimension() {
		return nil, fmt.Errorf("model takes %d inputs, design has %d: %w",
			model.InputDimension(), input.Dimension(), ErrDimensionMismatch)
	}
	n := input.Size()
	output, err := sample.New(n, model.OutputDimension())
	if err != nil {
		return nil, err
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	chunk := (n + parallelism - 1) / parallelism
	if chunk == 0 {
		return output, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			x := make([]float64, input.Dimension())
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				row, err := input.Row(i)
				if err != nil {
					return err
				}
				copy(x, row)
				y, err := model.Evaluate(gctx, x)
				if err != nil {
					return fmt.Errorf("point %d: %w", i, err)
				}
				for _, v := range y {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						return fmt.Errorf("point %d: %w", i, ErrNonFinite)
					}
				}
				if err = output.SetRow(i, y); err != nil {
					return fmt.Errorf("point %d: %w", i, err)
				}
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return output, nil
}
