// SPDX-License-Identifier: MIT

package sobol

import (
	"fmt"

	"github.com/katalvlaran/lvsobol/sample"
)

const (
	opNewLayout = "NewLayout"
	opResample  = "Layout.Resample"
)

// minLayoutSize is the smallest replicate count for which block variances exist.
const minLayoutSize = 2

// Layout interprets a flat output sample as the pick-freeze block structure
//
//	A   = rows [0, N)
//	B   = rows [N, 2N)
//	E_i = rows [(2+i)N, (3+i)N)   for i in [0, d)
//
// Every block is an N×q view over the output buffer; per-block column
// statistics are computed once in NewLayout and shared by all estimators.
// A Layout is immutable and safe for concurrent readers.
type Layout struct {
	size      int // N
	inputDim  int // d
	outputDim int // q

	output *sample.Sample
	blocks []*sample.Sample     // 0=A, 1=B, 2+i=E_i
	stats  []sample.ColumnStats // parallel to blocks
}

// NewLayout partitions output into the 2+inputDim blocks of length size.
// Stage 1 (Validate): size >= 2, inputDim >= 1, output.Size() == size·(2+inputDim).
// Stage 2 (Views): slice the blocks without copying.
// Stage 3 (Stats): per-block column mean / variance / standard deviation.
//
// Errors:
//   - ErrNilSample for a nil output.
//   - ErrInvalidConfiguration for any shape violation.
//
// Complexity: Time O(N·(2+d)·q), Space O((2+d)·q) beyond the shared buffer.
func NewLayout(output *sample.Sample, size, inputDim int) (*Layout, error) {
	if output == nil {
		return nil, sobolErrorf(opNewLayout, ErrNilSample)
	}
	if size < minLayoutSize || inputDim < 1 {
		return nil, fmt.Errorf("%s: size=%d inputDimension=%d: %w",
			opNewLayout, size, inputDim, ErrInvalidConfiguration)
	}
	if want := size * (2 + inputDim); output.Size() != want {
		return nil, fmt.Errorf("%s: sample size %d, expected size·(2+d)=%d: %w",
			opNewLayout, output.Size(), want, ErrInvalidConfiguration)
	}

	nBlocks := 2 + inputDim
	l := &Layout{
		size:      size,
		inputDim:  inputDim,
		outputDim: output.Dimension(),
		output:    output,
		blocks:    make([]*sample.Sample, nBlocks),
		stats:     make([]sample.ColumnStats, nBlocks),
	}

	var k int
	var err error
	for k = 0; k < nBlocks; k++ {
		l.blocks[k], err = output.View(k*size, (k+1)*size)
		if err != nil {
			return nil, sobolErrorf(opNewLayout, err)
		}
		l.stats[k], err = l.blocks[k].Stats()
		if err != nil {
			return nil, sobolErrorf(opNewLayout, err)
		}
	}

	return l, nil
}

// Size returns the replicate count N.
func (l *Layout) Size() int { return l.size }

// InputDimension returns d.
func (l *Layout) InputDimension() int { return l.inputDim }

// OutputDimension returns q.
func (l *Layout) OutputDimension() int { return l.outputDim }

// A returns the first base block.
func (l *Layout) A() *sample.Sample { return l.blocks[0] }

// B returns the second base block.
func (l *Layout) B() *sample.Sample { return l.blocks[1] }

// E returns the mixed block of input i. It panics if i is outside [0, d),
// mirroring slice indexing.
func (l *Layout) E(i int) *sample.Sample { return l.blocks[2+i] }

// StatsA returns the cached column statistics of A.
func (l *Layout) StatsA() sample.ColumnStats { return l.stats[0] }

// StatsB returns the cached column statistics of B.
func (l *Layout) StatsB() sample.ColumnStats { return l.stats[1] }

// StatsE returns the cached column statistics of E_i.
func (l *Layout) StatsE(i int) sample.ColumnStats { return l.stats[2+i] }

// blockName labels block k in error messages.
func blockName(k int) string {
	switch k {
	case 0:
		return "A"
	case 1:
		return "B"
	default:
		return fmt.Sprintf("E%d", k-2)
	}
}

// Resample builds a new Layout whose j-th replicate is replicate indices[j] of l,
// taken jointly from every block so the pick-freeze pairing is preserved.
// len(indices) becomes the new size.
// Complexity: O(len(indices)·(2+d)·q).
func (l *Layout) Resample(indices []int) (*Layout, error) {
	n := len(indices)
	rows := make([]int, 0, n*len(l.blocks))
	for k := range l.blocks {
		for _, j := range indices {
			if j < 0 || j >= l.size {
				return nil, fmt.Errorf("%s: replicate %d: %w", opResample, j, ErrInvalidConfiguration)
			}
			rows = append(rows, k*l.size+j)
		}
	}
	picked, err := l.output.Pick(rows)
	if err != nil {
		return nil, sobolErrorf(opResample, err)
	}

	return NewLayout(picked, n, l.inputDim)
}
