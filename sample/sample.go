// SPDX-License-Identifier: MIT

package sample

import (
	"fmt"
	"math"
	"strings"
)

// Operation tags used when wrapping sentinels.
const (
	opNew         = "New"
	opFromRows    = "FromRows"
	opFromColumns = "FromColumns"
	opAt          = "At"
	opSet         = "Set"
	opRow         = "Row"
	opSetRow      = "SetRow"
	opColumn      = "Column"
	opView        = "View"
	opPick        = "Pick"
)

// Sample is a row-major n×d block of float64 values.
// data holds n*d elements; a Sample returned by View shares data with its parent.
type Sample struct {
	n, d int       // number of points and their dimension
	data []float64 // flat backing storage, len == n*d
}

// New creates an n×d Sample initialized to zeros.
// Stage 1 (Validate): n >= 0 and d > 0.
// Stage 2 (Prepare): allocate the flat backing slice.
// Complexity: O(n*d) time and memory.
func New(n, d int) (*Sample, error) {
	if n < 0 || d <= 0 {
		return nil, sampleErrorf(opNew, ErrBadShape)
	}

	return &Sample{n: n, d: d, data: make([]float64, n*d)}, nil
}

// FromRows copies rows into a new Sample.
// Every row must have the same non-zero length and contain only finite values.
// Complexity: O(n*d).
func FromRows(rows [][]float64) (*Sample, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, sampleErrorf(opFromRows, ErrBadShape)
	}
	s, err := New(len(rows), len(rows[0]))
	if err != nil {
		return nil, sampleErrorf(opFromRows, err)
	}
	for i, row := range rows {
		if err = s.SetRow(i, row); err != nil {
			return nil, sampleErrorf(opFromRows, err)
		}
	}

	return s, nil
}

// FromColumns builds a Sample whose j-th column is cols[j].
// All columns must have the same non-zero length and contain finite values.
// Complexity: O(n*d).
func FromColumns(cols [][]float64) (*Sample, error) {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil, sampleErrorf(opFromColumns, ErrBadShape)
	}
	n, d := len(cols[0]), len(cols)
	s := &Sample{n: n, d: d, data: make([]float64, n*d)}

	var i, j int
	for j = 0; j < d; j++ {
		if len(cols[j]) != n {
			return nil, sampleErrorf(opFromColumns, ErrDimensionMismatch)
		}
		for i = 0; i < n; i++ {
			if isNonFinite(cols[j][i]) {
				return nil, sampleErrorf(opFromColumns, ErrNaNInf)
			}
			s.data[i*d+j] = cols[j][i]
		}
	}

	return s, nil
}

// Size returns the number of points.
func (s *Sample) Size() int {
	return s.n
}

// Dimension returns the dimension of every point.
func (s *Sample) Dimension() int {
	return s.d
}

// indexOf computes the flat offset of (i, j) or returns ErrOutOfRange.
func (s *Sample) indexOf(op string, i, j int) (int, error) {
	if i < 0 || i >= s.n || j < 0 || j >= s.d {
		return 0, fmt.Errorf("%s(%d,%d): %w", op, i, j, ErrOutOfRange)
	}

	return i*s.d + j, nil
}

// At returns coordinate j of point i.
// Complexity: O(1).
func (s *Sample) At(i, j int) (float64, error) {
	idx, err := s.indexOf(opAt, i, j)
	if err != nil {
		return 0, err
	}

	return s.data[idx], nil
}

// Set assigns coordinate j of point i. Non-finite values are rejected.
// Complexity: O(1).
func (s *Sample) Set(i, j int, v float64) error {
	idx, err := s.indexOf(opSet, i, j)
	if err != nil {
		return err
	}
	if isNonFinite(v) {
		return sampleErrorf(opSet, ErrNaNInf)
	}
	s.data[idx] = v

	return nil
}

// Row returns point i as a slice aliasing the backing buffer.
// Callers must not retain it across mutations of s.
// Complexity: O(1).
func (s *Sample) Row(i int) ([]float64, error) {
	if i < 0 || i >= s.n {
		return nil, fmt.Errorf("%s(%d): %w", opRow, i, ErrOutOfRange)
	}

	return s.data[i*s.d : (i+1)*s.d : (i+1)*s.d], nil
}

// SetRow copies x into point i.
// Complexity: O(d).
func (s *Sample) SetRow(i int, x []float64) error {
	if i < 0 || i >= s.n {
		return fmt.Errorf("%s(%d): %w", opSetRow, i, ErrOutOfRange)
	}
	if len(x) != s.d {
		return sampleErrorf(opSetRow, ErrDimensionMismatch)
	}
	for _, v := range x {
		if isNonFinite(v) {
			return sampleErrorf(opSetRow, ErrNaNInf)
		}
	}
	copy(s.data[i*s.d:], x)

	return nil
}

// Column returns a fresh copy of coordinate j across all points.
// Complexity: O(n).
func (s *Sample) Column(j int) ([]float64, error) {
	if j < 0 || j >= s.d {
		return nil, fmt.Errorf("%s(%d): %w", opColumn, j, ErrOutOfRange)
	}
	col := make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		col[i] = s.data[i*s.d+j]
	}

	return col, nil
}

// Columns returns all coordinates in column-major order (d slices of length n).
// Complexity: O(n*d).
func (s *Sample) Columns() [][]float64 {
	cols := make([][]float64, s.d)
	var i, j int
	for j = 0; j < s.d; j++ {
		cols[j] = make([]float64, s.n)
	}
	for i = 0; i < s.n; i++ {
		base := i * s.d
		for j = 0; j < s.d; j++ {
			cols[j][i] = s.data[base+j]
		}
	}

	return cols
}

// View returns points [lo, hi) as a Sample sharing the backing buffer.
// Complexity: O(1).
func (s *Sample) View(lo, hi int) (*Sample, error) {
	if lo < 0 || hi > s.n || lo > hi {
		return nil, fmt.Errorf("%s(%d,%d): %w", opView, lo, hi, ErrOutOfRange)
	}

	return &Sample{n: hi - lo, d: s.d, data: s.data[lo*s.d : hi*s.d : hi*s.d]}, nil
}

// Pick gathers the points at indices into a new Sample, in order.
// Indices may repeat.
// Complexity: O(len(indices)*d).
func (s *Sample) Pick(indices []int) (*Sample, error) {
	out := &Sample{n: len(indices), d: s.d, data: make([]float64, len(indices)*s.d)}
	for k, i := range indices {
		if i < 0 || i >= s.n {
			return nil, fmt.Errorf("%s(%d): %w", opPick, i, ErrOutOfRange)
		}
		copy(out.data[k*s.d:(k+1)*s.d], s.data[i*s.d:(i+1)*s.d])
	}

	return out, nil
}

// Clone returns a deep copy that shares nothing with s.
func (s *Sample) Clone() *Sample {
	data := make([]float64, len(s.data))
	copy(data, s.data)

	return &Sample{n: s.n, d: s.d, data: data}
}

// String implements fmt.Stringer for debugging.
func (s *Sample) String() string {
	var sb strings.Builder
	var i, j int
	for i = 0; i < s.n; i++ {
		sb.WriteByte('[')
		for j = 0; j < s.d; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", s.data[i*s.d+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
