// SPDX-License-Identifier: MIT

// Package csr: the Matrix type and its construction/inspection surface.
// Kernels live in their own files (elementwise.go, broadcast.go, softmax.go,
// rowset.go, densify.go); this file owns the representation.

package csr

import (
	"iter"
	"sort"
)

// Matrix is a compressed sparse row matrix of float64 weights.
//
// The zero value is not useful; build matrices with New, FromDense, Zeros,
// or any kernel. The backing slices obey the invariants documented in the
// package comment; New with careful on (the default) verifies them.
type Matrix struct {
	rows, cols int
	values     []float64
	colIdx     []int
	rowPtr     []int
}

// newRaw wraps already-validated backing slices without copying. Every
// kernel builds its result through it; the slices must be freshly owned.
func newRaw(rows, cols int, values []float64, colIdx, rowPtr []int) *Matrix {
	return &Matrix{rows: rows, cols: cols, values: values, colIdx: colIdx, rowPtr: rowPtr}
}

// New adopts the given CSR triple as a rows×cols matrix. The slices are NOT
// copied: the matrix owns them from here on, and callers must not retain
// references (except through the documented raw accessors).
//
// Negative rows or cols return ErrInvalidDimensions. Under careful (the
// default) the triple is verified structurally and malformed input returns
// ErrNotCSR; with WithCareful(false) the triple is trusted as-is.
//
// Complexity: O(nnz) under careful, O(1) otherwise.
func New(rows, cols int, values []float64, colIdx, rowPtr []int, opts ...Option) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, opErrorf("New", ErrInvalidDimensions, "%d x %d", rows, cols)
	}

	m := newRaw(rows, cols, values, colIdx, rowPtr)
	if o := gatherOptions(opts...); o.careful {
		if err := CheckStructure(m, "New"); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Zeros returns an empty rows×cols matrix (no stored entries).
// Negative dimensions return ErrInvalidDimensions.
func Zeros(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, opErrorf("Zeros", ErrInvalidDimensions, "%d x %d", rows, cols)
	}

	return newRaw(rows, cols, nil, nil, make([]int, rows+1)), nil
}

// FromDense builds a matrix from dense row slices, dropping exact zeros.
// All rows must share one length; ragged input returns ErrDimensionMismatch.
// An empty slice yields the 0×0 matrix.
//
// Complexity: O(rows*cols).
func FromDense(rows [][]float64) (*Matrix, error) {
	r := len(rows)
	c := 0
	if r > 0 {
		c = len(rows[0])
	}

	values := make([]float64, 0, r)
	colIdx := make([]int, 0, r)
	rowPtr := make([]int, r+1)
	for i, row := range rows {
		if len(row) != c {
			return nil, opErrorf("FromDense", ErrDimensionMismatch, "row %d has %d columns, want %d", i, len(row), c)
		}
		for j, v := range row {
			if v != 0 {
				values = append(values, v)
				colIdx = append(colIdx, j)
			}
		}
		rowPtr[i+1] = len(values)
	}

	return newRaw(r, c, values, colIdx, rowPtr), nil
}

// RowOf builds the 1×cols matrix holding the given dense row. Convenience
// over FromDense for broadcast operands and null vectors.
func RowOf(row []float64) (*Matrix, error) {
	return FromDense([][]float64{row})
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// NNZ returns the number of stored entries (explicit zeros included).
func (m *Matrix) NNZ() int { return len(m.values) }

// Values returns the live backing slice of stored entries. Mutating values
// in place is supported (AlterRows is the structured way); growing or
// reordering the slice corrupts the matrix.
func (m *Matrix) Values() []float64 { return m.values }

// ColIndices returns the live backing slice of column indices. Read-only:
// mutating it breaks the sorted-columns invariant.
func (m *Matrix) ColIndices() []int { return m.colIdx }

// RowPtr returns the live backing slice of row offsets. Read-only.
func (m *Matrix) RowPtr() []int { return m.rowPtr }

// At returns the value at (i, j); absent cells read as 0. Out-of-range
// indices return ErrOutOfRange.
//
// Complexity: O(log nnz(row i)) by binary search over the sorted columns.
func (m *Matrix) At(i, j int) (float64, error) {
	if m == nil {
		return 0, opError("At", ErrNilMatrix)
	}
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, opErrorf("At", ErrOutOfRange, "(%d,%d) in %d x %d", i, j, m.rows, m.cols)
	}

	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	k := lo + sort.SearchInts(m.colIdx[lo:hi], j)
	if k < hi && m.colIdx[k] == j {
		return m.values[k], nil
	}

	return 0, nil
}

// Clone returns a deep copy sharing nothing with m. Clone of nil is nil.
func (m *Matrix) Clone() *Matrix {
	if m == nil {
		return nil
	}

	values := make([]float64, len(m.values))
	copy(values, m.values)
	colIdx := make([]int, len(m.colIdx))
	copy(colIdx, m.colIdx)
	rowPtr := make([]int, len(m.rowPtr))
	copy(rowPtr, m.rowPtr)

	return newRaw(m.rows, m.cols, values, colIdx, rowPtr)
}

// Dense materializes m as row slices. Intended for tests, demos and small
// diagnostics; the result is rows*cols cells regardless of sparsity.
func (m *Matrix) Dense() [][]float64 {
	out := make([][]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		out[i] = make([]float64, m.cols)
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			out[i][m.colIdx[k]] = m.values[k]
		}
	}

	return out
}

// NonzeroPositions returns a lazy, restartable sequence of the positions k
// (indices into Values/ColIndices) storing row i's entries, in column order.
// Ranging twice replays the row. Panics when i is out of range: iterators
// have no error channel, and a bad row index is a programmer error.
func (m *Matrix) NonzeroPositions(i int) iter.Seq[int] {
	if i < 0 || i >= m.rows {
		panic(panicRowOutOfRange)
	}

	return func(yield func(int) bool) {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			if !yield(k) {
				return
			}
		}
	}
}

// Equal reports exact equality of shape, sparsity pattern and stored values
// (bitwise on values: NaN never equals NaN, explicit zeros count). Two nil
// matrices are equal.
func Equal(a, b *Matrix) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.rows != b.rows || a.cols != b.cols || len(a.values) != len(b.values) {
		return false
	}
	for k := range a.values {
		if a.values[k] != b.values[k] || a.colIdx[k] != b.colIdx[k] {
			return false
		}
	}
	for i := range a.rowPtr {
		if a.rowPtr[i] != b.rowPtr[i] {
			return false
		}
	}

	return true
}
