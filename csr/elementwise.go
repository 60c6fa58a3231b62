// SPDX-License-Identifier: MIT

// Package csr: value-level kernels — addition, scalar scaling, value
// mapping, row averaging. All of them return fresh matrices; none aliases
// its operands.

package csr

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Add returns m1 + m2 for equal-shape operands as a per-row merge of the
// sorted column streams. Cells present in both operands sum; exact
// cancellation keeps an explicit zero entry (Undensify is the place that
// strips those, if the caller cares).
//
// Shape disagreement returns ErrDimensionMismatch.
// Complexity: O(nnz(m1)+nnz(m2)). Determinism: pure.
func Add(m1, m2 *Matrix, opts ...Option) (*Matrix, error) {
	if err := checkOperands(gatherOptions(opts...), "Add", m1, m2); err != nil {
		return nil, err
	}
	if m1.rows != m2.rows || m1.cols != m2.cols {
		return nil, opErrorf("Add", ErrDimensionMismatch, "%d x %d vs %d x %d", m1.rows, m1.cols, m2.rows, m2.cols)
	}

	bound := len(m1.values) + len(m2.values)
	values := make([]float64, 0, bound)
	colIdx := make([]int, 0, bound)
	rowPtr := make([]int, m1.rows+1)
	for i := 0; i < m1.rows; i++ {
		ka, ea := m1.rowPtr[i], m1.rowPtr[i+1]
		kb, eb := m2.rowPtr[i], m2.rowPtr[i+1]
		for ka < ea || kb < eb {
			switch {
			case kb >= eb || (ka < ea && m1.colIdx[ka] < m2.colIdx[kb]):
				values = append(values, m1.values[ka])
				colIdx = append(colIdx, m1.colIdx[ka])
				ka++
			case ka >= ea || m2.colIdx[kb] < m1.colIdx[ka]:
				values = append(values, m2.values[kb])
				colIdx = append(colIdx, m2.colIdx[kb])
				kb++
			default: // same column in both operands
				values = append(values, m1.values[ka]+m2.values[kb])
				colIdx = append(colIdx, m1.colIdx[ka])
				ka++
				kb++
			}
		}
		rowPtr[i+1] = len(values)
	}

	return newRaw(m1.rows, m1.cols, values, colIdx, rowPtr), nil
}

// Scale returns m with every stored value multiplied by alpha, pattern
// untouched. A non-finite alpha returns ErrNaNInf up front — scaling by NaN
// would silently poison the whole matrix.
//
// Complexity: O(nnz).
func Scale(m *Matrix, alpha float64, opts ...Option) (*Matrix, error) {
	if err := checkOperands(gatherOptions(opts...), "Scale", m); err != nil {
		return nil, err
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, opErrorf("Scale", ErrNaNInf, "scalar %g", alpha)
	}

	out := m.Clone()
	floats.Scale(alpha, out.values)

	return out, nil
}

// MapValues returns a copy of m with fn applied to every stored value,
// pattern untouched. Entries fn maps to zero stay stored as explicit zeros.
//
// Panics when fn is nil. Complexity: O(nnz) plus fn.
func MapValues(m *Matrix, fn func(float64) float64, opts ...Option) (*Matrix, error) {
	if fn == nil {
		panic(panicNilMapFunc)
	}
	if err := checkOperands(gatherOptions(opts...), "MapValues", m); err != nil {
		return nil, err
	}

	out := m.Clone()
	for k, v := range out.values {
		out.values[k] = fn(v)
	}

	return out, nil
}

// MapValuesSelected maps only the stored values that keep reports true for,
// and overwrites every other stored value with def. The pattern never
// changes — deselected entries are rewritten, not removed.
//
// Panics when keep or fn is nil. Complexity: O(nnz) plus the callbacks.
func MapValuesSelected(m *Matrix, keep func(float64) bool, fn func(float64) float64, def float64, opts ...Option) (*Matrix, error) {
	if keep == nil {
		panic(panicNilSelectorFunc)
	}
	if fn == nil {
		panic(panicNilMapFunc)
	}
	if err := checkOperands(gatherOptions(opts...), "MapValuesSelected", m); err != nil {
		return nil, err
	}

	out := m.Clone()
	for k, v := range out.values {
		if keep(v) {
			out.values[k] = fn(v)
		} else {
			out.values[k] = def
		}
	}

	return out, nil
}

// Mean returns the 1×cols average of m's rows: each column's stored mass
// divided by the row count. Columns whose mass sums to exactly zero are
// dropped from the result. A zero-row matrix has no average and returns
// ErrInvalidDimensions.
//
// Complexity: O(nnz + d log d) where d is the number of distinct columns.
func Mean(m *Matrix, opts ...Option) (*Matrix, error) {
	if err := checkOperands(gatherOptions(opts...), "Mean", m); err != nil {
		return nil, err
	}
	if m.rows == 0 {
		return nil, opError("Mean", ErrInvalidDimensions)
	}

	sums := make(map[int]float64, len(m.values))
	for k, c := range m.colIdx {
		sums[c] += m.values[k]
	}

	cols := make([]int, 0, len(sums))
	for c, s := range sums {
		if s != 0 {
			cols = append(cols, c)
		}
	}
	sort.Ints(cols)

	values := make([]float64, len(cols))
	for k, c := range cols {
		values[k] = sums[c] / float64(m.rows)
	}

	return newRaw(1, m.cols, values, cols, []int{0, len(values)}), nil
}
