// SPDX-License-Identifier: MIT

// Package csr: the invariant layer.
//
// Purpose:
//   - One canonical place for the structural and numeric checks every kernel
//     gates behind the careful switch.
//   - Return wrapped sentinels naming the operation and the precise
//     violation, so a failed pipeline stage is diagnosable from the error
//     string alone.
//
// Determinism & performance:
//   - Both checks are pure and allocation-free on the success path.
//   - CheckStructure is O(nnz); CheckNoNaN adds one O(nnz) scan on top.
//
// Note:
//   - These functions always check when invoked. The careful switch decides
//     whether kernels invoke them, not what they do.

package csr

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// opError wraps a sentinel with the operation tag, keeping one format across
// the package: "Op: csr: ...".
func opError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// opErrorf wraps a sentinel with the operation tag and a detail clause:
// "Op: detail: csr: ...".
func opErrorf(op string, err error, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), err)
}

// CheckStructure verifies the CSR invariants of m and returns ErrNilMatrix
// or ErrNotCSR (wrapped with op and the first violation found) when they do
// not hold:
//
//	len(rowPtr) == rows+1, rowPtr[0] == 0, rowPtr[rows] == nnz,
//	rowPtr non-decreasing, len(values) == len(colIdx),
//	every column in [0, cols), columns strictly increasing within a row.
//
// op tags the error with the calling operation ("Softmax", "Stack", ...).
//
// Complexity: O(nnz). Determinism: pure; reports the first violation in
// scan order.
func CheckStructure(m *Matrix, op string) error {
	if m == nil {
		return opError(op, ErrNilMatrix)
	}
	if m.rows < 0 || m.cols < 0 {
		return opErrorf(op, ErrNotCSR, "negative shape %d x %d", m.rows, m.cols)
	}
	if len(m.rowPtr) != m.rows+1 {
		return opErrorf(op, ErrNotCSR, "rowPtr has length %d, want %d", len(m.rowPtr), m.rows+1)
	}
	if m.rowPtr[0] != 0 {
		return opErrorf(op, ErrNotCSR, "rowPtr starts at %d, want 0", m.rowPtr[0])
	}
	if len(m.values) != len(m.colIdx) {
		return opErrorf(op, ErrNotCSR, "%d values vs %d column indices", len(m.values), len(m.colIdx))
	}
	if m.rowPtr[m.rows] != len(m.values) {
		return opErrorf(op, ErrNotCSR, "rowPtr ends at %d, want nnz %d", m.rowPtr[m.rows], len(m.values))
	}

	// Monotonicity first: with the endpoints already pinned it bounds every
	// rowPtr entry inside [0, nnz], making the column walk below safe.
	for i := 0; i < m.rows; i++ {
		if m.rowPtr[i+1] < m.rowPtr[i] {
			return opErrorf(op, ErrNotCSR, "rowPtr decreases at row %d (%d -> %d)", i, m.rowPtr[i], m.rowPtr[i+1])
		}
	}

	for i := 0; i < m.rows; i++ {
		lo, hi := m.rowPtr[i], m.rowPtr[i+1]
		prev := -1
		for k := lo; k < hi; k++ {
			c := m.colIdx[k]
			if c < 0 || c >= m.cols {
				return opErrorf(op, ErrNotCSR, "row %d stores column %d outside [0, %d)", i, c, m.cols)
			}
			if c <= prev {
				return opErrorf(op, ErrNotCSR, "row %d columns out of order (%d after %d)", i, c, prev)
			}
			prev = c
		}
	}

	return nil
}

// CheckNoNaN verifies structure first, then scans the stored values for NaN
// and returns ErrNaNInf (wrapped with op) on the first hit. Split from
// CheckStructure because the scan is pure overhead for callers that already
// trust their values.
//
// Complexity: O(nnz).
func CheckNoNaN(m *Matrix, op string) error {
	if err := CheckStructure(m, op); err != nil {
		return err
	}
	if floats.HasNaN(m.values) {
		return opErrorf(op, ErrNaNInf, "NaN among %d stored values", len(m.values))
	}

	return nil
}

// checkOperands runs CheckStructure over the operands when careful is on.
// Nil operands are rejected even with careful off: the guard is O(1) and a
// nil deref panic helps nobody.
func checkOperands(o Options, op string, ms ...*Matrix) error {
	for _, m := range ms {
		if m == nil {
			return opError(op, ErrNilMatrix)
		}
		if o.careful {
			if err := CheckStructure(m, op); err != nil {
				return err
			}
		}
	}

	return nil
}
