// SPDX-License-Identifier: MIT

// Package csr: the row-alteration engine, the package's one sanctioned
// in-place mutation surface. Kernels that rewrite stored values without
// touching the sparsity pattern (softmax's sparse path, the broadcast
// product) are expressed as RowAlterFuncs so the traversal, bounding and
// error plumbing live in exactly one place.

package csr

// RowAlterFunc rewrites the stored values of a single row. vals and cols are
// views of the row's slice of the backing arrays, aligned index-for-index
// and capped at the row boundary, so neither can reach a neighboring row
// even via append. Implementations may mutate vals freely; cols is read-only
// (reordering it breaks the sorted-columns invariant). Returning an error
// aborts the sweep.
type RowAlterFunc func(row int, vals []float64, cols []int) error

// AlterRows applies fn to every row of m in order, mutating m's values in
// place. The sparsity pattern is fixed: fn can change what a cell holds,
// never which cells exist. The first error from fn stops the sweep and is
// returned unchanged — fn knows its row index and builds better context
// than a generic wrapper could.
//
// Panics when fn is nil. Complexity: O(rows) plus whatever fn costs;
// allocation-free.
func AlterRows(m *Matrix, fn RowAlterFunc, opts ...Option) error {
	if fn == nil {
		panic(panicNilAlterFunc)
	}
	if err := checkOperands(gatherOptions(opts...), "AlterRows", m); err != nil {
		return err
	}

	for i := 0; i < m.rows; i++ {
		lo, hi := m.rowPtr[i], m.rowPtr[i+1]
		if err := fn(i, m.values[lo:hi:hi], m.colIdx[lo:hi:hi]); err != nil {
			return err
		}
	}

	return nil
}
