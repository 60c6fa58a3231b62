// SPDX-License-Identifier: MIT

// Package csr: row-set surgery — contiguous selection, permutation,
// vertical stacking and single-row tiling. Minibatching and epoch shuffling
// are built from exactly these four, so they all copy row blocks wholesale
// and never touch individual values.

package csr

// SelectRows copies rows [lo, hi) of m into a fresh matrix of the same
// width. hi beyond the last row is clamped (asking for "the next batch" at
// the tail is routine); lo outside [0, rows] returns ErrOutOfRange; an
// empty window after clamping yields the 0×cols matrix.
//
// Complexity: O(hi-lo + nnz of the block).
func SelectRows(m *Matrix, lo, hi int, opts ...Option) (*Matrix, error) {
	if err := checkOperands(gatherOptions(opts...), "SelectRows", m); err != nil {
		return nil, err
	}
	if lo < 0 || lo > m.rows {
		return nil, opErrorf("SelectRows", ErrOutOfRange, "lo %d outside [0, %d]", lo, m.rows)
	}
	if hi > m.rows {
		hi = m.rows
	}
	if hi < lo {
		hi = lo // empty window, not an error
	}

	jLo, jHi := m.rowPtr[lo], m.rowPtr[hi]
	values := make([]float64, jHi-jLo)
	copy(values, m.values[jLo:jHi])
	colIdx := make([]int, jHi-jLo)
	copy(colIdx, m.colIdx[jLo:jHi])
	rowPtr := make([]int, hi-lo+1)
	for i := range rowPtr {
		rowPtr[i] = m.rowPtr[lo+i] - jLo
	}

	return newRaw(hi-lo, m.cols, values, colIdx, rowPtr), nil
}

// ShuffleRows returns a copy of m with its rows permuted: row i of the
// result is row perm[i] of m. A nil perm draws a uniformly random
// permutation from the configured source (WithRand pins it for
// reproducibility). An explicit perm is validated under careful: wrong
// length or a repeated row returns ErrBadPermutation, an out-of-range row
// ErrOutOfRange.
//
// Row blocks are copied verbatim, which preserves each row's column order;
// a verify-then-sort pass stands guard anyway so the sorted-columns
// invariant survives even a caller-corrupted source row.
//
// Complexity: O(rows + nnz).
func ShuffleRows(m *Matrix, perm []int, opts ...Option) (*Matrix, error) {
	o := gatherOptions(opts...)
	if err := checkOperands(o, "ShuffleRows", m); err != nil {
		return nil, err
	}

	if perm == nil {
		perm = o.perm(m.rows)
	} else if o.careful {
		if len(perm) != m.rows {
			return nil, opErrorf("ShuffleRows", ErrBadPermutation, "permutation of %d rows, want %d", len(perm), m.rows)
		}
		seen := make([]bool, m.rows)
		for _, r := range perm {
			if r < 0 || r >= m.rows {
				return nil, opErrorf("ShuffleRows", ErrOutOfRange, "row %d outside [0, %d)", r, m.rows)
			}
			if seen[r] {
				return nil, opErrorf("ShuffleRows", ErrBadPermutation, "row %d repeated", r)
			}
			seen[r] = true
		}
	}

	values := make([]float64, len(m.values))
	colIdx := make([]int, len(m.colIdx))
	rowPtr := make([]int, m.rows+1)
	at := 0
	for i, r := range perm {
		lo, hi := m.rowPtr[r], m.rowPtr[r+1]
		rowPtr[i] = at
		at += copy(values[at:], m.values[lo:hi])
		copy(colIdx[rowPtr[i]:], m.colIdx[lo:hi])
	}
	rowPtr[m.rows] = at

	out := newRaw(m.rows, m.cols, values, colIdx, rowPtr)
	for i := 0; i < out.rows; i++ {
		restoreRowOrder(out, i)
	}

	return out, nil
}

// restoreRowOrder re-sorts row i's entries by column if they are out of
// order. The common case is a no-op scan; the sort itself is an insertion
// sort moving value and column together, fine for the short rows CSR rows
// tend to be.
func restoreRowOrder(m *Matrix, i int) {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]

	sorted := true
	for k := lo + 1; k < hi; k++ {
		if m.colIdx[k] < m.colIdx[k-1] {
			sorted = false
			break
		}
	}
	if sorted {
		return
	}

	for k := lo + 1; k < hi; k++ {
		c, v := m.colIdx[k], m.values[k]
		j := k
		for j > lo && m.colIdx[j-1] > c {
			m.colIdx[j] = m.colIdx[j-1]
			m.values[j] = m.values[j-1]
			j--
		}
		m.colIdx[j] = c
		m.values[j] = v
	}
}

// Stack concatenates the given matrices vertically. All operands must share
// one column count (ErrDimensionMismatch otherwise); an empty input has no
// width to give the result and returns ErrInvalidDimensions.
//
// Complexity: O(total rows + total nnz).
func Stack(mats []*Matrix, opts ...Option) (*Matrix, error) {
	if len(mats) == 0 {
		return nil, opErrorf("Stack", ErrInvalidDimensions, "no matrices")
	}

	o := gatherOptions(opts...)
	totalRows, totalNNZ := 0, 0
	for i, m := range mats {
		if err := checkOperands(o, "Stack", m); err != nil {
			return nil, err
		}
		if m.cols != mats[0].cols {
			return nil, opErrorf("Stack", ErrDimensionMismatch, "matrix %d has %d columns, want %d", i, m.cols, mats[0].cols)
		}
		totalRows += m.rows
		totalNNZ += len(m.values)
	}

	values := make([]float64, 0, totalNNZ)
	colIdx := make([]int, 0, totalNNZ)
	rowPtr := make([]int, totalRows+1)
	row := 0
	for _, m := range mats {
		for i := 0; i < m.rows; i++ {
			values = append(values, m.values[m.rowPtr[i]:m.rowPtr[i+1]]...)
			colIdx = append(colIdx, m.colIdx[m.rowPtr[i]:m.rowPtr[i+1]]...)
			row++
			rowPtr[row] = len(values)
		}
	}

	return newRaw(totalRows, mats[0].cols, values, colIdx, rowPtr), nil
}

// Repeat tiles the single-row matrix row into n identical rows. A multi-row
// operand returns ErrDimensionMismatch, a negative n ErrInvalidDimensions;
// n == 0 yields the empty 0×cols matrix.
//
// Complexity: O(n*nnz).
func Repeat(row *Matrix, n int, opts ...Option) (*Matrix, error) {
	if err := checkOperands(gatherOptions(opts...), "Repeat", row); err != nil {
		return nil, err
	}
	if row.rows != 1 {
		return nil, opErrorf("Repeat", ErrDimensionMismatch, "matrix has %d rows, want 1", row.rows)
	}
	if n < 0 {
		return nil, opErrorf("Repeat", ErrInvalidDimensions, "count %d", n)
	}

	nnz := len(row.values)
	values := make([]float64, nnz*n)
	colIdx := make([]int, nnz*n)
	rowPtr := make([]int, n+1)
	for i := 0; i < n; i++ {
		base := i * nnz
		copy(values[base:], row.values)
		copy(colIdx[base:], row.colIdx)
		rowPtr[i+1] = base + nnz
	}

	return newRaw(n, row.cols, values, colIdx, rowPtr), nil
}
