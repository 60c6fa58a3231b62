// SPDX-License-Identifier: MIT

// Package csr: the broadcast engine. Inference composes per-relation weight
// matrices with single-row message vectors, so the two kernels here accept
// operands whose row counts either match or allow a 1-row operand to be
// replicated across the other. Broadcasting is virtual — the single row is
// read repeatedly, never materialized per row, and it never widens the
// other operand's sparsity pattern.

package csr

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Multiply returns the componentwise (Hadamard) product of m1 and m2.
//
// Column counts must match. Row counts decide the strategy:
//   - equal: per-row intersection of the sorted column streams; the result
//     stores only cells present in both operands.
//   - exactly one operand has a single row: that row becomes a column→value
//     table and every row of the other operand is rewritten through it
//     (absent columns read 0). The multi-row operand's pattern is preserved
//     exactly, so entries multiplied by an absent column stay stored as
//     explicit zeros.
//   - anything else: ErrDimensionMismatch naming both row counts.
//
// Complexity: O(nnz(m1)+nnz(m2)) equal-rows, O(nnz) broadcast.
// Determinism: pure.
func Multiply(m1, m2 *Matrix, opts ...Option) (*Matrix, error) {
	if err := checkOperands(gatherOptions(opts...), "Multiply", m1, m2); err != nil {
		return nil, err
	}
	if m1.cols != m2.cols {
		return nil, opErrorf("Multiply", ErrDimensionMismatch, "%d vs %d columns", m1.cols, m2.cols)
	}

	switch {
	case m1.rows == m2.rows:
		return hadamard(m1, m2), nil
	case m1.rows == 1:
		return mulBroadcastRow(m2, m1)
	case m2.rows == 1:
		return mulBroadcastRow(m1, m2)
	default:
		return nil, opErrorf("Multiply", ErrDimensionMismatch, "mismatched row counts %d, %d", m1.rows, m2.rows)
	}
}

// hadamard multiplies equal-shape operands over the intersection of their
// patterns.
func hadamard(m1, m2 *Matrix) *Matrix {
	bound := len(m1.values)
	if len(m2.values) < bound {
		bound = len(m2.values)
	}

	values := make([]float64, 0, bound)
	colIdx := make([]int, 0, bound)
	rowPtr := make([]int, m1.rows+1)
	for i := 0; i < m1.rows; i++ {
		ka, ea := m1.rowPtr[i], m1.rowPtr[i+1]
		kb, eb := m2.rowPtr[i], m2.rowPtr[i+1]
		for ka < ea && kb < eb {
			switch {
			case m1.colIdx[ka] < m2.colIdx[kb]:
				ka++
			case m2.colIdx[kb] < m1.colIdx[ka]:
				kb++
			default:
				values = append(values, m1.values[ka]*m2.values[kb])
				colIdx = append(colIdx, m1.colIdx[ka])
				ka++
				kb++
			}
		}
		rowPtr[i+1] = len(values)
	}

	return newRaw(m1.rows, m1.cols, values, colIdx, rowPtr)
}

// mulBroadcastRow multiplies every row of m componentwise by the single-row
// vector v: m's pattern, v looked up by column.
func mulBroadcastRow(m, v *Matrix) (*Matrix, error) {
	table := make(map[int]float64, len(v.values))
	for k := v.rowPtr[0]; k < v.rowPtr[1]; k++ {
		table[v.colIdx[k]] = v.values[k]
	}

	out := m.Clone()
	err := AlterRows(out, func(_ int, vals []float64, cols []int) error {
		for k := range vals {
			vals[k] *= table[cols[k]] // absent columns read 0
		}
		return nil
	}, WithCareful(false))
	if err != nil {
		return nil, err
	}

	return out, nil
}

// WeightByRowSum scales m1 by the row sums of m2. The case order is part of
// the contract:
//
//  1. m2 has a single row: its stored mass is one scalar and the result is
//     m1 scaled by it, whatever m1's row count.
//  2. m1 has a single row and m2 several: the result takes m2's row count;
//     row i is m1's row scaled by m2's row-i sum. Column counts must match.
//  3. equal row counts: row i of the copy of m1 is scaled in place by m2's
//     row-i sum.
//
// Any other combination returns ErrDimensionMismatch.
//
// Every case verifies the values it writes are finite and returns ErrNaNInf
// otherwise: a non-finite weight here almost always means an upstream kernel
// leaked. Case 1 reports with both operand summaries, since the scalar regime
// gives no row index to localize the leak; cases 2 and 3 name the offending
// row and its sum.
//
// Complexity: O(nnz(m1)+nnz(m2)) cases 1 and 3, O(nnz(m1)*rows(m2)+nnz(m2))
// case 2. Determinism: pure.
func WeightByRowSum(m1, m2 *Matrix, opts ...Option) (*Matrix, error) {
	if err := checkOperands(gatherOptions(opts...), "WeightByRowSum", m1, m2); err != nil {
		return nil, err
	}

	switch {
	case m2.rows == 1:
		return weightByScalar(m1, m2)

	case m1.rows == 1 && m2.rows > 1:
		if m1.cols != m2.cols {
			return nil, opErrorf("WeightByRowSum", ErrDimensionMismatch, "%d vs %d columns", m1.cols, m2.cols)
		}
		return weightTiled(m1, m2)

	case m1.rows == m2.rows:
		return weightRowwise(m1, m2)

	default:
		return nil, opErrorf("WeightByRowSum", ErrDimensionMismatch, "mismatched row counts %d, %d", m1.rows, m2.rows)
	}
}

// weightByScalar scales m1 by the total stored mass of the single-row m2,
// checking every product for finiteness.
func weightByScalar(m1, m2 *Matrix) (*Matrix, error) {
	w := floats.Sum(m2.values)

	out := m1.Clone()
	for k, v := range out.values {
		p := v * w
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, opErrorf("WeightByRowSum", ErrNaNInf,
				"non-finite product at entry %d: m1 %s, m2 %s, row sum %g", k, Summary(m1), Summary(m2), w)
		}
		out.values[k] = p
	}

	return out, nil
}

// weightTiled tiles the single row m1 once per row of m2, scaling each copy
// by that row's sum and checking every product for finiteness.
func weightTiled(m1, m2 *Matrix) (*Matrix, error) {
	nnz1 := len(m1.values)
	values := make([]float64, nnz1*m2.rows)
	colIdx := make([]int, nnz1*m2.rows)
	rowPtr := make([]int, m2.rows+1)
	for i := 0; i < m2.rows; i++ {
		w := floats.Sum(m2.values[m2.rowPtr[i]:m2.rowPtr[i+1]])
		base := i * nnz1
		for j := 0; j < nnz1; j++ {
			p := m1.values[j] * w
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, opErrorf("WeightByRowSum", ErrNaNInf, "non-finite product tiling row %d: row sum %g", i, w)
			}
			values[base+j] = p
			colIdx[base+j] = m1.colIdx[j]
		}
		rowPtr[i+1] = base + nnz1
	}

	return newRaw(m2.rows, m2.cols, values, colIdx, rowPtr), nil
}

// weightRowwise scales each row of a copy of m1 by the matching row sum of
// m2, checking the scaled rows stay finite.
func weightRowwise(m1, m2 *Matrix) (*Matrix, error) {
	out := m1.Clone()
	for i := 0; i < m2.rows; i++ {
		w := floats.Sum(m2.values[m2.rowPtr[i]:m2.rowPtr[i+1]])
		row := out.values[out.rowPtr[i]:out.rowPtr[i+1]]
		floats.Scale(w, row)
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, opErrorf("WeightByRowSum", ErrNaNInf, "non-finite value in row %d: row sum %g", i, w)
			}
		}
	}

	return out, nil
}
