// SPDX-License-Identifier: MIT

// Package csr: one-line diagnostics. These read the matrix as-is and never
// validate: they exist to describe operands inside error messages and debug
// logs, which is exactly when a matrix may be broken.

package csr

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Summary returns a short debugging description, "nnz 4 rows 2 cols 3".
// A nil matrix reads "<nil>".
func Summary(m *Matrix) string {
	if m == nil {
		return "<nil>"
	}

	return fmt.Sprintf("nnz %d rows %d cols %d", m.NNZ(), m.rows, m.cols)
}

// PrettySummary returns a fixed-width shape tag, "  2 x   3 [4 nz]", for
// aligned trace output. A nil matrix reads "___" so absent slots stay
// visible in a table.
func PrettySummary(m *Matrix) string {
	if m == nil {
		return "___"
	}

	return fmt.Sprintf("%3d x %3d [%d nz]", m.rows, m.cols, m.NNZ())
}

// MaxValue returns the largest stored value, or -1 when the matrix is nil
// or stores nothing. The -1 sentinel (not an error) keeps the common
// "largest weight so far" reduction branch-free for callers folding over
// many matrices.
func MaxValue(m *Matrix) float64 {
	if m == nil || len(m.values) == 0 {
		return -1
	}

	return floats.Max(m.values)
}
