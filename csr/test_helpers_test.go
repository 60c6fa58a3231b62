// Package csr_test: shared construction helpers for the suite. Must*
// builders fail the calling test instead of returning errors, keeping the
// test bodies about behavior, not plumbing.
package csr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ml-lab/TensorLog/csr"
)

// MustFromDense builds a matrix from dense rows or fails the test.
func MustFromDense(t *testing.T, rows [][]float64) *csr.Matrix {
	t.Helper()
	m, err := csr.FromDense(rows)
	require.NoError(t, err, "FromDense must accept rectangular input")

	return m
}

// MustRow builds a single-row matrix or fails the test.
func MustRow(t *testing.T, row []float64) *csr.Matrix {
	t.Helper()
	m, err := csr.RowOf(row)
	require.NoError(t, err, "RowOf must accept any dense row")

	return m
}

// MustNew adopts a raw CSR triple or fails the test.
func MustNew(t *testing.T, rows, cols int, values []float64, colIdx, rowPtr []int) *csr.Matrix {
	t.Helper()
	m, err := csr.New(rows, cols, values, colIdx, rowPtr)
	require.NoError(t, err, "New must accept a well-formed triple")

	return m
}

// MustZeros builds an empty rows×cols matrix or fails the test.
func MustZeros(t *testing.T, rows, cols int) *csr.Matrix {
	t.Helper()
	m, err := csr.Zeros(rows, cols)
	require.NoError(t, err, "Zeros must accept non-negative dimensions")

	return m
}

// base3x3 is the stock fixture used across the suite: nonzeros at columns
// 0 and 2 of every row.
//
//	[1 0  5]
//	[2 0 10]
//	[3 0 15]
func base3x3(t *testing.T) *csr.Matrix {
	t.Helper()

	return MustFromDense(t, [][]float64{
		{1, 0, 5},
		{2, 0, 10},
		{3, 0, 15},
	})
}
