// Package csr_test contains unit tests for the softmax kernel: the dense
// fast path, the sparse fallback, their agreement, the null-entity
// semantics and the numeric guards.
package csr_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ml-lab/TensorLog/csr"
)

// forceSparse refuses every band, routing Softmax through the fallback.
var forceSparse = csr.WithMaxExpansion(1e-9)

// TestSoftmaxPlainRow pins the textbook case: logits [1,2,3] with an empty
// null vector (no tilt) normalize to the classic distribution.
func TestSoftmaxPlainRow(t *testing.T) {
	m := MustRow(t, []float64{1, 2, 3})
	null := MustZeros(t, 1, 3) // no null column, no broadcast mass

	p, err := csr.Softmax(null, m)
	require.NoError(t, err)

	want := []float64{0.0900, 0.2447, 0.6652}
	require.Equal(t, 3, p.NNZ())
	for k, w := range want {
		got, aerr := p.At(0, k)
		require.NoError(t, aerr)
		assert.InDelta(t, w, got, 1e-4, "probability of logit %d", k+1)
	}

	total := 0.0
	for _, v := range p.Values() {
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9, "probabilities must sum to one")
}

// TestSoftmaxNullColumn verifies the null-entity contract: every row gains
// the null column at nullEpsilon, real candidates squeeze it to ~exp(-10),
// and a row with no candidates hands it everything.
func TestSoftmaxNullColumn(t *testing.T) {
	m := MustFromDense(t, [][]float64{
		{1, 2, 3, 0},
		{0, 0, 0, 0}, // no candidates
	})
	null := MustFromDense(t, [][]float64{{0, 0, 0, 1}})

	p, err := csr.Softmax(null, m)
	require.NoError(t, err)

	for i := 0; i < p.Rows(); i++ {
		sum := 0.0
		for k := range p.NonzeroPositions(i) {
			v := p.Values()[k]
			assert.False(t, v < 0, "probabilities are never negative")
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "row %d mass", i)
	}

	nullMass, err := p.At(0, 3)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-10)/30.19, nullMass, 1e-7, "competing null entity keeps ~exp(-10) mass")

	soleMass, err := p.At(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, soleMass, "with no candidates the null entity takes the row")
}

// TestSoftmaxPathsAgree property-tests the strategy decision: the same
// input answered densely and sparsely must produce identical results when
// no probability underflows.
func TestSoftmaxPathsAgree(t *testing.T) {
	m := MustFromDense(t, [][]float64{
		{1, 2, 3, 0},
		{0, -1, 0, 4},
		{2, 0, 0, 2},
	})
	null := MustFromDense(t, [][]float64{{0, 0, 1, 0}})

	dense, err := csr.Softmax(null, m)
	require.NoError(t, err, "default budget admits this narrow band")

	sparse, err := csr.Softmax(null, m, forceSparse)
	require.NoError(t, err)

	assert.True(t, csr.Equal(dense, sparse), "both paths implement one contract")
}

// TestSoftmaxUnderflowAsymmetry pins the documented divergence: a
// probability underflowing to zero is dropped by the dense path but
// floored at exp(nullEpsilon) by the sparse one.
func TestSoftmaxUnderflowAsymmetry(t *testing.T) {
	// exp(1-800) underflows to exactly zero.
	m := MustRow(t, []float64{800, 1})
	null := MustZeros(t, 1, 2)

	dense, err := csr.Softmax(null, m)
	require.NoError(t, err)
	assert.Equal(t, 1, dense.NNZ(), "underflowed cell dropped with the band's zeros")
	winner, err := dense.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, winner)

	sparse, err := csr.Softmax(null, m, forceSparse)
	require.NoError(t, err)
	require.Equal(t, 2, sparse.NNZ(), "sparse path keeps the stored cell")
	floored, err := sparse.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, math.Exp(csr.DefaultNullEpsilon), floored, "underflow floored at exp(nullEpsilon)")
}

// TestSoftmaxNaNAborts verifies a poisoned score aborts both paths with
// ErrNaNInf instead of leaking NaN probabilities.
func TestSoftmaxNaNAborts(t *testing.T) {
	m := MustFromDense(t, [][]float64{{1, 0, 2}})
	m.Values()[1] = math.NaN()
	null := MustZeros(t, 1, 3)

	_, err := csr.Softmax(null, m)
	assert.ErrorIs(t, err, csr.ErrNaNInf, "dense path must refuse NaN scores")

	_, err = csr.Softmax(null, m, forceSparse)
	assert.ErrorIs(t, err, csr.ErrNaNInf, "sparse path must refuse NaN scores")
}

// TestSoftmaxShapeGuards verifies the null-vector contract.
func TestSoftmaxShapeGuards(t *testing.T) {
	m := base3x3(t)

	_, err := csr.Softmax(MustZeros(t, 2, 3), m)
	assert.ErrorIs(t, err, csr.ErrDimensionMismatch, "null must be a single row")

	_, err = csr.Softmax(MustZeros(t, 1, 4), m)
	assert.ErrorIs(t, err, csr.ErrDimensionMismatch, "null must share m's width")

	_, err = csr.Softmax(nil, m)
	assert.ErrorIs(t, err, csr.ErrNilMatrix)
}

// TestSoftmaxEmptyMatrix verifies full emptiness flows through the sparse
// fallback untouched.
func TestSoftmaxEmptyMatrix(t *testing.T) {
	p, err := csr.Softmax(MustZeros(t, 1, 5), MustZeros(t, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Rows())
	assert.Zero(t, p.NNZ(), "no scores in, no probabilities out")
}

// TestSoftmaxLeavesOperandUntouched verifies m is never mutated, whichever
// path runs.
func TestSoftmaxLeavesOperandUntouched(t *testing.T) {
	m := base3x3(t)
	before := m.Clone()
	null := MustZeros(t, 1, 3)

	_, err := csr.Softmax(null, m)
	require.NoError(t, err)
	assert.True(t, csr.Equal(before, m), "dense path must not mutate m")

	_, err = csr.Softmax(null, m, forceSparse)
	require.NoError(t, err)
	assert.True(t, csr.Equal(before, m), "sparse path must not mutate m")
}
