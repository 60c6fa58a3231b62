// Package csr_test contains unit tests for the functional options: the
// documented defaults, the constructor panic contracts, last-writer-wins
// resolution and the NullEpsilon knob's reach into Softmax.
package csr_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ml-lab/TensorLog/csr"
)

// TestOptionDefaultsDocumented pins the exported default constants. Kernels
// resolve from these per call, so changing one silently retunes every
// caller that passes no options.
func TestOptionDefaultsDocumented(t *testing.T) {
	assert.True(t, csr.DefaultCareful, "the invariant layer is on unless a caller opts out")
	assert.Equal(t, 3.0, csr.DefaultMaxExpansion)
	assert.Equal(t, -10.0, csr.DefaultNullEpsilon)
}

// TestWithMaxExpansionPanics verifies the densify budget rejects nonsense at
// construction, before any kernel runs: zero and negative budgets admit no
// band at all, and a NaN or infinite budget makes the size comparison
// meaningless.
func TestWithMaxExpansionPanics(t *testing.T) {
	for _, limit := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.PanicsWithValue(t, "csr: WithMaxExpansion: limit must be finite and > 0", func() {
			csr.WithMaxExpansion(limit)
		}, "limit %v must be rejected", limit)
	}

	assert.NotPanics(t, func() { csr.WithMaxExpansion(1e-9) }, "tiny budgets are legal, they just force the sparse paths")
}

// TestWithNullEpsilonPanics verifies the null-entity log-weight must be
// finite and strictly negative: at eps >= 0 the null column would carry at
// least as much score as a unit candidate and dominate every row.
func TestWithNullEpsilonPanics(t *testing.T) {
	for _, eps := range []float64{0, 1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.PanicsWithValue(t, "csr: WithNullEpsilon: eps must be finite and < 0", func() {
			csr.WithNullEpsilon(eps)
		}, "eps %v must be rejected", eps)
	}

	assert.NotPanics(t, func() { csr.WithNullEpsilon(-1e-9) }, "any finite negative eps is legal")
}

// TestWithRandPanicsOnNil verifies the reproducibility hook refuses a nil
// source instead of quietly falling back to the process-wide one.
func TestWithRandPanicsOnNil(t *testing.T) {
	assert.PanicsWithValue(t, "csr: WithRand: source must be non-nil", func() {
		csr.WithRand(nil)
	})
}

// TestOptionsLastWriterWins verifies repeated setters resolve to the last
// one, observable through ShuffleRows: with two pinned sources the drawn
// permutation must match a run configured with only the second.
func TestOptionsLastWriterWins(t *testing.T) {
	m := base3x3(t)

	both, err := csr.ShuffleRows(m, nil,
		csr.WithRand(rand.New(rand.NewPCG(3, 3))),
		csr.WithRand(rand.New(rand.NewPCG(9, 9))))
	require.NoError(t, err)
	last, err := csr.ShuffleRows(m, nil, csr.WithRand(rand.New(rand.NewPCG(9, 9))))
	require.NoError(t, err)

	assert.True(t, csr.Equal(both, last), "the second WithRand must supersede the first")
}

// TestSoftmaxHonorsNullEpsilon runs Softmax with a non-default eps and
// checks the tilt arithmetic exactly: a candidate at 5 against a null column
// at -2 leaves the null entity exp(-7)/(1+exp(-7)) of the row. The sparse
// fallback must agree with the dense band bit for bit, proving the knob
// reaches both paths.
func TestSoftmaxHonorsNullEpsilon(t *testing.T) {
	null := MustRow(t, []float64{0, 1})
	m := MustRow(t, []float64{5, 0})

	dense, err := csr.Softmax(null, m, csr.WithNullEpsilon(-2))
	require.NoError(t, err)

	nullMass := math.Exp(-7) / (1 + math.Exp(-7))
	got, err := dense.At(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, nullMass, got, 1e-15, "null column holds exp(-7)/(1+exp(-7))")
	got, err = dense.At(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1-nullMass, got, 1e-15, "the candidate keeps the rest")

	sparse, err := csr.Softmax(null, m, csr.WithNullEpsilon(-2), forceSparse)
	require.NoError(t, err)
	assert.True(t, csr.Equal(dense, sparse), "eps=-2 must steer the fallback exactly like the band")
}

// TestSoftmaxFloorFollowsNullEpsilon drives a row into underflow on the
// sparse path and checks the floor is exp(eps) for the configured eps, not
// the default's exp(-10).
func TestSoftmaxFloorFollowsNullEpsilon(t *testing.T) {
	m := MustRow(t, []float64{800, 1})
	null := MustZeros(t, 1, 2)

	p, err := csr.Softmax(null, m, csr.WithNullEpsilon(-2), forceSparse)
	require.NoError(t, err)

	winner, err := p.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, winner, "the dominant score takes the whole row")
	floored, err := p.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, math.Exp(-2), floored, "the underflowed cell lands on exp(eps)")
}
