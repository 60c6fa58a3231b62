// SPDX-License-Identifier: MIT

// Package csr: functional configuration for the kernels. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that resolves defaults per call.
//
// Design goals:
//   - Deterministic behavior: no global state, no hidden switches; the only
//     nondeterminism is ShuffleRows without WithRand, which draws from the
//     process-wide source.
//   - Isolation: options resolve per call, so concurrent callers and tests
//     can run under different settings without coordination.
//   - Safe by construction: panic only on invalid parameters (programmer
//     error); data-driven failures are sentinel errors.

package csr

import (
	"math"
	"math/rand/v2"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultCareful gates the O(nnz) invariant layer inside every kernel.
	// Keep it on; disable per call only in profiled hot paths that own the
	// construction of their operands.
	DefaultCareful = true

	// DefaultMaxExpansion bounds the densify heuristic: the dense band is
	// materialized only while rows*(span of nonzero columns) stays within
	// MaxExpansion times the CSR footprint rows+1+2*nnz.
	DefaultMaxExpansion = 3.0

	// DefaultNullEpsilon is the log-weight granted to the null entity by
	// Softmax: its column enters every row with score NullEpsilon, so it
	// leaves with probability ~exp(NullEpsilon) when the real candidates
	// dominate. The sparse fallback also floors underflowed probabilities
	// at exp(NullEpsilon).
	DefaultNullEpsilon = -10.0
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicMaxExpansionInvalid = "csr: WithMaxExpansion: limit must be finite and > 0"
	panicNullEpsilonInvalid  = "csr: WithNullEpsilon: eps must be finite and < 0"
	panicNilRand             = "csr: WithRand: source must be non-nil"
	panicNilAlterFunc        = "csr: AlterRows: nil alteration func"
	panicNilMapFunc          = "csr: MapValues: nil value func"
	panicNilSelectorFunc     = "csr: MapValuesSelected: nil selector func"
	panicRowOutOfRange       = "csr: NonzeroPositions: row out of range"
)

// ---------- Public option type (functional) ----------

// Option mutates internal options. Safe to apply repeatedly; last writer
// wins. Constructors MUST panic only on nonsensical values.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// It is intentionally unexported-by-content: public entry points accept
// ...Option and resolve them via gatherOptions, so no caller ever holds a
// mutable shared config.
type Options struct {
	careful      bool       // DefaultCareful
	maxExpansion float64    // DefaultMaxExpansion; > 0, finite
	nullEpsilon  float64    // DefaultNullEpsilon; < 0, finite
	rng          *rand.Rand // nil ⇒ process-wide source (ShuffleRows only)
}

// ---------- Constructors (WithX) ----------

// WithCareful toggles the invariant layer inside kernels. When off, only the
// O(1) nil guards remain and behavior on malformed operands is undefined.
//
// Complexity: O(1).
func WithCareful(on bool) Option {
	return func(o *Options) { o.careful = on }
}

// WithMaxExpansion sets the densify budget: the dense band may occupy at
// most limit times the CSR footprint. Larger limits densify more matrices;
// limit < 1 effectively forces the sparse paths.
//
// Panics when limit is NaN, ±Inf, or not strictly positive.
// Complexity: O(1).
func WithMaxExpansion(limit float64) Option {
	if math.IsNaN(limit) || math.IsInf(limit, 0) || limit <= 0 {
		panic(panicMaxExpansionInvalid)
	}

	return func(o *Options) { o.maxExpansion = limit }
}

// WithNullEpsilon sets the null-entity log-weight used by Softmax. It must
// be strictly negative: exp(eps) is both the null entity's resting score and
// the floor for probabilities that underflowed to zero, and a non-negative
// eps would let the null mass dominate every row.
//
// Panics when eps is NaN, ±Inf, or >= 0.
// Complexity: O(1).
func WithNullEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps >= 0 {
		panic(panicNullEpsilonInvalid)
	}

	return func(o *Options) { o.nullEpsilon = eps }
}

// WithRand pins ShuffleRows to a caller-owned randomness source, making the
// generated permutation reproducible. Without it the process-wide source is
// used.
//
// Panics when r is nil.
// Complexity: O(1).
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic(panicNilRand)
	}

	return func(o *Options) { o.rng = r }
}

// ---------- Internal resolution ----------

// gatherOptions starts from the documented defaults and applies the user's
// setters in order.
func gatherOptions(user ...Option) Options {
	o := Options{
		careful:      DefaultCareful,
		maxExpansion: DefaultMaxExpansion,
		nullEpsilon:  DefaultNullEpsilon,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}

// perm draws a uniformly random permutation of n rows from the configured
// source, falling back to the process-wide generator.
func (o Options) perm(n int) []int {
	if o.rng != nil {
		return o.rng.Perm(n)
	}

	return rand.Perm(n)
}
