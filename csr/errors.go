// SPDX-License-Identifier: MIT
// Package csr: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the csr
// package. All kernels MUST return these sentinels and tests MUST check them
// via errors.Is. No kernel panics on user-triggered error conditions; panics
// are reserved for programmer errors (nil callbacks, nonsensical option
// values).

package csr

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "csr: ..." so grepping logs stays trivial.
// Kernels wrap these sentinels with call-site context via
// fmt.Errorf("Op: detail: %w", ErrX); callers still match with errors.Is.
//
// ErrBandTooWide is special: it is a negative result, not a failure. Softmax
// branches on it to pick the sparse fallback, and callers of Densify are
// expected to do the same.

var (
	// ErrNilMatrix is returned when a required *Matrix operand is nil.
	ErrNilMatrix = errors.New("csr: nil matrix")

	// ErrNotCSR signals a malformed compressed-row structure: wrong rowPtr
	// length or endpoints, non-monotone rowPtr, values/colIdx length skew,
	// a column outside [0, cols), or unsorted columns within a row.
	ErrNotCSR = errors.New("csr: malformed compressed-row structure")

	// ErrNaNInf signals a NaN stored in a matrix, or a NaN/±Inf produced by
	// a kernel where finite values are required by the numeric policy.
	ErrNaNInf = errors.New("csr: NaN or Inf encountered")

	// ErrDimensionMismatch indicates incompatible operand shapes: differing
	// column counts, row counts that neither match nor allow a single-row
	// broadcast, or a multi-row matrix where a row vector is required.
	ErrDimensionMismatch = errors.New("csr: dimension mismatch")

	// ErrOutOfRange indicates a row or column index outside valid bounds.
	// Public indexers (At, SelectRows' lo) MUST return this, not panic.
	ErrOutOfRange = errors.New("csr: index out of range")

	// ErrInvalidDimensions is returned for negative row/column counts, a
	// negative repeat count, an empty Stack input, or Mean of a zero-row
	// matrix.
	ErrInvalidDimensions = errors.New("csr: invalid dimensions")

	// ErrBandTooWide reports that Densify declined to materialize the dense
	// band because it would exceed the configured expansion budget (or the
	// matrix stores no entries, so no band exists). Negative result, not a
	// failure: branch with errors.Is and take the sparse path.
	ErrBandTooWide = errors.New("csr: dense band too wide to densify")

	// ErrBadPermutation is returned by ShuffleRows when an explicit
	// permutation has the wrong length or repeats a row.
	ErrBadPermutation = errors.New("csr: not a valid row permutation")
)
