// Package csr implements the sparse numeric substrate used by the
// probabilistic inference layers: compressed sparse row (CSR) matrices of
// float64 weights, together with the small set of kernels inference actually
// needs — row-wise softmax, broadcasting componentwise products, row-sum
// weighting, and row-set surgery (select, shuffle, stack, repeat).
//
// The representation is the classic CSR triple:
//
//	values  []float64 — stored entries, row-major
//	colIdx  []int     — column of each stored entry
//	rowPtr  []int     — rows+1 offsets; row i occupies [rowPtr[i], rowPtr[i+1])
//
// with the invariants rowPtr[0]==0, rowPtr[rows]==len(values)==len(colIdx),
// rowPtr non-decreasing, columns in [0, cols), and entries within a row
// sorted by column. Explicit zeros may be stored; Undensify and the dense
// softmax path are the two places that eliminate them.
//
// # Validation polarity
//
// Checking a matrix costs O(nnz). Every operation therefore takes the
// trailing ...Option form and consults the careful switch (on by default):
// when enabled, operands pass through CheckStructure before any arithmetic;
// when disabled, only O(1) nil guards remain and behavior on malformed input
// is undefined. CheckStructure and CheckNoNaN always check when called
// directly — the switch gates whether operations call them, not what they do.
//
// # Numeric policy
//
// Kernels never rely on floating-point traps. Numerically sensitive stages
// (softmax row maxima and norms, row-sum weighting) test their intermediate
// and final values explicitly and return ErrNaNInf with enough context to
// identify the offending operand. Underflow to zero is tolerated everywhere:
// very small probabilities collapsing to 0 is expected, and the softmax
// fallback floors such cells at exp(nullEpsilon) so the null entity keeps a
// nonzero score.
//
// # Mutation model
//
// Kernels return fresh matrices and never alias their operands. The one
// sanctioned in-place surface is AlterRows, which hands the caller bounded
// per-row views of values (and read-only columns); Softmax's sparse fallback
// and the broadcast product are built on it. Matrices are not safe for
// concurrent mutation; share them read-only or clone.
package csr
