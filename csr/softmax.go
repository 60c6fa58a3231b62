// SPDX-License-Identifier: MIT

// Package csr: row-wise softmax with a null-entity escape hatch.
//
// Inference wants each row of scores turned into a probability distribution
// over the stored candidates, but a row with no good candidate must be
// allowed to answer "null". The null vector marks the null entity's column;
// Softmax first tilts every row by nullEpsilon at that column, so the null
// entity competes with score nullEpsilon and wins exactly when everything
// else is worse.
//
// Two execution paths share one contract. When the populated columns form
// an affordable band the row loop runs densely on a gonum matrix; otherwise
// the row-alteration engine rewrites the sparse rows in place. Both paths
// shift by the row maximum before exponentiating, which caps every exp
// argument at 0 — overflow is structurally impossible, and the remaining
// hazard (a NaN slipping in) is checked at the max, norm and division
// stages rather than trusted to hardware traps.

package csr

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Softmax normalizes each row of m into a probability distribution over its
// stored entries, after granting the null entity its resting score.
//
// null is a single-row matrix with m's column count marking the null
// entity's column (weight 1 there, nothing else). The pipeline is
//
//	result = Repeat(Scale(null, nullEpsilon), rows(m)) + m
//
// followed by the per-row normalization exp(v-max)/Σexp(v-max) over stored
// cells, densely when Densify accepts the result and sparsely otherwise.
//
// The paths differ in one documented corner: a probability that underflows
// to exactly zero is dropped from the result by the dense path (Undensify
// strips zeros) but floored at exp(nullEpsilon) by the sparse path, the
// same floor that keeps the null entity alive. Stored-zero scores share
// that corner: the dense path conflates them with background.
//
// Errors: ErrNilMatrix/ErrNotCSR from the invariant layer under careful,
// ErrDimensionMismatch when null is not a single row of m's width,
// ErrNaNInf when a NaN reaches a row maximum, norm or quotient. m is never
// mutated; the result is always a fresh matrix.
//
// Complexity: O(nnz + rows*span) dense, O(nnz) sparse.
func Softmax(null, m *Matrix, opts ...Option) (*Matrix, error) {
	o := gatherOptions(opts...)
	if err := checkOperands(o, "Softmax", null, m); err != nil {
		return nil, err
	}
	if null.rows != 1 {
		return nil, opErrorf("Softmax", ErrDimensionMismatch, "null vector has %d rows, want 1", null.rows)
	}
	if null.cols != m.cols {
		return nil, opErrorf("Softmax", ErrDimensionMismatch, "null vector has %d columns, want %d", null.cols, m.cols)
	}

	tilt, err := Scale(null, o.nullEpsilon, WithCareful(false))
	if err != nil {
		return nil, err
	}
	tilted, err := Repeat(tilt, m.rows, WithCareful(false))
	if err != nil {
		return nil, err
	}
	result, err := Add(tilted, m, WithCareful(false))
	if err != nil {
		return nil, err
	}

	band, err := Densify(result, WithCareful(false), WithMaxExpansion(o.maxExpansion))
	switch {
	case err == nil:
		if err = denseSoftmax(band.Band); err != nil {
			return nil, err
		}
		return Undensify(band)

	case errors.Is(err, ErrBandTooWide):
		if err = AlterRows(result, softmaxRow(o.nullEpsilon), WithCareful(false)); err != nil {
			return nil, err
		}
		return result, nil

	default:
		return nil, err
	}
}

// denseSoftmax normalizes each band row in place over its nonzero cells.
// Background (exactly zero) cells never gain mass; cells whose exp
// underflows to zero rejoin the background and vanish at Undensify.
func denseSoftmax(d *mat.Dense) error {
	rows, _ := d.Dims()
	for i := 0; i < rows; i++ {
		row := d.RawRowView(i)

		rowMax := math.Inf(-1)
		retained := false
		for _, v := range row {
			if v == 0 {
				continue
			}
			if math.IsNaN(v) {
				return opErrorf("Softmax", ErrNaNInf, "dense path: row %d max", i)
			}
			retained = true
			if v > rowMax {
				rowMax = v
			}
		}
		if !retained {
			continue // empty source row keeps zero mass
		}

		rowNorm := 0.0
		for k, v := range row {
			if v == 0 {
				continue
			}
			e := math.Exp(v - rowMax)
			row[k] = e
			rowNorm += e
		}
		if math.IsNaN(rowNorm) {
			return opErrorf("Softmax", ErrNaNInf, "dense path: row %d norm", i)
		}

		for k, v := range row {
			if v != 0 {
				row[k] = v / rowNorm
			}
		}
	}

	return nil
}

// softmaxRow is the sparse fallback: one RowAlterFunc normalizing a row's
// stored values in place, flooring underflowed probabilities at
// exp(nullEps).
func softmaxRow(nullEps float64) RowAlterFunc {
	floor := math.Exp(nullEps)

	return func(row int, vals []float64, _ []int) error {
		if len(vals) == 0 {
			return nil // no stored scores, no distribution
		}

		rowMax := floats.Max(vals)
		if math.IsNaN(rowMax) {
			return opErrorf("Softmax", ErrNaNInf, "row %d max", row)
		}
		for k := range vals {
			vals[k] = math.Exp(vals[k] - rowMax)
		}

		rowNorm := floats.Sum(vals)
		if math.IsNaN(rowNorm) {
			return opErrorf("Softmax", ErrNaNInf, "row %d norm", row)
		}

		for k := range vals {
			vals[k] /= rowNorm
			if math.IsNaN(vals[k]) {
				return opErrorf("Softmax", ErrNaNInf, "row %d entry %d", row, k)
			}
			if vals[k] == 0 {
				vals[k] = floor
			}
		}

		return nil
	}
}
