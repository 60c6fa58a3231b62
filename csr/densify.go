// SPDX-License-Identifier: MIT

// Package csr: the dense bridge. Inference matrices are huge but their
// nonzero columns usually huddle in a narrow band, so kernels with ugly
// sparse formulations (softmax, mostly) can slice out that band as a dense
// gonum matrix, work there, and convert back. Densify is a heuristic, not a
// converter: when the band would cost more than it saves it answers
// ErrBandTooWide and the caller stays sparse.

package csr

import "gonum.org/v1/gonum/mat"

// DenseBand is the dense window over a matrix's populated columns plus the
// information Undensify needs to place it back: Band row i, column j holds
// the source cell (i, Lo+j), and Cols remembers the source's full width.
type DenseBand struct {
	Band *mat.Dense
	Lo   int
	Cols int
}

// Densify slices the populated column range [min(colIdx), max(colIdx)] out
// of m as a DenseBand.
//
// The band is built only when it stays affordable: with span the distance
// max(colIdx)-min(colIdx), the estimated dense footprint rows*span must not
// exceed MaxExpansion times the CSR footprint rows+1+2*nnz. Otherwise — and
// for a matrix with no stored entries, which has no populated range at
// all — Densify returns ErrBandTooWide. That is a routing answer, not a
// failure: branch with errors.Is and take the sparse path.
//
// Explicit zeros do not survive the trip: inside the band they are
// indistinguishable from background, so Undensify drops them.
//
// Complexity: O(nnz + rows*span) on success, O(nnz) on refusal.
func Densify(m *Matrix, opts ...Option) (*DenseBand, error) {
	o := gatherOptions(opts...)
	if err := checkOperands(o, "Densify", m); err != nil {
		return nil, err
	}
	if len(m.values) == 0 {
		return nil, opErrorf("Densify", ErrBandTooWide, "no stored entries")
	}

	lo, hi := m.colIdx[0], m.colIdx[0]
	for _, c := range m.colIdx {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}

	denseSize := (hi - lo) * m.rows
	sparseSize := m.rows + 1 + 2*len(m.values)
	if float64(denseSize) > o.maxExpansion*float64(sparseSize) {
		return nil, opErrorf("Densify", ErrBandTooWide, "band %d x %d vs %d stored", m.rows, hi-lo+1, len(m.values))
	}

	band := mat.NewDense(m.rows, hi-lo+1, nil)
	for i := 0; i < m.rows; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			band.Set(i, m.colIdx[k]-lo, m.values[k])
		}
	}

	return &DenseBand{Band: band, Lo: lo, Cols: m.cols}, nil
}

// Undensify converts a band back into a CSR matrix of the source's original
// width, re-offsetting columns by Lo and keeping only cells that are not
// exactly zero. With Densify it forms a lossless round trip for matrices
// free of explicit zeros.
//
// A band that does not fit inside [0, Cols) returns ErrOutOfRange.
// Complexity: O(rows*width of the band).
func Undensify(b *DenseBand) (*Matrix, error) {
	if b == nil || b.Band == nil {
		return nil, opError("Undensify", ErrNilMatrix)
	}

	rows, width := b.Band.Dims()
	if b.Lo < 0 || b.Lo+width > b.Cols {
		return nil, opErrorf("Undensify", ErrOutOfRange, "band columns [%d, %d) in width %d", b.Lo, b.Lo+width, b.Cols)
	}

	values := make([]float64, 0, rows)
	colIdx := make([]int, 0, rows)
	rowPtr := make([]int, rows+1)
	for i := 0; i < rows; i++ {
		row := b.Band.RawRowView(i)
		for j, v := range row {
			if v != 0 {
				values = append(values, v)
				colIdx = append(colIdx, b.Lo+j)
			}
		}
		rowPtr[i+1] = len(values)
	}

	return newRaw(rows, b.Cols, values, colIdx, rowPtr), nil
}
