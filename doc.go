// Package tensorlog is the Go home of the TensorLog numeric substrate: the
// sparse-matrix kernels that probabilistic inference over a knowledge base
// actually spends its time in.
//
// 🚀 What lives here?
//
//	A focused, production-minded library built around one representation:
//		• csr/ — compressed sparse row matrices of float64 weights
//		• Invariant layer: structural and NaN validation behind one switch
//		• Kernels: row-wise softmax with a null-entity escape hatch,
//		  broadcasting componentwise products, row-sum weighting
//		• Row-set surgery: select, shuffle, stack, repeat — minibatch fuel
//		• Dense bridge: slice the populated column band into a gonum
//		  mat.Dense when that is cheaper, and convert back losslessly
//
// ✨ Why this shape?
//
//   - Checks are explicit — the careful switch gates every O(nnz) scan,
//     so hot paths pay only for what they asked for
//   - Errors, not traps — numerically sensitive stages verify their own
//     values and return sentinels callers match with errors.Is
//   - Deterministic by default — the only randomness is row shuffling,
//     and WithRand pins even that
//
// Layout:
//
//	csr/      — the matrix type, invariant layer and all kernels
//	examples/ — runnable demos (shuffle/select minibatching, softmax)
//
// Quick taste:
//
//	m, _ := csr.FromDense([][]float64{{1, 0, 5}, {2, 0, 10}})
//	block, _ := csr.SelectRows(m, 0, 1)
//	fmt.Println(csr.Summary(block)) // nnz 2 rows 1 cols 3
//
//	go get github.com/ml-lab/TensorLog/csr
package tensorlog
