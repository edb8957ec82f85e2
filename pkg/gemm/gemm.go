// Package gemm implements the protocol's sole arithmetic primitives:
// exact integer matrix-matrix and matrix-vector multiplication. No
// floating point, no SIMD-dependent reductions — every party that runs
// the same inputs through MatMul/MatVec gets bit-identical results.
package gemm

import "fmt"

// Matrix is a dense row-major integer matrix. Row i, column j is
// Matrix[i][j]. All rows of a well-formed Matrix have equal length.
type Matrix [][]int64

// Vector is a dense integer vector.
type Vector []int64

// Rows reports the row count.
func (m Matrix) Rows() int { return len(m) }

// Cols reports the column count, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// MatMul computes C = A · B. len(A's columns) must equal len(B's rows);
// the result is allocated fresh and never aliases either input.
func MatMul(a, b Matrix) (Matrix, error) {
	rows := a.Rows()
	inner := a.Cols()
	if b.Rows() != inner {
		return nil, fmt.Errorf("gemm: matmul dimension mismatch: A is %dx%d, B has %d rows", rows, inner, b.Rows())
	}
	cols := b.Cols()

	c := make(Matrix, rows)
	for i := 0; i < rows; i++ {
		ci := make(Vector, cols)
		ai := a[i]
		for k := 0; k < inner; k++ {
			aik := ai[k]
			if aik == 0 {
				continue
			}
			bk := b[k]
			for j := 0; j < cols; j++ {
				ci[j] += aik * bk[j]
			}
		}
		c[i] = ci
	}
	return c, nil
}

// MatVec computes u = M · v. len(v) must equal M's column count; u has
// length equal to M's row count.
func MatVec(m Matrix, v Vector) (Vector, error) {
	cols := m.Cols()
	if len(v) != cols {
		return nil, fmt.Errorf("gemm: matvec dimension mismatch: M has %d columns, v has %d entries", cols, len(v))
	}

	u := make(Vector, m.Rows())
	for i, row := range m {
		var acc int64
		for j, rv := range row {
			acc += rv * v[j]
		}
		u[i] = acc
	}
	return u, nil
}
