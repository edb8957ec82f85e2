package gemm

import (
	"reflect"
	"testing"
)

func TestMatMulSampleChain(t *testing.T) {
	// X = [[1,2],[3,4]], W = [[1,0,2],[0,1,1]] -> Y.
	x := Matrix{{1, 2}, {3, 4}}
	w := Matrix{{1, 0, 2}, {0, 1, 1}}

	y, err := MatMul(x, w)
	if err != nil {
		t.Fatalf("MatMul: %v", err)
	}
	want := Matrix{{1, 2, 4}, {3, 4, 10}}
	if !reflect.DeepEqual(y, want) {
		t.Fatalf("MatMul = %v, want %v", y, want)
	}
}

func TestMatMulDimensionMismatch(t *testing.T) {
	a := Matrix{{1, 2}}
	b := Matrix{{1, 2, 3}}
	if _, err := MatMul(a, b); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestMatVecSampleChain(t *testing.T) {
	w := Matrix{{1, 0, 2}, {0, 1, 1}}
	r := Vector{1, 1, 1}

	wr, err := MatVec(w, r)
	if err != nil {
		t.Fatalf("MatVec: %v", err)
	}
	want := Vector{3, 2}
	if !reflect.DeepEqual(wr, want) {
		t.Fatalf("MatVec(W, r) = %v, want %v", wr, want)
	}

	y := Matrix{{1, 2, 4}, {3, 4, 10}}
	yr, err := MatVec(y, r)
	if err != nil {
		t.Fatalf("MatVec: %v", err)
	}
	wantYr := Vector{7, 17}
	if !reflect.DeepEqual(yr, wantYr) {
		t.Fatalf("MatVec(Y, r) = %v, want %v", yr, wantYr)
	}
}

func TestMatVecDimensionMismatch(t *testing.T) {
	m := Matrix{{1, 2, 3}}
	if _, err := MatVec(m, Vector{1, 2}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestMatMulNoAliasing(t *testing.T) {
	a := Matrix{{1, 0}, {0, 1}}
	b := Matrix{{5, 6}, {7, 8}}
	c, err := MatMul(a, b)
	if err != nil {
		t.Fatalf("MatMul: %v", err)
	}
	c[0][0] = 999
	if b[0][0] == 999 || a[0][0] == 999 {
		t.Fatal("MatMul result aliases an input")
	}
}
