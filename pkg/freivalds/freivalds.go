// Package freivalds implements the modular reduction and identity check
// that underlie the verifier's randomized GEMM audit: given the claim
// Y = X·W, X·(W·r) ≡ Y·r (mod p) holds with overwhelming probability
// over a random r iff the claim is true.
package freivalds

import "github.com/MuriData/verinfer/config"

// Modulus is the Freivalds prime p = 2^61 - 1.
const Modulus = config.FreivaldsPrimeUint64

// Reduce reduces a signed accumulator into [0, Modulus) using Euclidean
// (always-nonnegative) modulo, so every party reduces negative
// accumulators to the same residue regardless of platform.
func Reduce(value int64) uint64 {
	m := int64(Modulus)
	r := value % m
	if r < 0 {
		r += m
	}
	return uint64(r)
}

// EqualModP reports whether a and b reduce to the same residue mod p.
func EqualModP(a, b int64) bool {
	return Reduce(a) == Reduce(b)
}

// CheckVectors reports whether xWr and yr are element-wise equal modulo
// the Freivalds prime, and the first mismatching index if not (-1 if
// they match or lengths differ in a way that can't be compared
// index-wise — callers are expected to have already validated lengths).
func CheckVectors(xWr, yr []int64) (ok bool, mismatchIndex int) {
	if len(xWr) != len(yr) {
		return false, -1
	}
	for i := range xWr {
		if !EqualModP(xWr[i], yr[i]) {
			return false, i
		}
	}
	return true, -1
}
