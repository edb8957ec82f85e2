// Package oracle is the protocol's deterministic randomness source:
// challenge random-vector derivation and GEMM-index sampling, both pure
// functions of a seed string so that worker, ledger, and verifier agree
// bit-for-bit without exchanging anything but the seed.
package oracle

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// DeriveVectors returns count hex-encoded SHA-256 digests,
// hex_digest_k = SHA256(seed + ":" + decimal(k)), the canonical on-ledger
// form of the challenge's random vectors.
func DeriveVectors(seed string, count int) []string {
	vectors := make([]string, count)
	for k := 0; k < count; k++ {
		data := []byte(fmt.Sprintf("%s:%d", seed, k))
		digest := sha256.Sum256(data)
		vectors[k] = fmt.Sprintf("%x", digest[:])
	}
	return vectors
}

// SelectIndices returns min(count, total) distinct indices in [0,
// total), derived by iterating d_{n+1} = SHA256(d_n) starting from
// d_0 = seed, reducing the low 8 bytes (little-endian) of each digest
// modulo total, and rejecting repeats until that many distinct values
// have been collected. Returns an empty slice if total <= 0.
func SelectIndices(seed string, total, count int) []int {
	if total <= 0 {
		return []int{}
	}
	if count > total {
		count = total
	}

	seen := make(map[int]bool, count)
	indices := make([]int, 0, count)
	digest := []byte(seed)

	for len(indices) < count {
		sum := sha256.Sum256(digest)
		digest = sum[:]
		value := binary.LittleEndian.Uint64(digest[:8])
		idx := int(value % uint64(total))
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}
	return indices
}

// ExpandVector canonicalizes a hex-encoded random-vector digest (as
// produced by DeriveVectors) into a length-L integer vector: iterate
// SHA-256 over the digest bytes, slicing each 32-byte output into eight
// 4-byte little-endian unsigned words, until L words have been produced.
// Both worker and verifier must use this exact expansion for Freivalds
// soundness to hold over the resulting r.
func ExpandVector(seedHex string, length int) ([]int64, error) {
	data := []byte(seedHex)
	values := make([]int64, 0, length)

	for len(values) < length {
		sum := sha256.Sum256(data)
		data = sum[:]
		for i := 0; i+4 <= len(data) && len(values) < length; i += 4 {
			values = append(values, int64(binary.LittleEndian.Uint32(data[i:i+4])))
		}
	}
	if len(values) != length {
		return nil, fmt.Errorf("oracle: expanded %d words, want %d", len(values), length)
	}
	return values, nil
}
