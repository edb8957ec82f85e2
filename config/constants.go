// Package config holds the protocol's tunable parameters: the ledger's
// sampling defaults, the Freivalds modulus, and the loader that lets a
// deployment override them (see Load in load.go).
package config

import "math/big"

const (
	// DefaultRounds is the number of random-vector seeds AssignChallenge
	// derives per challenge.
	DefaultRounds = 20

	// DefaultSampleCount is the number of GEMM coordinates sampled per
	// challenge.
	DefaultSampleCount = 2

	// MinSlashAmount is the floor applied to a slash even when 10% of the
	// worker's stake would round down to zero.
	MinSlashAmount = 1

	// SlashDivisor implements "slashed = max(stake // 10, 1)".
	SlashDivisor = 10

	// VectorWordSize is the width, in bytes, of each little-endian word
	// extracted from the oracle's iterated SHA-256 stream when expanding a
	// random-vector seed into an integer vector.
	VectorWordSize = 4
)

// FreivaldsPrime is p = 2^61 - 1, the Mersenne prime modulus under which
// the verifier's Freivalds identity check is performed.
var FreivaldsPrime = new(big.Int).Sub(
	new(big.Int).Lsh(big.NewInt(1), 61),
	big.NewInt(1),
)

// FreivaldsPrimeUint64 is FreivaldsPrime as a uint64; safe because
// 2^61-1 fits comfortably below 2^64.
const FreivaldsPrimeUint64 uint64 = (1 << 61) - 1
