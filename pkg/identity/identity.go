// Package identity generates worker and verifier keypairs: a real
// keypair scheme backing the opaque pubkey string every other package
// treats as a black box, built on a BN254-scalar-field secret key and a
// Poseidon2-derived public key.
package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
)

// Keypair is a worker or verifier identity: a secret scalar and its
// Poseidon2-derived public key, hex-encoded for use as an opaque
// "pubkey" string.
type Keypair struct {
	SecretKey *big.Int
	PublicKey string // hex-encoded digest
}

// Generate produces a fresh keypair: a uniformly random non-zero BN254
// scalar-field secret key, and PublicKey = Poseidon2(secretKey).
func Generate() (*Keypair, error) {
	sk, err := generateSecretKey()
	if err != nil {
		return nil, fmt.Errorf("identity: generate secret key: %w", err)
	}
	return &Keypair{
		SecretKey: sk,
		PublicKey: derivePublicKeyHex(sk),
	}, nil
}

// generateSecretKey draws a uniformly random non-zero BN254 scalar.
func generateSecretKey() (*big.Int, error) {
	for {
		sk, err := rand.Int(rand.Reader, ecc.BN254.ScalarField())
		if err != nil {
			return nil, err
		}
		if sk.Sign() != 0 {
			return sk, nil
		}
	}
}

// derivePublicKeyHex computes the hex-encoded Poseidon2 digest of a
// secret key scalar.
func derivePublicKeyHex(secretKey *big.Int) string {
	h := poseidon2.NewMerkleDamgardHasher()

	var skFr fr.Element
	skFr.SetBigInt(secretKey)
	skBytes := skFr.Bytes()
	h.Write(skBytes[:])

	digest := h.Sum(nil)
	return fmt.Sprintf("%x", digest)
}
