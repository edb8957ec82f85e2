// Package chainmodel holds the protocol's immutable and mutable record
// types and the invariants the ledger enforces over them.
// Cross-references between records are by string id, never by pointer.
package chainmodel

// Worker is a registered participant. Mutated only by slashing: stake
// decreases, reputation decreases by 1 floored at 0. Never destroyed.
type Worker struct {
	Pubkey          string
	Stake           int64
	SupportedSKUs   []string
	ReputationScore int64
}

// Job is immutable after creation.
type Job struct {
	JobID     string
	SKUID     string
	InputRoot string
	ShardSize int64 // work units for crediting; must be positive
	Payment   int64
}

// GEMMCoordinate identifies one GEMM in an executed chain. Layer is
// fixed at 0 in this version; the field is retained for a future
// multi-layer extension.
type GEMMCoordinate struct {
	Layer     int
	GEMMIndex int
}

// GEMMCommitment is one per GEMM in the chain: its coordinate and the
// Merkle root over that GEMM's output rows.
type GEMMCommitment struct {
	Layer      int
	GEMMIndex  int
	MerkleRoot string // hex-encoded
}

// Coordinate extracts this commitment's (layer, gemm_index) pair.
func (c GEMMCommitment) Coordinate() GEMMCoordinate {
	return GEMMCoordinate{Layer: c.Layer, GEMMIndex: c.GEMMIndex}
}

// Receipt is immutable; its content hash (see CanonicalBytes) is its
// receipt id.
type Receipt struct {
	WorkerPubkey string
	JobID        string
	ShardID      string
	SKUID        string
	OutputRoot   string // hex-encoded Merkle root of the final output
	Commitments  []GEMMCommitment
}

// Challenge is immutable. Exactly one may exist per receipt id,
// enforced by Ledger.
type Challenge struct {
	ReceiptID         string
	VerifierPubkey    string
	GEMMCoordinates   []GEMMCoordinate
	RandomVectorSeeds []string // hex digests, canonical form
}

// Verification is immutable. At most one may exist per receipt id.
type Verification struct {
	ReceiptID         string
	VerifierPubkey    string
	GEMMCoordinates   []GEMMCoordinate
	RandomVectorSeeds []string
	Verdict           bool
}

// RewardAccount is mutable, keyed by worker pubkey, created on
// registration.
type RewardAccount struct {
	Credits int64
	Balance int64
}
