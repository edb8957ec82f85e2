// Package verifier is the audit-side node: it checks a worker's
// challenge response against the claimed commitments and input matrix,
// in two stages — Merkle inclusion, then Freivalds identity — and
// produces the Verification record the ledger settles against.
package verifier

import (
	"fmt"

	"github.com/MuriData/verinfer/pkg/chainmodel"
	"github.com/MuriData/verinfer/pkg/freivalds"
	"github.com/MuriData/verinfer/pkg/gemm"
	"github.com/MuriData/verinfer/pkg/merkle"
	"github.com/MuriData/verinfer/pkg/worker"
)

// Reason codes for a verdict, surfaced for audit logging.
const (
	ReasonOK                = "ok"
	ReasonMerkleProofFail   = "merkle_proof_failed"
	ReasonFreivaldsMismatch = "freivalds_mismatch"
)

// Result is one round's outcome.
type Result struct {
	Verdict bool
	Reason  string
}

// Node is a verifier identified by its pubkey (its pkg/identity public
// key, typically). It holds no per-job state: every check is a pure
// function of its arguments.
type Node struct {
	Pubkey string
}

// New creates a verifier.
func New(pubkey string) *Node {
	return &Node{Pubkey: pubkey}
}

// VerifyChallenge checks one GEMM coordinate's challenge response:
// every sampled row's Merkle proof must verify against merkleRoot
// (Stage 1), then X·(W·r) must equal Y·r modulo the Freivalds prime,
// recomputing X·(W·r) from inputMatrix and the claimed wr vector (Stage
// 2). It stops at the first failing check; a response with inconsistent
// vector lengths is treated as a Freivalds mismatch rather than a
// separate error class.
func VerifyChallenge(inputMatrix gemm.Matrix, merkleRoot string, resp worker.ChallengeResponse) Result {
	for _, mr := range resp.MerkleRows {
		if !merkle.VerifyHex(mr.RowIndex, mr.Row, mr.Proof, merkleRoot) {
			return Result{Verdict: false, Reason: ReasonMerkleProofFail}
		}
	}

	xWr, err := gemm.MatVec(inputMatrix, resp.WrVector)
	if err != nil {
		return Result{Verdict: false, Reason: ReasonFreivaldsMismatch}
	}

	ok, _ := freivalds.CheckVectors(xWr, resp.YrVector)
	if !ok {
		return Result{Verdict: false, Reason: ReasonFreivaldsMismatch}
	}
	return Result{Verdict: true, Reason: ReasonOK}
}

// VerifyChallengeRounds runs VerifyChallenge over every (coordinate,
// response) pair in a multi-round challenge and reports the conjunction:
// true only if every round passed.
func VerifyChallengeRounds(inputMatrices map[chainmodel.GEMMCoordinate]gemm.Matrix, merkleRoots map[chainmodel.GEMMCoordinate]string, responses []worker.ChallengeResponse) (Result, error) {
	for _, resp := range responses {
		inputMatrix, ok := inputMatrices[resp.Coordinate]
		if !ok {
			return Result{}, fmt.Errorf("verifier: no input matrix supplied for coordinate %+v", resp.Coordinate)
		}
		root, ok := merkleRoots[resp.Coordinate]
		if !ok {
			return Result{}, fmt.Errorf("verifier: no merkle root supplied for coordinate %+v", resp.Coordinate)
		}

		result := VerifyChallenge(inputMatrix, root, resp)
		if !result.Verdict {
			return result, nil
		}
	}
	return Result{Verdict: true, Reason: ReasonOK}, nil
}

// BuildVerification assembles the Verification record to submit to the
// ledger for a completed challenge.
func (n *Node) BuildVerification(challenge chainmodel.Challenge, result Result) chainmodel.Verification {
	return chainmodel.Verification{
		ReceiptID:         challenge.ReceiptID,
		VerifierPubkey:    n.Pubkey,
		GEMMCoordinates:   challenge.GEMMCoordinates,
		RandomVectorSeeds: challenge.RandomVectorSeeds,
		Verdict:           result.Verdict,
	}
}
