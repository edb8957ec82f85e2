// Package worker is the compute-side node: it runs a job's GEMM chain,
// commits each GEMM's output rows to a Merkle tree, and answers
// challenges with Freivalds vectors and per-row Merkle proofs.
package worker

import (
	"fmt"

	"github.com/MuriData/verinfer/pkg/chainmodel"
	"github.com/MuriData/verinfer/pkg/gemm"
	"github.com/MuriData/verinfer/pkg/merkle"
)

// Job is the work a worker is asked to run: an input matrix fed through
// a chain of weight matrices, one GEMM per weight matrix.
type Job struct {
	JobID       string
	ShardID     string
	SKUID       string
	InputMatrix gemm.Matrix
	Weights     []gemm.Matrix
}

// Output is the full intermediate state of a run: the final matrix and
// every GEMM's output, index-aligned with the job's Weights.
type Output struct {
	OutputMatrix gemm.Matrix
	GEMMOutputs  []gemm.Matrix
}

// ChallengeResponse is a worker's answer to one GEMM coordinate's
// challenge: the Freivalds vectors plus a Merkle proof for each sampled
// output row.
type ChallengeResponse struct {
	Coordinate chainmodel.GEMMCoordinate
	RVector    gemm.Vector
	WrVector   gemm.Vector
	YrVector   gemm.Vector
	MerkleRows []MerkleRowProof
}

// MerkleRowProof is one sampled output row plus its inclusion proof.
type MerkleRowProof struct {
	RowIndex int
	Row      merkle.Row
	Proof    []merkle.Digest
}

// Node holds one worker's state across the jobs it has run, keyed by
// (layer, gemm_index): each GEMM's input matrix, weight matrix, output
// matrix, and committed Merkle tree.
type Node struct {
	Pubkey string

	inputs  map[chainmodel.GEMMCoordinate]gemm.Matrix
	weights map[chainmodel.GEMMCoordinate]gemm.Matrix
	outputs map[chainmodel.GEMMCoordinate]gemm.Matrix
	trees   map[chainmodel.GEMMCoordinate]*merkle.Tree
}

// New creates a worker identified by pubkey (its pkg/identity public
// key, typically).
func New(pubkey string) *Node {
	return &Node{
		Pubkey:  pubkey,
		inputs:  make(map[chainmodel.GEMMCoordinate]gemm.Matrix),
		weights: make(map[chainmodel.GEMMCoordinate]gemm.Matrix),
		outputs: make(map[chainmodel.GEMMCoordinate]gemm.Matrix),
		trees:   make(map[chainmodel.GEMMCoordinate]*merkle.Tree),
	}
}

// Input returns the input matrix X that was fed into the GEMM at coord
// (job.InputMatrix for GEMMIndex 0, the previous GEMM's output for
// every later index).
func (n *Node) Input(coord chainmodel.GEMMCoordinate) (gemm.Matrix, error) {
	input, ok := n.inputs[coord]
	if !ok {
		return nil, fmt.Errorf("worker: no input recorded for coordinate %+v", coord)
	}
	return input, nil
}

// RunJob executes job's GEMM chain, committing every GEMM's output to
// a Merkle tree, and returns both the raw output and the Receipt a
// caller should submit to the ledger. Layer is always 0 in this
// version; GEMMIndex walks the weight chain in order.
func (n *Node) RunJob(job Job) (Output, chainmodel.Receipt, error) {
	current := job.InputMatrix
	gemmOutputs := make([]gemm.Matrix, 0, len(job.Weights))
	commitments := make([]chainmodel.GEMMCommitment, 0, len(job.Weights))

	for idx, weights := range job.Weights {
		coord := chainmodel.GEMMCoordinate{Layer: 0, GEMMIndex: idx}

		output, err := gemm.MatMul(current, weights)
		if err != nil {
			return Output{}, chainmodel.Receipt{}, fmt.Errorf("worker: run job %s gemm %d: %w", job.JobID, idx, err)
		}

		tree := merkle.Build(toRows(output))
		n.inputs[coord] = current
		n.weights[coord] = weights
		n.outputs[coord] = output
		n.trees[coord] = tree

		gemmOutputs = append(gemmOutputs, output)
		commitments = append(commitments, chainmodel.GEMMCommitment{
			Layer:      0,
			GEMMIndex:  idx,
			MerkleRoot: tree.Root().Hex(),
		})

		current = output
	}

	outputTree := merkle.Build(toRows(current))
	receipt := chainmodel.Receipt{
		WorkerPubkey: n.Pubkey,
		JobID:        job.JobID,
		ShardID:      job.ShardID,
		SKUID:        job.SKUID,
		OutputRoot:   outputTree.Root().Hex(),
		Commitments:  commitments,
	}

	return Output{OutputMatrix: current, GEMMOutputs: gemmOutputs}, receipt, nil
}

// RespondChallenge answers a challenge for one GEMM coordinate: it
// computes wr = W·r and yr = Y·r over the stored weight/output matrices
// for that coordinate, and attaches a Merkle proof for each row index in
// rowIndices.
func (n *Node) RespondChallenge(coord chainmodel.GEMMCoordinate, r gemm.Vector, rowIndices []int) (ChallengeResponse, error) {
	weights, ok := n.weights[coord]
	if !ok {
		return ChallengeResponse{}, fmt.Errorf("worker: no weights recorded for coordinate %+v", coord)
	}
	output, ok := n.outputs[coord]
	if !ok {
		return ChallengeResponse{}, fmt.Errorf("worker: no output recorded for coordinate %+v", coord)
	}
	tree, ok := n.trees[coord]
	if !ok {
		return ChallengeResponse{}, fmt.Errorf("worker: no merkle tree recorded for coordinate %+v", coord)
	}

	wr, err := gemm.MatVec(weights, r)
	if err != nil {
		return ChallengeResponse{}, fmt.Errorf("worker: respond challenge %+v: %w", coord, err)
	}
	yr, err := gemm.MatVec(output, r)
	if err != nil {
		return ChallengeResponse{}, fmt.Errorf("worker: respond challenge %+v: %w", coord, err)
	}

	rows := make([]MerkleRowProof, 0, len(rowIndices))
	for _, idx := range rowIndices {
		proof, err := tree.Proof(idx)
		if err != nil {
			return ChallengeResponse{}, fmt.Errorf("worker: respond challenge %+v: %w", coord, err)
		}
		rows = append(rows, MerkleRowProof{
			RowIndex: idx,
			Row:      toRow(output[idx]),
			Proof:    proof,
		})
	}

	return ChallengeResponse{
		Coordinate: coord,
		RVector:    r,
		WrVector:   wr,
		YrVector:   yr,
		MerkleRows: rows,
	}, nil
}

func toRows(m gemm.Matrix) []merkle.Row {
	rows := make([]merkle.Row, len(m))
	for i, r := range m {
		rows[i] = toRow(r)
	}
	return rows
}

func toRow(v gemm.Vector) merkle.Row {
	return merkle.Row(v)
}
