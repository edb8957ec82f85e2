package worker

import (
	"testing"

	"github.com/MuriData/verinfer/pkg/chainmodel"
	"github.com/MuriData/verinfer/pkg/freivalds"
	"github.com/MuriData/verinfer/pkg/gemm"
	"github.com/MuriData/verinfer/pkg/merkle"
)

func sampleChainJob() Job {
	// X=[[1,2],[3,4]], W=[[1,0,2],[0,1,1]] -> Y=[[1,2,4],[3,4,10]].
	return Job{
		JobID:       "job-1",
		ShardID:     "shard-1",
		SKUID:       "sku-1",
		InputMatrix: gemm.Matrix{{1, 2}, {3, 4}},
		Weights:     []gemm.Matrix{{{1, 0, 2}, {0, 1, 1}}},
	}
}

func TestRunJobProducesReceiptMatchingOutputTree(t *testing.T) {
	n := New("worker-1")
	output, receipt, err := n.RunJob(sampleChainJob())
	if err != nil {
		t.Fatalf("RunJob: %v", err)
	}

	want := gemm.Matrix{{1, 2, 4}, {3, 4, 10}}
	for i := range want {
		for j := range want[i] {
			if output.OutputMatrix[i][j] != want[i][j] {
				t.Fatalf("OutputMatrix = %v, want %v", output.OutputMatrix, want)
			}
		}
	}

	if receipt.WorkerPubkey != "worker-1" || receipt.JobID != "job-1" {
		t.Fatalf("receipt identity fields wrong: %+v", receipt)
	}
	if len(receipt.Commitments) != 1 {
		t.Fatalf("len(Commitments) = %d, want 1", len(receipt.Commitments))
	}

	tree := merkle.Build([]merkle.Row{{1, 2, 4}, {3, 4, 10}})
	if receipt.Commitments[0].MerkleRoot != tree.Root().Hex() {
		t.Fatalf("commitment root = %s, want %s", receipt.Commitments[0].MerkleRoot, tree.Root().Hex())
	}
	if receipt.OutputRoot != tree.Root().Hex() {
		t.Fatalf("output root = %s, want %s", receipt.OutputRoot, tree.Root().Hex())
	}
}

func TestRespondChallengeRoundTripsMerkleAndFreivalds(t *testing.T) {
	n := New("worker-1")
	_, receipt, err := n.RunJob(sampleChainJob())
	if err != nil {
		t.Fatalf("RunJob: %v", err)
	}

	coord := receipt.Commitments[0].Coordinate()
	r := gemm.Vector{1, 1, 1}
	resp, err := n.RespondChallenge(coord, r, []int{0, 1})
	if err != nil {
		t.Fatalf("RespondChallenge: %v", err)
	}

	expectedWr, err := gemm.MatVec(gemm.Matrix{{1, 0, 2}, {0, 1, 1}}, r)
	if err != nil {
		t.Fatalf("MatVec: %v", err)
	}
	expectedYr, err := gemm.MatVec(gemm.Matrix{{1, 2, 4}, {3, 4, 10}}, r)
	if err != nil {
		t.Fatalf("MatVec: %v", err)
	}
	for i := range expectedWr {
		if resp.WrVector[i] != expectedWr[i] {
			t.Fatalf("WrVector = %v, want %v", resp.WrVector, expectedWr)
		}
	}
	for i := range expectedYr {
		if resp.YrVector[i] != expectedYr[i] {
			t.Fatalf("YrVector = %v, want %v", resp.YrVector, expectedYr)
		}
	}

	if !freivalds.EqualModP(0, 0) {
		t.Fatal("sanity: freivalds.EqualModP broken")
	}

	if len(resp.MerkleRows) != 2 {
		t.Fatalf("len(MerkleRows) = %d, want 2", len(resp.MerkleRows))
	}
	tree := merkle.Build([]merkle.Row{{1, 2, 4}, {3, 4, 10}})
	root := tree.Root()
	for _, mr := range resp.MerkleRows {
		if !merkle.Verify(mr.RowIndex, mr.Row, mr.Proof, root) {
			t.Fatalf("merkle proof for row %d failed to verify", mr.RowIndex)
		}
	}
}

func TestRespondChallengeUnknownCoordinate(t *testing.T) {
	n := New("worker-1")
	if _, _, err := n.RunJob(sampleChainJob()); err != nil {
		t.Fatalf("RunJob: %v", err)
	}

	_, err := n.RespondChallenge(chainmodel.GEMMCoordinate{Layer: 0, GEMMIndex: 99}, gemm.Vector{1, 2}, []int{0})
	if err == nil {
		t.Fatal("expected error for unknown coordinate")
	}
}

func TestInputTracksPerCoordinateMatrixAcrossChain(t *testing.T) {
	// Two-GEMM chain: GEMM 0's input is the job's InputMatrix, but
	// GEMM 1's input is GEMM 0's output, not the job's InputMatrix.
	job := Job{
		JobID:       "job-2",
		ShardID:     "shard-1",
		SKUID:       "sku-1",
		InputMatrix: gemm.Matrix{{1, 2}, {3, 4}},
		Weights: []gemm.Matrix{
			{{1, 0, 2}, {0, 1, 1}},
			{{2, 1}, {1, 0}, {0, 1}},
		},
	}

	n := New("worker-1")
	output, _, err := n.RunJob(job)
	if err != nil {
		t.Fatalf("RunJob: %v", err)
	}

	coord0 := chainmodel.GEMMCoordinate{Layer: 0, GEMMIndex: 0}
	input0, err := n.Input(coord0)
	if err != nil {
		t.Fatalf("Input(coord0): %v", err)
	}
	if !matricesEqual(input0, job.InputMatrix) {
		t.Fatalf("Input(coord0) = %v, want job.InputMatrix %v", input0, job.InputMatrix)
	}

	coord1 := chainmodel.GEMMCoordinate{Layer: 0, GEMMIndex: 1}
	input1, err := n.Input(coord1)
	if err != nil {
		t.Fatalf("Input(coord1): %v", err)
	}
	if !matricesEqual(input1, output.GEMMOutputs[0]) {
		t.Fatalf("Input(coord1) = %v, want GEMM 0's output %v", input1, output.GEMMOutputs[0])
	}
	if matricesEqual(input1, job.InputMatrix) {
		t.Fatal("Input(coord1) must not equal the job's original InputMatrix")
	}
}

func TestInputUnknownCoordinate(t *testing.T) {
	n := New("worker-1")
	if _, _, err := n.RunJob(sampleChainJob()); err != nil {
		t.Fatalf("RunJob: %v", err)
	}
	if _, err := n.Input(chainmodel.GEMMCoordinate{Layer: 0, GEMMIndex: 99}); err == nil {
		t.Fatal("expected error for unknown coordinate")
	}
}

func matricesEqual(a, b gemm.Matrix) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
