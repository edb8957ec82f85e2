// Command protocol runs the verifiable-inference protocol end to end
// outside of any test harness: a demo end-to-end flow, a throughput/
// verification-cost benchmark, and a keygen helper for pkg/identity.
// Subcommands dispatch by switching on os.Args directly rather than
// reaching for a flag-parsing library.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/MuriData/verinfer/config"
	"github.com/MuriData/verinfer/pkg/chainmodel"
	"github.com/MuriData/verinfer/pkg/gemm"
	"github.com/MuriData/verinfer/pkg/identity"
	"github.com/MuriData/verinfer/pkg/ledger"
	"github.com/MuriData/verinfer/pkg/oracle"
	"github.com/MuriData/verinfer/pkg/telemetry"
	"github.com/MuriData/verinfer/pkg/verifier"
	"github.com/MuriData/verinfer/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "demo":
		runDemo()
	case "bench":
		runBench()
	case "keygen":
		runKeygen()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: protocol <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  demo    run a single worker/verifier/ledger flow end to end")
	fmt.Println("  bench   measure inference time vs. verification time for one GEMM")
	fmt.Println("  keygen  generate a worker/verifier identity keypair")
}

// runDemo registers a worker, creates a job, runs it, submits the
// receipt, assigns and answers a challenge, verifies it, and settles.
func runDemo() {
	log := telemetry.NewLogger(os.Stdout, "info")
	audit := telemetry.NewAuditLog(log)
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	l := ledger.New(audit, metrics)

	const workerPubkey = "worker-1"
	const verifierPubkey = "verifier-1"
	const skuID = "llama3_8b_int8_batch_v1"

	if err := l.RegisterWorker(workerPubkey, 1000, []string{skuID}); err != nil {
		log.Fatal().Err(err).Msg("register worker")
	}
	job := chainmodel.Job{JobID: "job-1", SKUID: skuID, InputRoot: "input-root", ShardSize: 4, Payment: 10}
	if err := l.CreateJob(job); err != nil {
		log.Fatal().Err(err).Msg("create job")
	}

	w := worker.New(workerPubkey)
	v := verifier.New(verifierPubkey)

	inputMatrix := gemm.Matrix{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	weights := []gemm.Matrix{
		{{1, 0, 2}, {0, 1, 1}},
		{{2, 1}, {1, 0}, {0, 1}},
	}
	runnableJob := worker.Job{JobID: job.JobID, ShardID: "shard-1", SKUID: skuID, InputMatrix: inputMatrix, Weights: weights}

	_, receipt, err := w.RunJob(runnableJob)
	if err != nil {
		log.Fatal().Err(err).Msg("run job")
	}

	receiptID, err := l.SubmitReceipt(receipt)
	if err != nil {
		log.Fatal().Err(err).Msg("submit receipt")
	}

	challenge, err := l.AssignChallenge(receiptID, verifierPubkey, config.DefaultRounds, config.DefaultSampleCount)
	if err != nil {
		log.Fatal().Err(err).Msg("assign challenge")
	}

	coord := challenge.GEMMCoordinates[0]
	rLength := weights[coord.GEMMIndex].Cols()
	rValues, err := oracle.ExpandVector(challenge.RandomVectorSeeds[0], rLength)
	if err != nil {
		log.Fatal().Err(err).Msg("expand random vector")
	}

	resp, err := w.RespondChallenge(coord, gemm.Vector(rValues), []int{0, 1})
	if err != nil {
		log.Fatal().Err(err).Msg("respond challenge")
	}

	challengeInput, err := w.Input(coord)
	if err != nil {
		log.Fatal().Err(err).Msg("look up challenge input matrix")
	}

	result := verifier.VerifyChallenge(challengeInput, receipt.Commitments[coord.GEMMIndex].MerkleRoot, resp)
	verification := v.BuildVerification(*challenge, result)
	if err := l.SubmitVerification(verification); err != nil {
		log.Fatal().Err(err).Msg("submit verification")
	}

	account, err := l.RewardAccount(workerPubkey)
	if err != nil {
		log.Fatal().Err(err).Msg("read reward account")
	}

	fmt.Println("verification:", result.Verdict, result.Reason)
	fmt.Println("worker balance:", account.Balance)
}

// runBench times a single 64x64x64 GEMM's worker-side execution
// against its verifier-side check and reports the ratio.
func runBench() {
	const size = 64
	inputMatrix := buildBenchMatrix(size, size)
	weights := buildBenchMatrix(size, size)

	w := worker.New("worker-bench")

	start := time.Now()
	_, receipt, err := w.RunJob(worker.Job{
		JobID:       "bench",
		ShardID:     "bench-shard",
		SKUID:       "llama3_8b_int8_batch_v1",
		InputMatrix: inputMatrix,
		Weights:     []gemm.Matrix{weights},
	})
	inferenceTime := time.Since(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, "run job:", err)
		os.Exit(1)
	}

	coord := chainmodel.GEMMCoordinate{Layer: 0, GEMMIndex: 0}
	r := make(gemm.Vector, size)
	for i := range r {
		r[i] = 1
	}
	resp, err := w.RespondChallenge(coord, r, []int{0, 1, 2})
	if err != nil {
		fmt.Fprintln(os.Stderr, "respond challenge:", err)
		os.Exit(1)
	}

	challengeInput, err := w.Input(coord)
	if err != nil {
		fmt.Fprintln(os.Stderr, "look up challenge input matrix:", err)
		os.Exit(1)
	}

	start = time.Now()
	result := verifier.VerifyChallenge(challengeInput, receipt.Commitments[0].MerkleRoot, resp)
	verificationTime := time.Since(start)

	var ratio float64
	if inferenceTime > 0 {
		ratio = verificationTime.Seconds() / inferenceTime.Seconds()
	}

	fmt.Println("verification verdict:", result.Verdict)
	fmt.Printf("inference_time_sec: %.6f\n", inferenceTime.Seconds())
	fmt.Printf("verification_time_sec: %.6f\n", verificationTime.Seconds())
	fmt.Printf("verification_ratio: %.4f\n", ratio)
}

func buildBenchMatrix(rows, cols int) gemm.Matrix {
	m := make(gemm.Matrix, rows)
	value := int64(1)
	for i := range m {
		row := make(gemm.Vector, cols)
		for j := range row {
			row[j] = value % 17
			value++
		}
		m[i] = row
	}
	return m
}

// runKeygen prints a freshly generated worker/verifier identity keypair.
func runKeygen() {
	kp, err := identity.Generate()
	if err != nil {
		fmt.Fprintln(os.Stderr, "keygen:", err)
		os.Exit(1)
	}
	fmt.Println("public_key:", kp.PublicKey)
	fmt.Println("secret_key:", kp.SecretKey.Text(16))
}
