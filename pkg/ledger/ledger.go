// Package ledger is the protocol's single source of truth: registered
// workers, jobs, receipts, challenges, verifications, and reward
// accounts, plus the settlement rule that moves stake and reputation on
// a verification verdict. A Ledger is safe for concurrent use; every
// exported method that mutates state takes the same mutex's write half,
// while read-only queries take the read half.
package ledger

import (
	"fmt"
	"sync"

	"github.com/MuriData/verinfer/config"
	"github.com/MuriData/verinfer/pkg/chainmodel"
	"github.com/MuriData/verinfer/pkg/oracle"
	"github.com/MuriData/verinfer/pkg/telemetry"
)

// Ledger holds all protocol state in memory, guarded by a single mutex;
// no sharding across workers or jobs.
type Ledger struct {
	mu sync.RWMutex

	workers       map[string]*chainmodel.Worker
	jobs          map[string]chainmodel.Job
	receipts      map[string]chainmodel.Receipt
	challenges    map[string]chainmodel.Challenge
	verifications map[string]chainmodel.Verification
	rewards       map[string]*chainmodel.RewardAccount

	audit   *telemetry.AuditLog
	metrics *telemetry.Metrics
}

// New builds an empty Ledger. audit and metrics may be nil, in which
// case events are simply not recorded (useful in tests that only care
// about state transitions).
func New(audit *telemetry.AuditLog, metrics *telemetry.Metrics) *Ledger {
	return &Ledger{
		workers:       make(map[string]*chainmodel.Worker),
		jobs:          make(map[string]chainmodel.Job),
		receipts:      make(map[string]chainmodel.Receipt),
		challenges:    make(map[string]chainmodel.Challenge),
		verifications: make(map[string]chainmodel.Verification),
		rewards:       make(map[string]*chainmodel.RewardAccount),
		audit:         audit,
		metrics:       metrics,
	}
}

func (l *Ledger) record(op, receiptID, detail string) {
	if l.audit != nil {
		l.audit.Record(op, receiptID, detail)
	}
}

// RegisterWorker adds a new worker with the given initial stake and
// supported SKUs, and opens its reward account. Re-registering an
// existing pubkey overwrites its record, treated as idempotent
// replacement.
func (l *Ledger) RegisterWorker(pubkey string, stake int64, supportedSKUs []string) error {
	if stake < 0 {
		return chainmodel.NewLedgerError("RegisterWorker", pubkey, fmt.Errorf("negative initial stake"))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.workers[pubkey] = &chainmodel.Worker{
		Pubkey:          pubkey,
		Stake:           stake,
		SupportedSKUs:   append([]string(nil), supportedSKUs...),
		ReputationScore: 0,
	}
	l.rewards[pubkey] = &chainmodel.RewardAccount{}

	if l.metrics != nil {
		l.metrics.ActiveWorkers.Set(float64(len(l.workers)))
	}
	l.record("RegisterWorker", "", pubkey)
	return nil
}

// Worker returns a copy of the registered worker's current state.
func (l *Ledger) Worker(pubkey string) (chainmodel.Worker, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	w, ok := l.workers[pubkey]
	if !ok {
		return chainmodel.Worker{}, chainmodel.NewLedgerError("Worker", pubkey, chainmodel.ErrUnknownWorker)
	}
	return *w, nil
}

// CreateJob registers a new job definition. Jobs are immutable once
// created.
func (l *Ledger) CreateJob(job chainmodel.Job) error {
	if job.ShardSize <= 0 {
		return chainmodel.NewLedgerError("CreateJob", job.JobID, fmt.Errorf("shard_size must be positive"))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.jobs[job.JobID] = job
	l.record("CreateJob", "", job.JobID)
	return nil
}

// SubmitReceipt validates that the receipt's worker and job are both
// registered, computes its content-addressed id, and stores it. Returns
// the receipt id.
func (l *Ledger) SubmitReceipt(receipt chainmodel.Receipt) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.workers[receipt.WorkerPubkey]; !ok {
		return "", chainmodel.NewLedgerError("SubmitReceipt", receipt.WorkerPubkey, chainmodel.ErrUnknownWorker)
	}
	if _, ok := l.jobs[receipt.JobID]; !ok {
		return "", chainmodel.NewLedgerError("SubmitReceipt", receipt.JobID, chainmodel.ErrUnknownJob)
	}
	if len(receipt.Commitments) == 0 || receipt.OutputRoot == "" {
		return "", chainmodel.NewLedgerError("SubmitReceipt", receipt.JobID, chainmodel.ErrMalformedReceipt)
	}

	id := receipt.ReceiptID()
	l.receipts[id] = receipt

	if l.metrics != nil {
		l.metrics.ReceiptsSubmitted.Inc()
	}
	l.record("SubmitReceipt", id, receipt.WorkerPubkey)
	return id, nil
}

// Receipt returns a copy of a previously submitted receipt.
func (l *Ledger) Receipt(receiptID string) (chainmodel.Receipt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.receipts[receiptID]
	if !ok {
		return chainmodel.Receipt{}, chainmodel.NewLedgerError("Receipt", receiptID, chainmodel.ErrUnknownReceipt)
	}
	return r, nil
}

// AssignChallenge samples sampleCount distinct GEMM coordinates from the
// receipt's commitment list and derives rounds random-vector seeds, both
// as pure functions of receiptID+":"+verifierPubkey, so that any party
// can recompute the same challenge from the receipt id alone. At most
// one challenge may exist per receipt.
func (l *Ledger) AssignChallenge(receiptID, verifierPubkey string, rounds, sampleCount int) (*chainmodel.Challenge, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	receipt, ok := l.receipts[receiptID]
	if !ok {
		return nil, chainmodel.NewLedgerError("AssignChallenge", receiptID, chainmodel.ErrUnknownReceipt)
	}
	if _, exists := l.challenges[receiptID]; exists {
		return nil, chainmodel.NewLedgerError("AssignChallenge", receiptID, chainmodel.ErrDuplicateChallenge)
	}
	if rounds <= 0 {
		rounds = config.DefaultRounds
	}
	if sampleCount <= 0 {
		sampleCount = config.DefaultSampleCount
	}
	if sampleCount > len(receipt.Commitments) {
		sampleCount = len(receipt.Commitments)
	}

	seed := receiptID + ":" + verifierPubkey
	indices := oracle.SelectIndices(seed, len(receipt.Commitments), sampleCount)
	coords := make([]chainmodel.GEMMCoordinate, len(indices))
	for i, idx := range indices {
		coords[i] = receipt.Commitments[idx].Coordinate()
	}

	challenge := chainmodel.Challenge{
		ReceiptID:         receiptID,
		VerifierPubkey:    verifierPubkey,
		GEMMCoordinates:   coords,
		RandomVectorSeeds: oracle.DeriveVectors(seed, rounds),
	}
	l.challenges[receiptID] = challenge

	if l.metrics != nil {
		l.metrics.ChallengesAssigned.Inc()
	}
	l.record("AssignChallenge", receiptID, verifierPubkey)

	out := challenge
	out.GEMMCoordinates = append([]chainmodel.GEMMCoordinate(nil), challenge.GEMMCoordinates...)
	out.RandomVectorSeeds = append([]string(nil), challenge.RandomVectorSeeds...)
	return &out, nil
}

// Challenge returns a copy of the challenge assigned to a receipt, if
// any.
func (l *Ledger) Challenge(receiptID string) (chainmodel.Challenge, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, ok := l.challenges[receiptID]
	if !ok {
		return chainmodel.Challenge{}, chainmodel.NewLedgerError("Challenge", receiptID, chainmodel.ErrUnknownReceipt)
	}
	return c, nil
}

// SubmitVerification records a verifier's verdict on a receipt's
// challenge and applies settlement: on a true verdict the worker's
// reward account is credited with the job's shard_size and payment; on
// a false verdict the worker is slashed max(stake/10, 1) and its
// reputation is decremented, both floored at 0. At most one verification
// may exist per receipt.
func (l *Ledger) SubmitVerification(verification chainmodel.Verification) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	receipt, ok := l.receipts[verification.ReceiptID]
	if !ok {
		return chainmodel.NewLedgerError("SubmitVerification", verification.ReceiptID, chainmodel.ErrUnknownReceipt)
	}
	if _, exists := l.verifications[verification.ReceiptID]; exists {
		return chainmodel.NewLedgerError("SubmitVerification", verification.ReceiptID, chainmodel.ErrDuplicateVerification)
	}

	job, ok := l.jobs[receipt.JobID]
	if !ok {
		return chainmodel.NewLedgerError("SubmitVerification", receipt.JobID, chainmodel.ErrUnknownJob)
	}
	worker, ok := l.workers[receipt.WorkerPubkey]
	if !ok {
		return chainmodel.NewLedgerError("SubmitVerification", receipt.WorkerPubkey, chainmodel.ErrUnknownWorker)
	}

	l.verifications[verification.ReceiptID] = verification
	l.settle(worker, job, verification.Verdict)

	if l.metrics != nil {
		l.metrics.RecordVerdict(verification.Verdict)
	}
	l.record("SubmitVerification", verification.ReceiptID, fmt.Sprintf("verdict=%t", verification.Verdict))
	return nil
}

// settle applies the reward/slash rule for one verdict to worker's
// reward account and stake/reputation in place. Called with l.mu held.
func (l *Ledger) settle(worker *chainmodel.Worker, job chainmodel.Job, verdict bool) {
	account := l.rewards[worker.Pubkey]
	if account == nil {
		account = &chainmodel.RewardAccount{}
		l.rewards[worker.Pubkey] = account
	}

	if verdict {
		account.Credits += job.ShardSize
		account.Balance += job.Payment
		return
	}

	slashed := worker.Stake / config.SlashDivisor
	if slashed < config.MinSlashAmount {
		slashed = config.MinSlashAmount
	}
	worker.Stake -= slashed
	if worker.Stake < 0 {
		worker.Stake = 0
	}
	worker.ReputationScore--
	if worker.ReputationScore < 0 {
		worker.ReputationScore = 0
	}

	if l.metrics != nil {
		l.metrics.SlashEvents.Inc()
	}
}

// Verification returns a copy of the verification recorded for a
// receipt, if any.
func (l *Ledger) Verification(receiptID string) (chainmodel.Verification, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v, ok := l.verifications[receiptID]
	if !ok {
		return chainmodel.Verification{}, chainmodel.NewLedgerError("Verification", receiptID, chainmodel.ErrUnknownReceipt)
	}
	return v, nil
}

// RewardAccount returns a copy of a worker's current reward account.
func (l *Ledger) RewardAccount(pubkey string) (chainmodel.RewardAccount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.rewards[pubkey]
	if !ok {
		return chainmodel.RewardAccount{}, chainmodel.NewLedgerError("RewardAccount", pubkey, chainmodel.ErrUnknownWorker)
	}
	return *a, nil
}
