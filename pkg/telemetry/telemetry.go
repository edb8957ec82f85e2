// Package telemetry is the protocol's ambient observability layer:
// structured logging and Prometheus metrics. It has no dependency on the
// ledger/worker/verifier packages so it can be imported by all of them
// without a cycle.
package telemetry

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// NewLogger builds a zerolog.Logger writing structured, leveled records
// to w (os.Stdout in production).
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stdout
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// AuditEntry is one append-only record of a ledger-visible event.
type AuditEntry struct {
	ID        string
	Op        string
	ReceiptID string
	Detail    string
	At        time.Time
}

// AuditLog is an in-memory append-only event trail. Each entry gets a
// fresh UUID so entries remain individually addressable even though
// the ledger itself keys state by domain id.
type AuditLog struct {
	logger  zerolog.Logger
	mu      sync.Mutex
	entries []AuditEntry
}

// NewAuditLog creates an AuditLog that also emits each entry through
// logger at info level.
func NewAuditLog(logger zerolog.Logger) *AuditLog {
	return &AuditLog{logger: logger}
}

// Record appends an entry and emits it through the structured logger.
func (a *AuditLog) Record(op, receiptID, detail string) AuditEntry {
	entry := AuditEntry{
		ID:        uuid.NewString(),
		Op:        op,
		ReceiptID: receiptID,
		Detail:    detail,
		At:        time.Now(),
	}

	a.mu.Lock()
	a.entries = append(a.entries, entry)
	a.mu.Unlock()

	a.logger.Info().
		Str("audit_id", entry.ID).
		Str("op", op).
		Str("receipt_id", receiptID).
		Str("detail", detail).
		Msg("ledger event")
	return entry
}

// Entries returns a snapshot of all recorded entries, oldest first.
func (a *AuditLog) Entries() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Metrics holds the ledger's Prometheus instrumentation, following the
// lifafa03-USDw-stablecoin telemetry.MetricsCollector shape (promauto
// counters/gauges/histograms registered against the Registerer passed to
// NewMetrics).
type Metrics struct {
	ReceiptsSubmitted   prometheus.Counter
	ChallengesAssigned  prometheus.Counter
	VerificationsPassed prometheus.Counter
	VerificationsFailed prometheus.Counter
	SlashEvents         prometheus.Counter
	ActiveWorkers       prometheus.Gauge
	SettlementLatency   prometheus.Histogram
}

// NewMetrics registers and returns a fresh Metrics against reg. Passing
// prometheus.NewRegistry() keeps tests isolated from the global default
// registry and from each other.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReceiptsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "verinfer_receipts_submitted_total",
			Help: "Total number of receipts submitted to the ledger.",
		}),
		ChallengesAssigned: factory.NewCounter(prometheus.CounterOpts{
			Name: "verinfer_challenges_assigned_total",
			Help: "Total number of challenges assigned to verifiers.",
		}),
		VerificationsPassed: factory.NewCounter(prometheus.CounterOpts{
			Name: "verinfer_verifications_passed_total",
			Help: "Total number of verifications with a true verdict.",
		}),
		VerificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "verinfer_verifications_failed_total",
			Help: "Total number of verifications with a false verdict.",
		}),
		SlashEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "verinfer_slash_events_total",
			Help: "Total number of worker slashing events.",
		}),
		ActiveWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "verinfer_active_workers",
			Help: "Current number of registered workers.",
		}),
		SettlementLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "verinfer_settlement_latency_seconds",
			Help:    "Wall-clock time spent applying reward/slash settlement.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordVerdict increments the pass/fail counter matching verdict.
func (m *Metrics) RecordVerdict(verdict bool) {
	if verdict {
		m.VerificationsPassed.Inc()
	} else {
		m.VerificationsFailed.Inc()
	}
}
