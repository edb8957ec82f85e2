package telemetry

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAuditLogRecordsAndEmits(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")
	log := NewAuditLog(logger)

	entry := log.Record("SubmitReceipt", "r1", "ok")
	if entry.ID == "" {
		t.Fatal("Record should assign a non-empty id")
	}

	entries := log.Entries()
	if len(entries) != 1 || entries[0].ReceiptID != "r1" {
		t.Fatalf("Entries() = %v, want one entry for r1", entries)
	}
	if buf.Len() == 0 {
		t.Fatal("Record did not emit anything through the logger")
	}
}

func TestMetricsRecordVerdict(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordVerdict(true)
	m.RecordVerdict(false)
	m.RecordVerdict(false)

	if got := counterValue(t, m.VerificationsPassed); got != 1 {
		t.Errorf("VerificationsPassed = %v, want 1", got)
	}
	if got := counterValue(t, m.VerificationsFailed); got != 2 {
		t.Errorf("VerificationsFailed = %v, want 2", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}
