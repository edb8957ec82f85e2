package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rounds != DefaultRounds {
		t.Errorf("Rounds = %d, want %d", cfg.Rounds, DefaultRounds)
	}
	if cfg.SampleCount != DefaultSampleCount {
		t.Errorf("SampleCount = %d, want %d", cfg.SampleCount, DefaultSampleCount)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.yaml")
	if err := os.WriteFile(path, []byte("rounds: 5\nsample_count: 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rounds != 5 || cfg.SampleCount != 3 {
		t.Errorf("got rounds=%d sample_count=%d, want 5/3", cfg.Rounds, cfg.SampleCount)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LEDGER_ROUNDS", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rounds != 7 {
		t.Errorf("Rounds = %d, want 7 (env override)", cfg.Rounds)
	}
}

func TestFreivaldsPrimeMatchesMersenne61(t *testing.T) {
	if FreivaldsPrime.Uint64() != FreivaldsPrimeUint64 {
		t.Fatalf("FreivaldsPrime and FreivaldsPrimeUint64 disagree")
	}
	want := (uint64(1) << 61) - 1
	if FreivaldsPrimeUint64 != want {
		t.Fatalf("FreivaldsPrimeUint64 = %d, want %d", FreivaldsPrimeUint64, want)
	}
}
