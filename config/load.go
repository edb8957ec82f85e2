package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// LedgerConfig is the deployment-tunable surface over the protocol
// defaults in constants.go. Zero values fall back to the defaults in
// Load.
type LedgerConfig struct {
	Rounds        int    `yaml:"rounds"`
	SampleCount   int    `yaml:"sample_count"`
	FreivaldsBits int    `yaml:"freivalds_bits"` // loaded only; the Freivalds check always uses 2^61-1
	LogLevel      string `yaml:"log_level"`
	MetricsAddr   string `yaml:"metrics_addr"`
}

// Load reads a YAML ledger config from path (if non-empty and present),
// then applies environment-variable overrides, then fills in defaults
// for anything still unset. A .env file in the working directory, if
// present, is loaded first so its values are visible to the overrides.
func Load(path string) (*LedgerConfig, error) {
	if err := godotenv.Load(); err != nil {
		// Absence of a .env file is normal outside local development.
		_ = err
	}

	cfg := &LedgerConfig{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open ledger config %q: %w", path, err)
			}
			defer f.Close()

			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("parse ledger config %q: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *LedgerConfig) applyEnvOverrides() {
	c.Rounds = getEnvInt("LEDGER_ROUNDS", c.Rounds)
	c.SampleCount = getEnvInt("LEDGER_SAMPLE_COUNT", c.SampleCount)
	c.FreivaldsBits = getEnvInt("LEDGER_FREIVALDS_BITS", c.FreivaldsBits)
	c.LogLevel = getEnv("LEDGER_LOG_LEVEL", c.LogLevel)
	c.MetricsAddr = getEnv("LEDGER_METRICS_ADDR", c.MetricsAddr)
}

func (c *LedgerConfig) applyDefaults() {
	if c.Rounds == 0 {
		c.Rounds = DefaultRounds
	}
	if c.SampleCount == 0 {
		c.SampleCount = DefaultSampleCount
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9090"
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
