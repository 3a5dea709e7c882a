package config

import (
	"fmt"
	"os"
	"strconv"

	"paystream/internal/ledger"
	"paystream/internal/pipeline"
	"paystream/internal/source"
)

const (
	defaultLogLevel = "info"

	relayCapacityEnvVar   = "RELAY_CAPACITY"
	precisionEnvVar       = "PRECISION"
	lockedPolicyEnvVar    = "LOCKED_POLICY"
	malformedPolicyEnvVar = "MALFORMED_POLICY"
	metricsAddrEnvVar     = "METRICS_ADDR"
	logLevelEnvVar        = "LOG_LEVEL"
)

// Config captures runtime configuration loaded from environment variables.
type Config struct {
	RelayCapacity   int
	Precision       int32
	LockedPolicy    ledger.LockedPolicy
	MalformedPolicy source.MalformedPolicy
	MetricsAddr     string
	LogLevel        string
}

// Load reads configuration values from the environment and populates a
// Config instance. Everything has a default; only malformed values error.
func Load() (Config, error) {
	cfg := Config{
		RelayCapacity:   pipeline.DefaultCapacity,
		Precision:       ledger.DefaultPrecision,
		LockedPolicy:    ledger.LockedRejectAll,
		MalformedPolicy: source.MalformedFatal,
		MetricsAddr:     os.Getenv(metricsAddrEnvVar),
		LogLevel:        getEnv(logLevelEnvVar, defaultLogLevel),
	}

	if v := os.Getenv(relayCapacityEnvVar); v != "" {
		capacity, err := strconv.Atoi(v)
		if err != nil || capacity <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", relayCapacityEnvVar, v)
		}
		cfg.RelayCapacity = capacity
	}

	if v := os.Getenv(precisionEnvVar); v != "" {
		precision, err := strconv.ParseInt(v, 10, 32)
		if err != nil || precision < 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", precisionEnvVar, v)
		}
		cfg.Precision = int32(precision)
	}

	if v := os.Getenv(lockedPolicyEnvVar); v != "" {
		policy, err := ledger.ParseLockedPolicy(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", lockedPolicyEnvVar, err)
		}
		cfg.LockedPolicy = policy
	}

	if v := os.Getenv(malformedPolicyEnvVar); v != "" {
		policy, err := source.ParseMalformedPolicy(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", malformedPolicyEnvVar, err)
		}
		cfg.MalformedPolicy = policy
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
