// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strings"
	"time"
)

// Backend selects a pluggable implementation by name.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// Config captures everything the ledger process needs at startup.
type Config struct {
	Addr          string
	JWTSigningKey string

	// LedgerStore is "memory" or "postgres".
	LedgerStore Backend
	PostgresDSN string

	// AccessStore is "memory" or "redis".
	AccessStore Backend
	RedisURL    string

	// KafkaBrokers empty disables the audit mirror.
	KafkaBrokers []string
	KafkaTopic   string

	VaultBaseURL   string
	FactoryBaseURL string

	// Identity wiring: this ledger's address plus the initial vault, factory,
	// owner and controller addresses.
	SelfAddress    string
	VaultAddress   string
	FactoryAddress string
	OwnerAddress   string
	Controllers    []string

	ExternalCallTimeout time.Duration
}

// FromEnv reads configuration with development-friendly defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:                envOr("CUSTODIA_ADDR", ":8080"),
		JWTSigningKey:       envOr("CUSTODIA_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		LedgerStore:         Backend(envOr("CUSTODIA_LEDGER_STORE", string(BackendMemory))),
		PostgresDSN:         os.Getenv("CUSTODIA_POSTGRES_DSN"),
		AccessStore:         Backend(envOr("CUSTODIA_ACCESS_STORE", string(BackendMemory))),
		RedisURL:            os.Getenv("CUSTODIA_REDIS_URL"),
		KafkaTopic:          envOr("CUSTODIA_KAFKA_TOPIC", "custodia.audit"),
		VaultBaseURL:        os.Getenv("CUSTODIA_VAULT_URL"),
		FactoryBaseURL:      os.Getenv("CUSTODIA_FACTORY_URL"),
		SelfAddress:         os.Getenv("CUSTODIA_SELF_ADDRESS"),
		VaultAddress:        os.Getenv("CUSTODIA_VAULT_ADDRESS"),
		FactoryAddress:      os.Getenv("CUSTODIA_FACTORY_ADDRESS"),
		OwnerAddress:        os.Getenv("CUSTODIA_OWNER_ADDRESS"),
		ExternalCallTimeout: 10 * time.Second,
	}
	if brokers := os.Getenv("CUSTODIA_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if controllers := os.Getenv("CUSTODIA_CONTROLLERS"); controllers != "" {
		cfg.Controllers = strings.Split(controllers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
