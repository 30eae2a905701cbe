package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type StoreBackend string

const (
	BackendMemory StoreBackend = "memory"
	BackendFile   StoreBackend = "file"
	BackendSQLite StoreBackend = "sqlite"
)

type Config struct {
	// Registry
	RegistryFilePath string `env:"REGISTRY_FILE_PATH" envDefault:"config/experiments.yaml"`

	// Visitor storage
	StoreBackend  StoreBackend `env:"STORE_BACKEND" envDefault:"file"`
	StoreFilePath string       `env:"STORE_FILE_PATH" envDefault:"data/visitor.json"`
	StoreDBPath   string       `env:"STORE_DB_PATH" envDefault:"data/visitor.db"`

	// Event logs
	EventCap        int `env:"EVENT_CAP" envDefault:"100"`
	EventTruncateTo int `env:"EVENT_TRUNCATE_TO" envDefault:"50"`

	// Export
	ExportEndpoint string `env:"EXPORT_ENDPOINT"`
	DrainCronSpec  string `env:"DRAIN_CRON_SPEC" envDefault:"0 * * * *"`

	// Client metadata attached to events
	UserAgent string `env:"CLIENT_USER_AGENT" envDefault:"ab-tracker/1.0"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	switch cfg.StoreBackend {
	case BackendMemory, BackendFile, BackendSQLite:
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	return cfg, nil
}
