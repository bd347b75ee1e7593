package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"tracker/internal/config"
	"tracker/internal/services"
	"tracker/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the storage gateway, the ledger built on it and a
// cleanup function releasing both.
type BackendResult struct {
	Store   storage.Gateway
	Ledger  *services.LedgerService
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite file path or PostgreSQL DSN, depending on Type.
	DSN string

	// Optional event publishing
	AMQPURL      string
	AMQPExchange string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	MemoryBackend   BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// ParseDatabaseURL maps a connection string onto a backend config.
//
//	sqlite://./data/tracker.db      -> sqlite, ./data/tracker.db
//	sqlite://./t.db?_pragma=...     -> sqlite, ./t.db?_pragma=...
//	postgres://user:pw@host/db      -> postgres, the URL unchanged
//	memory://                       -> memory
func ParseDatabaseURL(raw string) (Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse database URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "sqlite":
		if config.SQLitePath(u) == "" {
			return Config{}, fmt.Errorf("sqlite database path is empty")
		}
		return Config{Type: SQLiteBackend, DSN: config.SQLiteDSN(u)}, nil
	case "postgres", "postgresql":
		return Config{Type: PostgresBackend, DSN: raw}, nil
	case "memory":
		return Config{Type: MemoryBackend}, nil
	default:
		return Config{}, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	cfg, err := ParseDatabaseURL(appConfig.DatabaseURL)
	if err != nil {
		return Config{}, err
	}
	cfg.AMQPURL = appConfig.AMQPURL
	cfg.AMQPExchange = appConfig.AMQPExchange
	return cfg, nil
}
