package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tracker/internal/amqp"
	"tracker/internal/services"
	"tracker/internal/storage"
	"tracker/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend opens the gateway, ensures the schema and wires the ledger.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	var (
		store storage.Gateway
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = storage.NewSQLiteRepository(config.DSN)
	case PostgresBackend:
		store, err = storage.NewPostgresRepository(ctx, config.DSN)
	case MemoryBackend:
		store = memory.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", config.Type, err)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	// AMQP is optional; a broker outage at start-up must not keep the
	// tracker from serving.
	var publisher services.Publisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			publisher = client
			f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange)
		}
	}

	ledger := services.NewLedgerService(store, publisher)

	f.logger.Info("Initialized backend",
		"type", config.Type,
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Store:   store,
		Ledger:  ledger,
		Cleanup: ledger.Close,
	}, nil
}
