package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jakechorley/runroster/internal/config"
	"github.com/jakechorley/runroster/pkg/clients/quoteclient"
	"github.com/jakechorley/runroster/pkg/kv"
	"github.com/jakechorley/runroster/pkg/kv/filekv"
	"github.com/jakechorley/runroster/pkg/kv/sqlitekv"
	"github.com/jakechorley/runroster/pkg/postgres"
)

// openBackend opens the configured key-value store. Failures are logged and
// replaced by kv.Unavailable so the session still runs on in-memory state.
func openBackend(ctx context.Context, cfg *config.Config, ephemeral bool, logger *zap.Logger) kv.Store {
	if ephemeral {
		logger.Info("Using in-memory storage (--ephemeral)")
		return kv.NewMemory()
	}

	backend, err := dialBackend(ctx, cfg.Storage)
	if err != nil {
		logger.Error("Failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		return kv.Unavailable{Cause: err}
	}

	logger.Debug("Storage opened", zap.String("backend", cfg.Storage.Backend))
	return backend
}

func dialBackend(ctx context.Context, storage config.Storage) (kv.Store, error) {
	switch storage.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), nil
	case config.BackendFile:
		var opts []filekv.Option
		if storage.File.Compress {
			opts = append(opts, filekv.WithCompression())
		}
		return filekv.New(storage.File.Dir, opts...)
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(storage.SQLite.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		return sqlitekv.Open(storage.SQLite.Path)
	case config.BackendPostgres:
		return postgres.Open(ctx, storage.Postgres.ConnString)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", storage.Backend)
	}
}

// newQuoteFetcher builds the quote client, falling back to the fixed quote when disabled or unconfigured
func newQuoteFetcher(ctx context.Context, cfg *config.Config, logger *zap.Logger) quoteclient.Fetcher {
	if !cfg.QuoteEnabled() {
		logger.Debug("Quote service disabled")
		return quoteclient.Disabled{}
	}

	var opts []quoteclient.Option
	if cfg.Quote.Endpoint != "" {
		opts = append(opts, quoteclient.WithEndpoint(cfg.Quote.Endpoint))
	}

	apiKey := cfg.QuoteAPIKey()
	if apiKey == "" {
		logger.Info("No quote API key configured, using fallback quotes", zap.String("env", cfg.Quote.APIKeyEnv))
		return quoteclient.Disabled{}
	}

	client, err := quoteclient.NewClient(ctx, apiKey, cfg.Quote.Model, logger, opts...)
	if err != nil {
		logger.Warn("Failed to create quote client, using fallback quotes", zap.Error(err))
		return quoteclient.Disabled{}
	}
	return client
}
