package store

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/jakechorley/runroster/pkg/kv"
)

// Adapter loads and saves JSON-encoded values of type T in a key-value store
type Adapter[T any] struct {
	kv     kv.Store
	logger *zap.Logger
}

// NewAdapter wraps a key-value store
func NewAdapter[T any](backend kv.Store, logger *zap.Logger) *Adapter[T] {
	return &Adapter[T]{
		kv:     backend,
		logger: logger,
	}
}

// Load reads the value at key. A missing key, undecodable data or an
// unreachable backend all yield def; the failure is logged, never returned.
func (a *Adapter[T]) Load(ctx context.Context, key string, def T) T {
	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			a.logger.Debug("No stored value, using default", zap.String("key", key))
		} else {
			a.logger.Warn("Failed to read stored value, using default", zap.String("key", key), zap.Error(err))
		}
		return def
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		a.logger.Warn("Stored value is not valid JSON, using default",
			zap.String("key", key),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		return def
	}

	a.logger.Debug("Loaded stored value", zap.String("key", key), zap.Int("bytes", len(data)))
	return value
}

// Save serializes value and writes it at key. Failures are logged and
// returned; callers keep their in-memory value either way.
func (a *Adapter[T]) Save(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		a.logger.Error("Failed to encode value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}

	if err := a.kv.Set(ctx, key, data); err != nil {
		a.logger.Error("Failed to persist value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to persist %q: %w", key, err)
	}

	a.logger.Debug("Persisted value", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}
