// Package kvstore provides hash-map style key-value backends. Each key holds
// a field -> string map; writes are atomic per field.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xxxsen/imgvault/internal/config"
)

type HashStore interface {
	// HSet writes one field of the hash at key, creating the hash if needed.
	HSet(ctx context.Context, key, field, value string) error
	// HGetAll returns every field of the hash at key. A missing key yields
	// an empty map and no error.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Ping(ctx context.Context) error
	Close() error
}

type Factory func(args interface{}) (HashStore, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.KVStoreConfig) (HashStore, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("kv_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported kv store type: %s", cfg.Type)
	}
	var args interface{} = cfg.Data
	if cfg.Data == nil {
		args = map[string]interface{}{}
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("kv store config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode kv store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode kv store config: %w", err)
	}
	return nil
}
