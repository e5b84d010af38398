// Package mediastore talks to the service that durably keeps uploaded media
// and hands out its permanent URL and id.
package mediastore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xxxsen/imgvault/internal/config"
	"github.com/xxxsen/imgvault/internal/model"
)

// Object is one payload to store. DataURL carries both the bytes and the
// declared MIME type; MediaType is the declared kind forwarded to remote ingest.
type Object struct {
	UserID    string
	MediaType model.MediaType
	DataURL   string
}

type Stored struct {
	URL string
	ID  string
}

type Store interface {
	Type() string
	// Put stores the object once. Callers must not retry: a failed call may
	// still have written the object.
	Put(ctx context.Context, obj Object) (*Stored, error)
}

type Factory func(args interface{}) (Store, error)

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

func New(cfg config.MediaStoreConfig) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("media_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported media store type: %s", cfg.Type)
	}
	var args interface{} = cfg.Data
	if cfg.Data == nil {
		args = map[string]interface{}{}
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("media store config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode media store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode media store config: %w", err)
	}
	return nil
}
