package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/imgvault/internal/kvstore"
	"github.com/xxxsen/imgvault/internal/metrics"
	"github.com/xxxsen/imgvault/internal/model"
)

// AssetRegistry keeps one hash per user in the key-value store; each field
// is an asset's media URL and each value its JSON record.
type AssetRegistry struct {
	store  kvstore.HashStore
	prefix string
	cache  *expirable.LRU[string, []model.UploadedAsset]

	// cacheMu orders cache fills against invalidations; gen counts Puts so a
	// listing read before a Put is never cached after it.
	cacheMu sync.Mutex
	gen     uint64
}

type RegistryOption func(*AssetRegistry)

// WithListCache keeps decoded listings in process memory. Put invalidates
// the caller's entry on this instance only; other instances serve stale
// listings for at most ttl.
func WithListCache(size int, ttl time.Duration) RegistryOption {
	return func(r *AssetRegistry) {
		if size <= 0 || ttl <= 0 {
			return
		}
		r.cache = expirable.NewLRU[string, []model.UploadedAsset](size, nil, ttl)
	}
}

func NewAssetRegistry(store kvstore.HashStore, prefix string, opts ...RegistryOption) *AssetRegistry {
	r := &AssetRegistry{store: store, prefix: prefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *AssetRegistry) key(userID string) string {
	return r.prefix + userID
}

func (r *AssetRegistry) Put(ctx context.Context, userID string, asset *model.UploadedAsset) error {
	if userID == "" || asset == nil || asset.MediaURL == "" {
		return fmt.Errorf("put asset: user id and media url are required")
	}
	raw, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("encode asset: %w", err)
	}
	err = r.store.HSet(ctx, r.key(userID), asset.MediaURL, string(raw))
	r.invalidate(userID)
	return err
}

func (r *AssetRegistry) invalidate(userID string) {
	if r.cache == nil {
		return
	}
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.gen++
	r.cache.Remove(userID)
}

func (r *AssetRegistry) generation() uint64 {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	return r.gen
}

// fill caches items unless a Put landed since gen was taken.
func (r *AssetRegistry) fill(userID string, gen uint64, items []model.UploadedAsset) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if r.gen != gen {
		return
	}
	r.cache.Add(userID, cloneAssets(items))
}

// ListAll returns the user's assets, newest first. Records that fail to
// decode or lack required fields are logged and skipped.
func (r *AssetRegistry) ListAll(ctx context.Context, userID string) ([]model.UploadedAsset, error) {
	var gen uint64
	if r.cache != nil {
		if cached, ok := r.cache.Get(userID); ok {
			return cloneAssets(cached), nil
		}
		gen = r.generation()
	}
	fields, err := r.store.HGetAll(ctx, r.key(userID))
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(fields))
	for field := range fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	items := make([]model.UploadedAsset, 0, len(fields))
	for _, field := range keys {
		item, err := decodeAsset(fields[field])
		if err != nil {
			metrics.CorruptRecordsTotal.Inc()
			logutil.GetLogger(ctx).Warn("drop corrupt asset record",
				zap.String("user_id", userID),
				zap.String("field", field),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	if r.cache != nil {
		r.fill(userID, gen, items)
	}
	return items, nil
}

func decodeAsset(raw string) (model.UploadedAsset, error) {
	var item model.UploadedAsset
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return item, err
	}
	switch {
	case item.MediaURL == "" || item.MediaID == "":
		return item, fmt.Errorf("missing media url or id")
	case item.Date.IsZero():
		return item, fmt.Errorf("missing date")
	}
	switch item.MediaType {
	case model.MediaTypeImage, model.MediaTypeGIF, model.MediaTypeVideo:
	default:
		return item, fmt.Errorf("unknown media type %q", item.MediaType)
	}
	return item, nil
}

func cloneAssets(items []model.UploadedAsset) []model.UploadedAsset {
	out := make([]model.UploadedAsset, len(items))
	copy(out, items)
	return out
}
