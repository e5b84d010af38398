package mediastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xxxsen/imgvault/internal/imgcheck"
	"github.com/xxxsen/imgvault/internal/mediastore/mediaid"
)

type localConfig struct {
	Dir       string `json:"dir"`
	PublicURL string `json:"public_url"`
}

type localStore struct {
	dir       string
	publicURL string
}

func init() {
	Register("local", createLocalStore)
}

func createLocalStore(args interface{}) (Store, error) {
	config := &localConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.Dir == "" {
		return nil, fmt.Errorf("local media store dir is required")
	}
	if config.PublicURL == "" {
		return nil, fmt.Errorf("local media store public_url is required")
	}
	return &localStore{dir: config.Dir, publicURL: strings.TrimSuffix(config.PublicURL, "/")}, nil
}

func (s *localStore) Type() string {
	return "local"
}

func (s *localStore) Put(ctx context.Context, obj Object) (*Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mimeType, data, err := DecodeDataURL(obj.DataURL)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	id := mediaid.New()
	name := id + "." + imgcheck.Extension(mimeType)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, err
	}
	return &Stored{URL: s.publicURL + "/" + name, ID: id}, nil
}
