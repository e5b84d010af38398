package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/xxxsen/common/logger"
)

const (
	DefaultMaxUploadBytes  = 4 * 1024 * 1024
	DefaultKeyPrefix       = "imgvault:uploads:"
	DefaultHealthCheckCron = "*/5 * * * *"

	AuthModeJWT    = "jwt"
	AuthModeHeader = "header"
)

type Config struct {
	Port            int              `json:"port" env:"IMGVAULT_PORT"`
	MaxUploadBytes  int64            `json:"max_upload_bytes" env:"IMGVAULT_MAX_UPLOAD_BYTES"`
	LogConfig       logger.LogConfig `json:"log_config"`
	Auth            AuthConfig       `json:"auth"`
	KVStore         KVStoreConfig    `json:"kv_store"`
	Registry        RegistryConfig   `json:"registry"`
	MediaStore      MediaStoreConfig `json:"media_store"`
	CORSOrigins     []string         `json:"cors_origins" env:"IMGVAULT_CORS_ORIGINS" envSeparator:","`
	HealthCheckCron string           `json:"health_check_cron" env:"IMGVAULT_HEALTH_CHECK_CRON"`
}

// AuthConfig selects how the caller identity is taken from a request. In
// header mode the host platform is trusted to set Header.
type AuthConfig struct {
	Mode      string `json:"mode" env:"IMGVAULT_AUTH_MODE"`
	JWTSecret string `json:"jwt_secret" env:"IMGVAULT_JWT_SECRET"`
	Header    string `json:"header" env:"IMGVAULT_AUTH_HEADER"`
}

type KVStoreConfig struct {
	Type     string                 `json:"type" env:"IMGVAULT_KV_TYPE"`
	Data     map[string]interface{} `json:"data"`
	RedisURL string                 `json:"-" env:"IMGVAULT_REDIS_URL"`
}

type RegistryConfig struct {
	KeyPrefix       string `json:"key_prefix" env:"IMGVAULT_REGISTRY_KEY_PREFIX"`
	CacheSize       int    `json:"cache_size" env:"IMGVAULT_REGISTRY_CACHE_SIZE"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds" env:"IMGVAULT_REGISTRY_CACHE_TTL_SECONDS"`
}

type MediaStoreConfig struct {
	Type string                 `json:"type" env:"IMGVAULT_MEDIA_STORE_TYPE"`
	Data map[string]interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.HealthCheckCron == "" {
		cfg.HealthCheckCron = DefaultHealthCheckCron
	}

	cfg.Auth.Mode = strings.ToLower(strings.TrimSpace(cfg.Auth.Mode))
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = AuthModeJWT
	}
	switch cfg.Auth.Mode {
	case AuthModeJWT:
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required for jwt mode")
		}
	case AuthModeHeader:
		if cfg.Auth.Header == "" {
			cfg.Auth.Header = "X-User-Id"
		}
	default:
		return fmt.Errorf("auth.mode must be jwt or header")
	}

	if cfg.KVStore.Type == "" {
		cfg.KVStore.Type = "redis"
	}
	if cfg.KVStore.RedisURL != "" {
		if cfg.KVStore.Data == nil {
			cfg.KVStore.Data = map[string]interface{}{}
		}
		cfg.KVStore.Data["url"] = cfg.KVStore.RedisURL
	}
	if cfg.Registry.KeyPrefix == "" {
		cfg.Registry.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.Registry.CacheSize < 0 || cfg.Registry.CacheTTLSeconds < 0 {
		return fmt.Errorf("registry cache settings must not be negative")
	}

	if cfg.MediaStore.Type == "" {
		return fmt.Errorf("media_store.type is required")
	}
	return nil
}
