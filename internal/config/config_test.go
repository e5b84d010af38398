package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"auth": {"jwt_secret": "x"},
		"media_store": {"type": "local", "data": {"dir": "/tmp/media"}}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	require.Equal(t, AuthModeJWT, cfg.Auth.Mode)
	require.Equal(t, "redis", cfg.KVStore.Type)
	require.Equal(t, DefaultKeyPrefix, cfg.Registry.KeyPrefix)
	require.Equal(t, DefaultHealthCheckCron, cfg.HealthCheckCron)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, "/tmp/media", cfg.MediaStore.Data["dir"])
}

func TestLoad_HeaderModeDefaultsHeader(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"auth": {"mode": "HEADER"},
		"media_store": {"type": "local"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, AuthModeHeader, cfg.Auth.Mode)
	require.Equal(t, "X-User-Id", cfg.Auth.Header)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IMGVAULT_PORT", "9090")
	t.Setenv("IMGVAULT_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("IMGVAULT_CORS_ORIGINS", "https://a.example,https://b.example")
	path := writeConfig(t, `{
		"port": 8080,
		"auth": {"jwt_secret": "x"},
		"kv_store": {"type": "redis", "data": {"addr": "localhost:6379"}},
		"media_store": {"type": "local"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "redis://cache:6379/2", cfg.KVStore.Data["url"])
	require.Equal(t, "localhost:6379", cfg.KVStore.Data["addr"])
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"missing port":        `{"auth": {"jwt_secret": "x"}, "media_store": {"type": "local"}}`,
		"missing jwt secret":  `{"port": 1, "media_store": {"type": "local"}}`,
		"unknown auth mode":   `{"port": 1, "auth": {"mode": "oauth"}, "media_store": {"type": "local"}}`,
		"missing media store": `{"port": 1, "auth": {"jwt_secret": "x"}}`,
		"negative cache":      `{"port": 1, "auth": {"jwt_secret": "x"}, "registry": {"cache_size": -1}, "media_store": {"type": "local"}}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
