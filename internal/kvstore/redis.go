package kvstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisConfig struct {
	URL      string `json:"url"`
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type redisStore struct {
	client *redis.Client
}

func init() {
	Register("redis", createRedisStore)
}

func createRedisStore(args interface{}) (HashStore, error) {
	config := &redisConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	opts, err := config.options()
	if err != nil {
		return nil, err
	}
	return &redisStore{client: redis.NewClient(opts)}, nil
}

func (c *redisConfig) options() (*redis.Options, error) {
	if c.URL != "" {
		opts, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	if c.Addr == "" {
		return nil, fmt.Errorf("redis url or addr is required")
	}
	return &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}, nil
}

func (s *redisStore) HSet(ctx context.Context, key, field, value string) error {
	return s.client.HSet(ctx, key, field, value).Err()
}

func (s *redisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	res, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = map[string]string{}
	}
	return res, nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
