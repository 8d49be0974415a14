package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a second level store for raw catalog responses.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
}

type RedisCache struct {
	Addr       string
	Password   string
	DB         int
	Expiration time.Duration
	client     *redis.Client
	ctx        context.Context
}

func NewRedisCache(addr, password string, db int, expiration time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{
		Addr:       addr,
		Password:   password,
		DB:         db,
		Expiration: expiration,
		client:     rdb,
		ctx:        context.Background(),
	}
}

func (c *RedisCache) Get(key string) ([]byte, bool, error) {
	data, err := c.client.Get(c.ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(key string, data []byte) error {
	return c.client.Set(c.ctx, key, data, c.Expiration).Err()
}

func (c *RedisCache) Close() {
	c.client.Close()
}
