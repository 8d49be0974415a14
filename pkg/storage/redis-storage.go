package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

// NewRedisStorage stores values under prefix+key. A zero ttl keeps them
// until removed.
func NewRedisStorage(addr, password string, db int, prefix string, ttl time.Duration) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStorageWithClient(rdb, prefix, ttl)
}

func NewRedisStorageWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix, ttl: ttl, ctx: context.Background()}
}

func (r *RedisStorage) Get(key string) (string, bool, error) {
	v, err := r.client.Get(r.ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStorage) Set(key string, value string) error {
	return r.client.Set(r.ctx, r.prefix+key, value, r.ttl).Err()
}

func (r *RedisStorage) Remove(key string) error {
	return r.client.Del(r.ctx, r.prefix+key).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
