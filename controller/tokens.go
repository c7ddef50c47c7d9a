package controller

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisTokens keeps refresh tokens keyed by user id.
type RedisTokens struct {
	client *redis.Client
}

func NewRedisTokens(client *redis.Client) *RedisTokens {
	return &RedisTokens{client: client}
}

func (r *RedisTokens) Save(ctx context.Context, userID uint, refresh string) error {
	return r.client.Set(ctx, key(userID), refresh, 0).Err()
}

func (r *RedisTokens) Lookup(ctx context.Context, userID uint) (string, error) {
	return r.client.Get(ctx, key(userID)).Result()
}

func key(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
